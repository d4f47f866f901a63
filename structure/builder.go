package structure

import (
	"strings"

	"github.com/dgallion1/docchunk/doctree"
	"github.com/dgallion1/docchunk/fragment"
)

// BuildConfig bundles the thresholds of the detection stages.
type BuildConfig struct {
	Heading     HeadingConfig
	List        ListConfig
	Consolidate ConsolidateConfig
}

// DefaultBuildConfig returns the default thresholds for all stages.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Heading:     DefaultHeadingConfig(),
		List:        DefaultListConfig(),
		Consolidate: DefaultConsolidateConfig(),
	}
}

// Build turns a fragment stream into a document tree using default
// thresholds. Fragments that carry structural metadata are honored as-is;
// unclassified fragments go through heuristic heading and list detection,
// with raw spans consolidated into paragraph units first.
func Build(frags []fragment.Fragment) *doctree.Tree {
	return BuildWithConfig(frags, DefaultBuildConfig())
}

// BuildWithConfig is Build with custom thresholds.
func BuildWithConfig(frags []fragment.Fragment, cfg BuildConfig) *doctree.Tree {
	frags = NewConsolidatorWithConfig(cfg.Consolidate).Consolidate(frags)

	b := &builder{
		tree:    &doctree.Tree{},
		heading: NewHeadingDetectorWithConfig(frags, cfg.Heading),
		list:    NewListDetectorWithConfig(cfg.List),
	}
	for _, f := range frags {
		b.feed(f)
	}
	b.flushTable()
	return b.tree
}

// builder holds the incremental tree state. The stack contains the open
// ancestors of the insertion point: headings plus any live list containers
// and items.
type builder struct {
	tree    *doctree.Tree
	heading *HeadingDetector
	list    *ListDetector

	stack []*doctree.Node

	// table accumulates consecutive rows of the same table id.
	table   *doctree.Node
	tableID int
}

func (b *builder) feed(f fragment.Fragment) {
	if f.Kind == fragment.KindTableRow {
		b.feedTableRow(f)
		return
	}
	b.flushTable()

	if strings.TrimSpace(f.Text) == "" && len(f.Cells) == 0 {
		b.list.Reset()
		return
	}

	switch f.Kind {
	case fragment.KindHeading:
		b.list.Reset()
		b.pushHeading(f.Level, strings.TrimSpace(f.Text))
	case fragment.KindListItem:
		b.pushListItem(f.Level, f.NumberingID, strings.TrimSpace(f.Text))
	case fragment.KindParagraph:
		// Explicit paragraphs are final; the detectors only see
		// fragments with no structural metadata.
		b.list.Reset()
		b.pushParagraph(strings.TrimSpace(f.Text))
	default:
		b.feedUnclassified(f)
	}
}

// feedUnclassified runs the heuristic detectors in priority order: heading
// evidence wins over a list marker, and anything else is a paragraph.
func (b *builder) feedUnclassified(f fragment.Fragment) {
	if level, ok := b.heading.Detect(f); ok {
		b.list.Reset()
		b.pushHeading(level, strings.TrimSpace(f.Text))
		return
	}
	if m, ok := b.list.Match(f); ok {
		b.pushListItem(m.Level, fragment.GroupUnknown, strings.TrimSpace(m.Text))
		return
	}
	b.list.Reset()
	b.pushParagraph(strings.TrimSpace(f.Text))
}

// pushHeading closes every deeper or equal heading and any open list
// context, then opens a new section.
func (b *builder) pushHeading(level int, text string) {
	if level < 1 {
		level = 1
	}
	for len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		if top.Kind == doctree.KindHeading && top.Level < level {
			break
		}
		b.pop()
	}
	n := &doctree.Node{Kind: doctree.KindHeading, Level: level, Text: text}
	b.attach(n)
	b.stack = append(b.stack, n)
}

// pushListItem finds or creates the container for (groupID, level) and
// appends the item. A level increase under an item of the same group nests
// a new container inside that item.
func (b *builder) pushListItem(level, groupID int, text string) {
	for len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		stop := false
		switch top.Kind {
		case doctree.KindHeading:
			stop = true
		case doctree.KindListContainer:
			stop = top.GroupID == groupID && top.Level <= level
		case doctree.KindListItem:
			stop = top.GroupID == groupID && level > top.Level
		}
		if stop {
			break
		}
		b.pop()
	}

	item := &doctree.Node{Kind: doctree.KindListItem, Level: level, GroupID: groupID, Text: text}

	if len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		if top.Kind == doctree.KindListContainer && top.GroupID == groupID && top.Level == level {
			top.Children = append(top.Children, item)
			b.stack = append(b.stack, item)
			return
		}
	}

	container := &doctree.Node{Kind: doctree.KindListContainer, Level: level, GroupID: groupID}
	container.Children = append(container.Children, item)
	b.attach(container)
	b.stack = append(b.stack, container, item)
}

// pushParagraph closes any open list context and attaches a leaf under the
// current heading.
func (b *builder) pushParagraph(text string) {
	b.closeListContext()
	b.attach(&doctree.Node{Kind: doctree.KindParagraph, Text: text})
}

func (b *builder) feedTableRow(f fragment.Fragment) {
	if b.table != nil && b.tableID != f.TableID {
		b.flushTable()
	}
	if b.table == nil {
		b.list.Reset()
		b.closeListContext()
		b.table = &doctree.Node{Kind: doctree.KindTable, GroupID: f.TableID}
		b.tableID = f.TableID
	}
	cells := f.Cells
	if len(cells) == 0 && f.Text != "" {
		cells = []string{f.Text}
	}
	if f.RowKind == fragment.RowHeader && len(b.table.Header) == 0 && len(b.table.Rows) == 0 {
		b.table.Header = cells
		return
	}
	if len(b.table.Header) == 0 && len(b.table.Rows) == 0 && f.RowKind == fragment.RowUnspecified {
		// First row doubles as the header when the source does not say.
		b.table.Header = cells
		return
	}
	b.table.Rows = append(b.table.Rows, cells)
}

func (b *builder) flushTable() {
	if b.table == nil {
		return
	}
	t := b.table
	b.table = nil
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		return
	}
	b.attach(t)
}

// closeListContext pops list items and containers so the next node attaches
// at the section level.
func (b *builder) closeListContext() {
	for len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		if top.Kind != doctree.KindListItem && top.Kind != doctree.KindListContainer {
			break
		}
		b.pop()
	}
}

// attach appends n under the innermost open node, or at the root when the
// stack is empty.
func (b *builder) attach(n *doctree.Node) {
	if len(b.stack) == 0 {
		b.tree.Nodes = append(b.tree.Nodes, n)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.Children = append(top.Children, n)
}

func (b *builder) pop() {
	b.stack = b.stack[:len(b.stack)-1]
}
