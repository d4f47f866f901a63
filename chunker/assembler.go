package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/docchunk/doctree"
)

var (
	// ErrInvalidChunkSize reports a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrInvalidOverlap reports a negative overlap width.
	ErrInvalidOverlap = errors.New("overlap width must not be negative")
)

// Config controls chunk assembly.
type Config struct {
	// ChunkSize is the target token budget per chunk. A single element
	// larger than the budget still becomes one chunk; elements are never
	// split internally.
	ChunkSize int

	// OverlapWidth is the number of trailing elements repeated at the
	// start of a container's next chunk. Zero disables overlap.
	OverlapWidth int
}

// DefaultConfig returns the default assembly settings.
func DefaultConfig() Config {
	return Config{ChunkSize: 200, OverlapWidth: 0}
}

// Validate checks the configuration, wrapping the sentinel errors.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, c.ChunkSize)
	}
	if c.OverlapWidth < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidOverlap, c.OverlapWidth)
	}
	return nil
}

// Assembler walks a document tree depth-first and emits retrieval chunks.
// Headings never become chunks of their own; they ride along as a rendered
// context prefix on every chunk produced beneath them.
type Assembler struct {
	cfg    Config
	tokens *memoCounter
}

// NewAssembler validates cfg and returns an assembler. A nil counter falls
// back to the word-count estimate.
func NewAssembler(cfg Config, counter TokenCounter) (*Assembler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if counter == nil {
		counter = EstimateCounter{}
	}
	return &Assembler{cfg: cfg, tokens: newMemoCounter(counter)}, nil
}

// Assemble produces the chunk sequence for tree in reading order.
func (a *Assembler) Assemble(tree *doctree.Tree) []doctree.Chunk {
	r := &run{a: a}
	r.walk(tree.Nodes)
	r.flushParagraphs()
	if r.chunks == nil {
		r.chunks = []doctree.Chunk{}
	}
	return r.chunks
}

type headingCtx struct {
	level int
	text  string
}

// run is the state of one Assemble call.
type run struct {
	a       *Assembler
	chunks  []doctree.Chunk
	context []headingCtx

	// buf accumulates consecutive paragraphs until the budget forces a
	// flush.
	buf    []string
	bufTok int
}

func (r *run) walk(nodes []*doctree.Node) {
	for _, n := range nodes {
		switch n.Kind {
		case doctree.KindHeading:
			r.flushParagraphs()
			r.context = append(r.context, headingCtx{level: n.Level, text: n.Text})
			r.walk(n.Children)
			r.flushParagraphs()
			r.context = r.context[:len(r.context)-1]
		case doctree.KindParagraph:
			r.addParagraph(n.Text)
		case doctree.KindListContainer:
			r.flushParagraphs()
			r.emitList(n)
		case doctree.KindTable:
			r.flushParagraphs()
			r.emitTable(n)
		}
	}
}

// addParagraph appends text to the paragraph buffer, flushing first when
// the addition would overflow the budget. Token sums are tracked
// incrementally; only the final chunk text is counted whole.
func (r *run) addParagraph(text string) {
	t := r.a.tokens.Count(text)
	if len(r.buf) > 0 && r.prefixTok()+r.bufTok+r.sepTok()+t > r.a.cfg.ChunkSize {
		r.flushParagraphs()
	}
	if len(r.buf) > 0 {
		r.bufTok += r.sepTok()
	}
	r.buf = append(r.buf, text)
	r.bufTok += t
}

func (r *run) flushParagraphs() {
	if len(r.buf) == 0 {
		return
	}
	text := r.prefix() + strings.Join(r.buf, "\n\n")
	r.emit(text, doctree.ChunkTypeParagraph, 0)
	r.buf = nil
	r.bufTok = 0
}

func (r *run) emitList(n *doctree.Node) {
	items := make([]string, 0, len(n.Children))
	for _, item := range n.Children {
		items = append(items, renderListItem(item, 0))
	}
	for _, ec := range r.splitElements(items) {
		r.emit(ec.text, doctree.ChunkTypeList, ec.overlap)
	}
}

func (r *run) emitTable(n *doctree.Node) {
	if len(n.Rows) == 0 {
		if len(n.Header) > 0 {
			r.emit(r.prefix()+strings.Join(n.Header, " | "), doctree.ChunkTypeTable, 0)
		}
		return
	}
	rows := make([]string, 0, len(n.Rows))
	for _, cells := range n.Rows {
		rows = append(rows, formatRow(n.Header, cells))
	}
	for _, ec := range r.splitElements(rows) {
		r.emit(ec.text, doctree.ChunkTypeTable, ec.overlap)
	}
}

type elementChunk struct {
	text    string
	overlap int
}

// splitElements packs rendered elements into budget-sized chunks, carrying
// the last OverlapWidth elements across each split. The carry is bounded by
// the elements actually emitted so far, and carried elements are never
// re-split: a group that is pure carry absorbs the next element even when
// over budget, so the walk always advances.
func (r *run) splitElements(elems []string) []elementChunk {
	prefix := r.prefix()
	prefixTok := r.a.tokens.Count(prefix)
	sep := "\n"
	sepTok := r.a.tokens.Count(sep)

	var out []elementChunk
	var cur []string
	curTok := 0
	carried := 0

	for _, e := range elems {
		add := r.a.tokens.Count(e)
		if len(cur) > 0 {
			add += sepTok
		}
		if len(cur) > carried && prefixTok+curTok+add > r.a.cfg.ChunkSize {
			out = append(out, elementChunk{text: prefix + strings.Join(cur, sep), overlap: carried})

			ov := r.a.cfg.OverlapWidth
			if ov > len(cur) {
				ov = len(cur)
			}
			cur = append([]string(nil), cur[len(cur)-ov:]...)
			carried = ov
			curTok = 0
			for i, c := range cur {
				if i > 0 {
					curTok += sepTok
				}
				curTok += r.a.tokens.Count(c)
			}
			add = r.a.tokens.Count(e)
			if len(cur) > 0 {
				add += sepTok
			}
		}
		cur = append(cur, e)
		curTok += add
	}
	if len(cur) > 0 {
		out = append(out, elementChunk{text: prefix + strings.Join(cur, sep), overlap: carried})
	}
	return out
}

func (r *run) emit(text string, nodeType string, overlap int) {
	headings := make([]string, len(r.context))
	for i, h := range r.context {
		headings[i] = h.text
	}
	r.chunks = append(r.chunks, doctree.Chunk{
		Text: text,
		Metadata: doctree.Metadata{
			NodeType:        nodeType,
			Headings:        headings,
			TokenCount:      r.a.tokens.Count(text),
			HasOverlap:      overlap > 0,
			OverlapElements: overlap,
		},
	})
}

// prefix renders the open heading path, e.g. "H1: Title\nH2: Sub\n---\n".
func (r *run) prefix() string {
	if len(r.context) == 0 {
		return ""
	}
	var b strings.Builder
	for _, h := range r.context {
		fmt.Fprintf(&b, "H%d: %s\n", h.level, h.text)
	}
	b.WriteString("---\n")
	return b.String()
}

func (r *run) prefixTok() int {
	return r.a.tokens.Count(r.prefix())
}

func (r *run) sepTok() int {
	return r.a.tokens.Count("\n\n")
}

// renderListItem flattens an item and its nested containers into indented
// bullet lines.
func renderListItem(n *doctree.Node, depth int) string {
	lines := []string{strings.Repeat("  ", depth) + "- " + n.Text}
	for _, c := range n.Children {
		switch c.Kind {
		case doctree.KindListContainer:
			for _, item := range c.Children {
				lines = append(lines, renderListItem(item, depth+1))
			}
		case doctree.KindParagraph:
			lines = append(lines, strings.Repeat("  ", depth+1)+c.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// formatRow renders one data row with header labels inlined, so every
// chunk of a long table stays interpretable on its own.
func formatRow(header, cells []string) string {
	if len(header) == 0 {
		return strings.Join(cells, " | ")
	}
	parts := make([]string, len(cells))
	for i, c := range cells {
		if i < len(header) && header[i] != "" {
			parts[i] = header[i] + ": " + c
		} else {
			parts[i] = c
		}
	}
	return strings.Join(parts, " | ")
}
