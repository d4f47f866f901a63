package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docchunk/fragment"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Markdown structure
// is fully explicit, so every fragment comes out typed: headings with
// levels, list items with a numbering group per top-level list, and table
// rows from the GFM table extension.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	doc := &Document{Title: titleFromFilename(filename)}

	listSeq := 0
	tableSeq := 0
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			doc.Fragments = append(doc.Fragments, fragment.Fragment{
				Kind:  fragment.KindHeading,
				Level: node.Level,
				Text:  string(node.Text(src)),
			})
		case *ast.List:
			listSeq++
			p.walkList(node, src, 0, listSeq, doc)
		case *east.Table:
			tableSeq++
			p.walkTable(node, src, tableSeq, doc)
		default:
			if t := extractText(n, src); t != "" {
				doc.Fragments = append(doc.Fragments, fragment.Fragment{
					Kind: fragment.KindParagraph,
					Text: t,
				})
			}
		}
	}

	return doc, nil
}

// walkList emits one item fragment per list item. Nested lists share the
// top-level list's numbering group at a deeper level, which is how the
// tree builder reassociates them.
func (p *MarkdownParser) walkList(list *ast.List, src []byte, level, groupID int, doc *Document) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if l, ok := c.(*ast.List); ok {
				nested = append(nested, l)
				continue
			}
			if t := extractText(c, src); t != "" {
				parts = append(parts, t)
			}
		}
		doc.Fragments = append(doc.Fragments, fragment.Fragment{
			Kind:        fragment.KindListItem,
			Level:       level,
			NumberingID: groupID,
			Text:        strings.Join(parts, " "),
		})
		for _, l := range nested {
			p.walkList(l, src, level+1, groupID, doc)
		}
	}
}

func (p *MarkdownParser) walkTable(table *east.Table, src []byte, tableID int, doc *Document) {
	emitRow := func(row ast.Node, kind fragment.RowKind) {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, extractText(cell, src))
		}
		doc.Fragments = append(doc.Fragments, fragment.Fragment{
			Kind:    fragment.KindTableRow,
			TableID: tableID,
			RowKind: kind,
			Cells:   cells,
		})
	}

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		if _, ok := row.(*east.TableHeader); ok {
			emitRow(row, fragment.RowHeader)
		} else {
			emitRow(row, fragment.RowData)
		}
	}
}

// extractText gets the text content of a goldmark AST node, preferring
// inline children and falling back to the raw block lines for leaves like
// code blocks.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.FirstChild() == nil && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			// Recurse for nested inlines.
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
