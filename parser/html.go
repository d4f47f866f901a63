package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docchunk/fragment"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Headings, lists and tables map straight
// to typed fragments; remaining text content becomes paragraphs.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &Document{Title: titleFromFilename(filename)}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	w := &htmlWalker{doc: doc}
	if body := findBody(root); body != nil {
		w.walk(body)
	} else {
		w.walk(root)
	}
	return doc, nil
}

type htmlWalker struct {
	doc      *Document
	listSeq  int
	tableSeq int
}

func (w *htmlWalker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if level := headingLevel(n.Data); level > 0 {
			if t := textContent(n); t != "" {
				w.doc.Fragments = append(w.doc.Fragments, fragment.Fragment{
					Kind:  fragment.KindHeading,
					Level: level,
					Text:  t,
				})
			}
			return
		}

		switch n.Data {
		case "script", "style", "nav", "footer", "header":
			return
		case "ul", "ol":
			w.listSeq++
			w.walkList(n, 0, w.listSeq)
			return
		case "table":
			w.tableSeq++
			w.walkTable(n)
			return
		case "p", "blockquote", "pre":
			if t := textContent(n); t != "" {
				w.doc.Fragments = append(w.doc.Fragments, fragment.Fragment{
					Kind: fragment.KindParagraph,
					Text: t,
				})
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// walkList emits one fragment per li. Nested uls keep the outer group id
// one level deeper, matching how the tree builder reattaches them.
func (w *htmlWalker) walkList(list *html.Node, level, groupID int) {
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		if t := itemOwnText(c); t != "" {
			w.doc.Fragments = append(w.doc.Fragments, fragment.Fragment{
				Kind:        fragment.KindListItem,
				Level:       level,
				NumberingID: groupID,
				Text:        t,
			})
		}
		for g := c.FirstChild; g != nil; g = g.NextSibling {
			if g.Type == html.ElementNode && (g.Data == "ul" || g.Data == "ol") {
				w.walkList(g, level+1, groupID)
			}
		}
	}
}

func (w *htmlWalker) walkTable(table *html.Node) {
	first := true
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			kind := fragment.RowData
			header := false
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.ElementNode {
					continue
				}
				switch c.Data {
				case "th":
					header = true
					cells = append(cells, textContent(c))
				case "td":
					cells = append(cells, textContent(c))
				}
			}
			if len(cells) == 0 {
				return
			}
			if header && first {
				kind = fragment.RowHeader
			}
			first = false
			w.doc.Fragments = append(w.doc.Fragments, fragment.Fragment{
				Kind:    fragment.KindTableRow,
				TableID: w.tableSeq,
				RowKind: kind,
				Cells:   cells,
			})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(table)
}

// itemOwnText collects an li's text without descending into nested lists,
// which are emitted as their own fragments.
func itemOwnText(li *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "ul" || n.Data == "ol") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		extract(c)
	}
	return strings.TrimSpace(buf.String())
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
