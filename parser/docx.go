package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/docchunk/fragment"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading and list paragraph styles become
// typed fragments; everything else stays unclassified so the heuristic
// detectors can still catch structure in style-free documents.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "docchunk-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	parsed, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &Document{Title: titleFromFilename(filename)}

	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		style := docxStyle(para)
		if level := docxHeadingLevel(style); level > 0 {
			doc.Fragments = append(doc.Fragments, fragment.Fragment{
				Kind:  fragment.KindHeading,
				Level: level,
				Text:  text,
			})
			continue
		}
		if docxListStyle(style) {
			doc.Fragments = append(doc.Fragments, fragment.Fragment{
				Kind:        fragment.KindListItem,
				Level:       0,
				NumberingID: fragment.GroupUnknown,
				Text:        text,
			})
			continue
		}
		doc.Fragments = append(doc.Fragments, fragment.Fragment{Text: text})
	}

	return doc, nil
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func docxHeadingLevel(style string) int {
	for level := 1; level <= 6; level++ {
		if strings.EqualFold(style, fmt.Sprintf("Heading%d", level)) ||
			strings.EqualFold(style, fmt.Sprintf("heading %d", level)) {
			return level
		}
	}
	if strings.EqualFold(style, "Title") {
		return 1
	}
	return 0
}

// docxListStyle matches the stock Word list styles. The numbering part
// definitions are not read, so all style-detected items land in one
// heuristic group at the top level.
func docxListStyle(style string) bool {
	s := strings.ToLower(style)
	return strings.Contains(s, "listparagraph") ||
		strings.Contains(s, "list paragraph") ||
		strings.Contains(s, "listbullet") ||
		strings.Contains(s, "listnumber")
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
