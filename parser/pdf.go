package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/docchunk/fragment"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. The Go library yields positioned text runs,
// which are grouped into line spans carrying font size, boldness and
// geometry for the heuristic detectors. When that fails it falls back to
// plain text extraction, optionally via pdftotext.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docchunk-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	doc := &Document{Title: titleFromFilename(filename)}

	frags, err := extractPDFSpans(tmpPath)
	if err != nil && p.FallbackPdftotext {
		frags, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	doc.Fragments = frags
	return doc, nil
}

// extractPDFSpans reads positioned text runs and merges runs that share a
// baseline into one span per visual line.
func extractPDFSpans(path string) ([]fragment.Fragment, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var frags []fragment.Fragment
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		frags = append(frags, pageSpans(page.Content().Text)...)
	}

	if len(frags) == 0 {
		// Some PDFs expose no positioned runs; fall back to the plain
		// text extraction path.
		return extractPDFPlainText(path)
	}
	return frags, nil
}

func pageSpans(texts []pdflib.Text) []fragment.Fragment {
	var frags []fragment.Fragment
	var line strings.Builder
	var cur pdflib.Text
	var minX, maxX float64
	open := false

	flush := func() {
		if !open {
			return
		}
		text := strings.TrimRight(line.String(), " ")
		if strings.TrimSpace(text) != "" {
			frags = append(frags, fragment.Fragment{
				Text:     text,
				FontSize: cur.FontSize,
				Bold:     strings.Contains(strings.ToLower(cur.Font), "bold"),
				Kind:     fragment.KindSpan,
				BBox: &fragment.BBox{
					X:      minX,
					Y:      cur.Y,
					Width:  maxX - minX,
					Height: cur.FontSize,
				},
			})
		}
		line.Reset()
		open = false
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		sameLine := open && math.Abs(t.Y-cur.Y) < 0.5
		if !sameLine {
			flush()
			cur = t
			minX, maxX = t.X, t.X+t.W
			open = true
		} else {
			// A visible horizontal jump within the line is a word gap.
			if t.X > maxX+0.5 && !strings.HasSuffix(line.String(), " ") {
				line.WriteString(" ")
			}
			if t.X+t.W > maxX {
				maxX = t.X + t.W
			}
			if t.X < minX {
				minX = t.X
			}
		}
		line.WriteString(t.S)
	}
	flush()
	return frags
}

func extractPDFPlainText(path string) ([]fragment.Fragment, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n\n")
	}
	return plainTextFragments(buf.String()), nil
}

func extractPdftotext(path string) ([]fragment.Fragment, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return plainTextFragments(string(out)), nil
}

// plainTextFragments splits styleless text on blank lines, the same way the
// plain text reader does.
func plainTextFragments(text string) []fragment.Fragment {
	var frags []fragment.Fragment
	for _, block := range strings.Split(text, "\n\n") {
		lines := strings.Split(block, "\n")
		var kept []string
		for _, line := range lines {
			if strings.TrimSpace(line) != "" {
				kept = append(kept, line)
			}
		}
		if len(kept) > 0 {
			frags = append(frags, blockFragments(kept)...)
		}
	}
	return frags
}
