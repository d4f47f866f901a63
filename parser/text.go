package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docchunk/fragment"
	"github.com/dgallion1/docchunk/structure"
)

// TextParser handles plain text files. Everything comes out unclassified;
// the heuristic detectors decide what is a heading or a list.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &Document{Title: titleFromFilename(filename)}

	var block []string
	flush := func() {
		if len(block) == 0 {
			return
		}
		doc.Fragments = append(doc.Fragments, blockFragments(block)...)
		block = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// blockFragments turns one blank-line delimited block into fragments. A
// block containing list markers is split per line so the detector sees each
// item with its indentation; plain prose stays one fragment with wrapped
// lines rejoined.
func blockFragments(block []string) []fragment.Fragment {
	hasMarker := false
	for _, line := range block {
		if structure.MatchesMarker(line) {
			hasMarker = true
			break
		}
	}

	if !hasMarker {
		parts := make([]string, len(block))
		for i, line := range block {
			parts[i] = strings.TrimSpace(line)
		}
		return []fragment.Fragment{{Text: strings.Join(parts, " ")}}
	}

	frags := make([]fragment.Fragment, 0, len(block))
	for _, line := range block {
		frags = append(frags, fragment.Fragment{Text: line})
	}
	return frags
}
