// Package docchunk turns documents into retrieval-ready chunks. It wires
// the three stages together: format readers produce a typed fragment
// stream, the structure builder reconstructs the document tree, and the
// assembler packs the tree into size-bounded chunks with heading context.
package docchunk

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dgallion1/docchunk/chunker"
	"github.com/dgallion1/docchunk/doctree"
	"github.com/dgallion1/docchunk/fragment"
	"github.com/dgallion1/docchunk/parser"
	"github.com/dgallion1/docchunk/structure"
)

// Processor runs the full pipeline with fixed settings. The zero value is
// not usable; construct with NewProcessor.
type Processor struct {
	cfg       chunker.Config
	assembler *chunker.Assembler
}

// NewProcessor validates the chunking configuration and returns a
// processor. A nil counter uses the word-count token estimate.
func NewProcessor(cfg chunker.Config, counter chunker.TokenCounter) (*Processor, error) {
	a, err := chunker.NewAssembler(cfg, counter)
	if err != nil {
		return nil, err
	}
	return &Processor{cfg: cfg, assembler: a}, nil
}

// Process parses r according to the filename's extension and returns the
// chunk sequence.
func (p *Processor) Process(r io.Reader, filename string) ([]doctree.Chunk, error) {
	fp, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	doc, err := fp.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	tree := structure.Build(doc.Fragments)
	tree.Title = doc.Title
	return p.assembler.Assemble(tree), nil
}

// ProcessFile is Process reading from a file on disk.
func (p *Processor) ProcessFile(path string) ([]doctree.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Process(f, filepath.Base(path))
}

// BuildTree reconstructs the document tree from a fragment stream with
// default detection thresholds.
func BuildTree(frags []fragment.Fragment) *doctree.Tree {
	return structure.Build(frags)
}

// AssembleChunks packs a tree into chunks. It validates the configuration
// and uses the word-count estimate when counter is nil.
func AssembleChunks(tree *doctree.Tree, cfg chunker.Config, counter chunker.TokenCounter) ([]doctree.Chunk, error) {
	a, err := chunker.NewAssembler(cfg, counter)
	if err != nil {
		return nil, err
	}
	return a.Assemble(tree), nil
}

// ExportJSON writes chunks as an indented JSON array.
func ExportJSON(w io.Writer, chunks []doctree.Chunk) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(chunks)
}
