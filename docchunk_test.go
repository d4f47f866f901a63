package docchunk

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dgallion1/docchunk/chunker"
	"github.com/dgallion1/docchunk/doctree"
)

const sampleMarkdown = `# Guide

Some introduction text for the guide.

## Steps

- download the archive
- unpack it somewhere
- run the installer

## Notes

Closing remarks about the process.
`

func TestProcessor_Markdown(t *testing.T) {
	p, err := NewProcessor(chunker.Config{ChunkSize: 400}, nil)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}

	chunks, err := p.Process(strings.NewReader(sampleMarkdown), "guide.md")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}

	var sawList bool
	for _, c := range chunks {
		if len(c.Metadata.Headings) == 0 || c.Metadata.Headings[0] != "Guide" {
			t.Errorf("chunk missing heading context: %+v", c.Metadata)
		}
		if c.Metadata.NodeType == doctree.ChunkTypeList {
			sawList = true
			if !strings.Contains(c.Text, "download the archive") {
				t.Errorf("list chunk missing items: %q", c.Text)
			}
		}
		if c.Metadata.TokenCount <= 0 {
			t.Errorf("chunk without token count: %+v", c.Metadata)
		}
	}
	if !sawList {
		t.Error("expected a list chunk")
	}
}

func TestProcessor_UnsupportedExtension(t *testing.T) {
	p, err := NewProcessor(chunker.DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Process(strings.NewReader("data"), "sheet.xlsx"); err == nil {
		t.Fatal("expected an error for unsupported extensions")
	}
}

func TestProcessor_InvalidConfig(t *testing.T) {
	if _, err := NewProcessor(chunker.Config{ChunkSize: 0}, nil); err == nil {
		t.Fatal("invalid configuration must be rejected at construction")
	}
}

func TestExportJSON(t *testing.T) {
	chunks := []doctree.Chunk{
		{
			Text: "hello world",
			Metadata: doctree.Metadata{
				NodeType:   doctree.ChunkTypeParagraph,
				Headings:   []string{"Top"},
				TokenCount: 2,
			},
		},
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, chunks); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	meta, ok := decoded[0]["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("metadata object missing: %v", decoded[0])
	}
	if meta["node_type"] != "paragraph" {
		t.Errorf("node_type = %v", meta["node_type"])
	}
	if meta["has_overlap"] != false {
		t.Errorf("has_overlap should serialize explicitly, got %v", meta["has_overlap"])
	}
}
