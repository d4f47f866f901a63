package structure

import (
	"testing"

	"github.com/dgallion1/docchunk/fragment"
)

func span(text string, size float64, y float64) fragment.Fragment {
	return fragment.Fragment{
		Text:     text,
		FontSize: size,
		Kind:     fragment.KindSpan,
		BBox:     &fragment.BBox{X: 72, Y: y, Width: 400, Height: size},
	}
}

func TestConsolidate_MergesWrappedLines(t *testing.T) {
	c := NewConsolidator()
	out := c.Consolidate([]fragment.Fragment{
		span("The quick brown fox jumps", 11, 700),
		span("over the lazy dog and keeps", 11, 688),
		span("going for one more line.", 11, 676),
	})

	if len(out) != 1 {
		t.Fatalf("expected one merged paragraph, got %d fragments", len(out))
	}
	want := "The quick brown fox jumps over the lazy dog and keeps going for one more line."
	if out[0].Text != want {
		t.Errorf("merged text = %q, want %q", out[0].Text, want)
	}
	if out[0].Kind != fragment.KindUnknown {
		t.Errorf("merged fragment should be unclassified, got %q", out[0].Kind)
	}
}

func TestConsolidate_BreaksOnLargeGap(t *testing.T) {
	c := NewConsolidator()
	out := c.Consolidate([]fragment.Fragment{
		span("first paragraph line one", 11, 700),
		span("first paragraph line two", 11, 688),
		span("second paragraph after a gap", 11, 630),
	})
	if len(out) != 2 {
		t.Fatalf("a vertical gap beyond the line height should split paragraphs, got %d fragments", len(out))
	}
}

func TestConsolidate_BreaksOnFontChange(t *testing.T) {
	c := NewConsolidator()
	out := c.Consolidate([]fragment.Fragment{
		span("Heading Sized Line", 16, 700),
		span("body continues at base size", 11, 688),
		span("and wraps once more here", 11, 676),
	})
	if len(out) != 2 {
		t.Fatalf("font size change should split fragments, got %d", len(out))
	}
	if out[0].FontSize != 16 {
		t.Errorf("first fragment should keep its font size, got %v", out[0].FontSize)
	}
}

func TestConsolidate_BreaksOnBoldChange(t *testing.T) {
	bold := span("Bold Lead Line", 11, 700)
	bold.Bold = true
	c := NewConsolidator()
	out := c.Consolidate([]fragment.Fragment{
		bold,
		span("regular continuation text", 11, 688),
	})
	if len(out) != 2 {
		t.Fatalf("bold change should split fragments, got %d", len(out))
	}
}

func TestConsolidate_BreaksOnListMarker(t *testing.T) {
	c := NewConsolidator()
	out := c.Consolidate([]fragment.Fragment{
		span("Intro sentence before the list", 11, 700),
		span("- first marker line", 11, 688),
	})
	if len(out) != 2 {
		t.Fatalf("a list marker should start its own fragment, got %d", len(out))
	}
	if out[1].Text != "- first marker line" {
		t.Errorf("marker line altered: %q", out[1].Text)
	}
}

func TestConsolidate_PassesStructuredThrough(t *testing.T) {
	c := NewConsolidator()
	heading := fragment.Fragment{Kind: fragment.KindHeading, Level: 1, Text: "Title"}
	out := c.Consolidate([]fragment.Fragment{
		span("before", 11, 700),
		heading,
		span("after", 11, 688),
	})
	if len(out) != 3 {
		t.Fatalf("structured fragments must break runs, got %d fragments", len(out))
	}
	if out[1].Kind != fragment.KindHeading {
		t.Errorf("heading not preserved: %+v", out[1])
	}
}
