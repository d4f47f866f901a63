package structure

import (
	"testing"

	"github.com/dgallion1/docchunk/fragment"
)

func TestHeadingDetector_FontSizeRanking(t *testing.T) {
	frags := []fragment.Fragment{
		{Text: "Report Title", FontSize: 20},
		{Text: "body text that goes on long enough to anchor the baseline font size firmly.", FontSize: 10},
		{Text: "First Section", FontSize: 15},
		{Text: "more ordinary body text at the common size, also reasonably long for weight.", FontSize: 10},
		{Text: "Second Section", FontSize: 15},
	}
	d := NewHeadingDetector(frags)

	level, ok := d.Detect(frags[0])
	if !ok || level != 1 {
		t.Fatalf("largest heading size should map to level 1, got %d ok=%v", level, ok)
	}
	level, ok = d.Detect(frags[2])
	if !ok || level != 2 {
		t.Fatalf("second heading size should map to level 2, got %d ok=%v", level, ok)
	}
	if _, ok := d.Detect(frags[1]); ok {
		t.Error("baseline body text must not be detected as a heading")
	}
}

func TestHeadingDetector_RejectsLongProse(t *testing.T) {
	frags := []fragment.Fragment{
		{Text: "short body.", FontSize: 10},
		{Text: "This is a long sentence of ordinary prose that simply happens to be bold, and bold alone with this much text should never be mistaken for a heading in any document.", FontSize: 10, Bold: true},
	}
	d := NewHeadingDetector(frags)
	if _, ok := d.Detect(frags[1]); ok {
		t.Error("bold long prose must not be a heading")
	}
}

func TestHeadingDetector_LexicalOnly(t *testing.T) {
	frags := []fragment.Fragment{
		{Text: "Plain text documents carry no font information at all, just words."},
		{Text: "3.1 RESULTS"},
		{Text: "The experiment produced the numbers discussed below in detail."},
	}
	d := NewHeadingDetector(frags)

	level, ok := d.Detect(frags[1])
	if !ok {
		t.Fatal("numbered all-caps short line should be a heading")
	}
	if level != 2 {
		t.Errorf("section number 3.1 implies level 2, got %d", level)
	}
	if _, ok := d.Detect(frags[0]); ok {
		t.Error("plain prose should stay a paragraph")
	}
}

func TestHeadingDetector_BoldBaselineSuppressed(t *testing.T) {
	frags := []fragment.Fragment{
		{Text: "everything in this document is bold so boldness carries no signal at all here", FontSize: 10, Bold: true},
		{Text: "Another fully bold body paragraph to keep the baseline firmly bold overall.", FontSize: 10, Bold: true},
		{Text: "Bold Candidate Line Here", FontSize: 10, Bold: true},
	}
	d := NewHeadingDetector(frags)
	// short + title case only: 0.15 + 0.10 < threshold.
	if _, ok := d.Detect(frags[2]); ok {
		t.Error("bold must not score when the document baseline is bold")
	}
}

func TestScoreSignals(t *testing.T) {
	tests := []struct {
		name string
		sig  headingSignals
		want float64
	}{
		{"nothing", headingSignals{}, 0},
		{"big font alone", headingSignals{fontRatio: 1.6}, 0.5},
		{"moderate font short line", headingSignals{fontRatio: 1.3, shortLine: true}, 0.5},
		{"slight font alone", headingSignals{fontRatio: 1.12}, 0.2},
		{"bold caps short", headingSignals{bold: true, allCaps: true, shortLine: true}, 0.5},
		{"everything capped", headingSignals{fontRatio: 2, bold: true, allCaps: true, numbered: true, shortLine: true, titleCase: true}, 1},
	}
	for _, tt := range tests {
		if got := scoreSignals(tt.sig); got != tt.want {
			t.Errorf("%s: score = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsAllCaps(t *testing.T) {
	if !isAllCaps("RESULTS AND DISCUSSION") {
		t.Error("caps line not recognized")
	}
	if isAllCaps("Results") {
		t.Error("mixed case wrongly recognized")
	}
	if isAllCaps("IO") {
		t.Error("two-letter acronyms should not count")
	}
}
