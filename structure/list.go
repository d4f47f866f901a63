package structure

import (
	"math"
	"regexp"

	"github.com/dgallion1/docchunk/fragment"
)

// ListConfig tunes heuristic list item detection.
type ListConfig struct {
	// IndentTolerance is the horizontal distance within which two item
	// indents are treated as the same nesting level. The unit is points
	// for geometry-carrying input and approximated character widths
	// otherwise.
	IndentTolerance float64

	// MaxDepth caps the inferred nesting level.
	MaxDepth int
}

// DefaultListConfig returns the default list detection thresholds.
func DefaultListConfig() ListConfig {
	return ListConfig{
		IndentTolerance: 8.0,
		MaxDepth:        8,
	}
}

var (
	bulletRe   = regexp.MustCompile(`^\s*([-*+\x{2022}\x{25AA}\x{25AB}\x{25B6}\x{25BA}\x{25E6}\x{2023}])\s+(\S.*)$`)
	numberedRe = regexp.MustCompile(`^\s*\(?(\d{1,3})[.)]\s+(\S.*)$`)
	letteredRe = regexp.MustCompile(`^\s*\(?([a-zA-Z])[.)]\s+(\S.*)$`)
	romanRe    = regexp.MustCompile(`(?i)^\s*\(?([ivxlcdm]{2,7})[.)]\s+(\S.*)$`)

	leadingSpaceRe = regexp.MustCompile(`^[ \t]*`)
)

// MatchesMarker reports whether text opens with a list marker. It is the
// pattern test alone, with no indent state.
func MatchesMarker(text string) bool {
	return matchesListMarker(text)
}

// matchesListMarker reports whether text opens with any list marker.
func matchesListMarker(text string) bool {
	return bulletRe.MatchString(text) ||
		numberedRe.MatchString(text) ||
		romanRe.MatchString(text) ||
		letteredRe.MatchString(text)
}

// ListMatch describes one detected list item.
type ListMatch struct {
	// Text is the item content with the marker stripped.
	Text string

	// Level is the inferred nesting level within the current run.
	Level int

	// Ordered reports whether the marker was numbered rather than a
	// bullet glyph.
	Ordered bool
}

// ListDetector recognizes list items in unclassified fragments and infers
// nesting from indentation. Indent buckets accumulate within one contiguous
// run of items; Reset clears them when a run ends.
type ListDetector struct {
	cfg     ListConfig
	buckets []float64
}

// NewListDetector creates a detector with default thresholds.
func NewListDetector() *ListDetector {
	return &ListDetector{cfg: DefaultListConfig()}
}

// NewListDetectorWithConfig creates a detector with custom thresholds.
func NewListDetectorWithConfig(cfg ListConfig) *ListDetector {
	return &ListDetector{cfg: cfg}
}

// Match reports whether f is a list item. The level assignment consumes
// detector state, so callers must invoke Match in stream order and call
// Reset between runs.
func (d *ListDetector) Match(f fragment.Fragment) (ListMatch, bool) {
	text := f.Text
	var m ListMatch
	switch {
	case bulletRe.MatchString(text):
		m.Text = bulletRe.FindStringSubmatch(text)[2]
	case numberedRe.MatchString(text):
		m.Text = numberedRe.FindStringSubmatch(text)[2]
		m.Ordered = true
	case romanRe.MatchString(text):
		m.Text = romanRe.FindStringSubmatch(text)[2]
		m.Ordered = true
	case letteredRe.MatchString(text):
		m.Text = letteredRe.FindStringSubmatch(text)[2]
		m.Ordered = true
	default:
		return ListMatch{}, false
	}
	m.Level = d.levelFor(indentOf(f))
	return m, true
}

// Reset ends the current run and forgets its indent buckets.
func (d *ListDetector) Reset() {
	d.buckets = d.buckets[:0]
}

// levelFor quantizes an indent into the run's bucket list. A new, deeper
// indent opens a new bucket; anything else snaps to the closest existing
// bucket within tolerance.
func (d *ListDetector) levelFor(indent float64) int {
	for i, b := range d.buckets {
		if math.Abs(indent-b) <= d.cfg.IndentTolerance {
			return d.capLevel(i)
		}
	}
	if len(d.buckets) == 0 || indent > d.buckets[len(d.buckets)-1] {
		d.buckets = append(d.buckets, indent)
		return d.capLevel(len(d.buckets) - 1)
	}
	best := 0
	for i, b := range d.buckets {
		if math.Abs(indent-b) < math.Abs(indent-d.buckets[best]) {
			best = i
		}
	}
	return d.capLevel(best)
}

func (d *ListDetector) capLevel(level int) int {
	if level >= d.cfg.MaxDepth {
		return d.cfg.MaxDepth - 1
	}
	return level
}

// indentOf measures a fragment's left edge, preferring geometry and
// falling back to leading whitespace width.
func indentOf(f fragment.Fragment) float64 {
	if f.BBox != nil {
		return f.BBox.X
	}
	lead := leadingSpaceRe.FindString(f.Text)
	var width float64
	for _, r := range lead {
		if r == '\t' {
			width += 24.0
		} else {
			width += 6.0
		}
	}
	return width
}
