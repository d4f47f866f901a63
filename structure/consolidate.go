package structure

import (
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docchunk/fragment"
)

// ConsolidateConfig controls how raw spans are merged into paragraphs.
type ConsolidateConfig struct {
	// GapRatio is the maximum vertical gap between consecutive spans, as a
	// multiple of the observed line height, for them to belong to one
	// paragraph.
	GapRatio float64

	// FontSizeTolerance is the maximum font size difference between spans
	// of one paragraph.
	FontSizeTolerance float64
}

// DefaultConsolidateConfig returns the default consolidation thresholds.
func DefaultConsolidateConfig() ConsolidateConfig {
	return ConsolidateConfig{
		GapRatio:          1.5,
		FontSizeTolerance: 0.6,
	}
}

// Consolidator merges raw sub-paragraph spans (one per visual line) into
// whole-paragraph fragments so that heading and list detection operate on
// paragraph units. Structured fragments pass through untouched and always
// break a merge run.
type Consolidator struct {
	cfg ConsolidateConfig
}

// NewConsolidator creates a consolidator with default thresholds.
func NewConsolidator() *Consolidator {
	return &Consolidator{cfg: DefaultConsolidateConfig()}
}

// NewConsolidatorWithConfig creates a consolidator with custom thresholds.
func NewConsolidatorWithConfig(cfg ConsolidateConfig) *Consolidator {
	return &Consolidator{cfg: cfg}
}

// Consolidate returns a copy of the stream with runs of compatible spans
// merged into single paragraph-unit fragments.
func (c *Consolidator) Consolidate(frags []fragment.Fragment) []fragment.Fragment {
	lineHeight := c.observedLineHeight(frags)

	var out []fragment.Fragment
	var run []fragment.Fragment

	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, mergeRun(run))
		run = nil
	}

	for _, f := range frags {
		if f.Kind != fragment.KindSpan {
			flush()
			out = append(out, f)
			continue
		}
		if len(run) > 0 && !c.continuesRun(run[len(run)-1], f, lineHeight) {
			flush()
		}
		run = append(run, f)
	}
	flush()

	return out
}

// continuesRun reports whether span next belongs to the same visual
// paragraph as span prev.
func (c *Consolidator) continuesRun(prev, next fragment.Fragment, lineHeight float64) bool {
	// Formatting must stay consistent within a paragraph.
	if prev.FontSize > 0 && next.FontSize > 0 &&
		math.Abs(prev.FontSize-next.FontSize) > c.cfg.FontSizeTolerance {
		return false
	}
	if prev.Bold != next.Bold {
		return false
	}

	// A line that opens a list item starts its own fragment.
	if matchesListMarker(next.Text) && !matchesListMarker(prev.Text) {
		return false
	}

	if prev.BBox == nil || next.BBox == nil || lineHeight <= 0 {
		// Without geometry, formatting consistency is all we have.
		return true
	}
	gap := math.Abs(prev.BBox.Y - next.BBox.Y)
	return gap <= lineHeight*c.cfg.GapRatio
}

// observedLineHeight estimates the document's line height as the median
// baseline delta between consecutive spans.
func (c *Consolidator) observedLineHeight(frags []fragment.Fragment) float64 {
	var deltas []float64
	var prev *fragment.BBox
	for i := range frags {
		f := frags[i]
		if f.Kind != fragment.KindSpan || f.BBox == nil {
			prev = nil
			continue
		}
		if prev != nil {
			d := math.Abs(prev.Y - f.BBox.Y)
			if d > 0 {
				deltas = append(deltas, d)
			}
		}
		prev = f.BBox
	}
	if len(deltas) == 0 {
		return 0
	}
	sort.Float64s(deltas)
	// Lower median, so sparse paragraph gaps do not inflate the estimate.
	return deltas[(len(deltas)-1)/2]
}

// mergeRun collapses a run of spans into one unclassified fragment. Line
// breaks inside a paragraph become single spaces.
func mergeRun(run []fragment.Fragment) fragment.Fragment {
	if len(run) == 1 {
		f := run[0]
		f.Kind = fragment.KindUnknown
		return f
	}

	parts := make([]string, 0, len(run))
	for _, f := range run {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
	}

	merged := fragment.Fragment{
		Text:     strings.Join(parts, " "),
		FontSize: run[0].FontSize,
		Bold:     run[0].Bold,
		Kind:     fragment.KindUnknown,
	}
	if run[0].BBox != nil {
		box := *run[0].BBox
		for _, f := range run[1:] {
			if f.BBox == nil {
				continue
			}
			box.Width = math.Max(box.Width, f.BBox.Width)
			box.Height += f.BBox.Height
			box.Y = math.Min(box.Y, f.BBox.Y)
			box.X = math.Min(box.X, f.BBox.X)
		}
		merged.BBox = &box
	}
	return merged
}
