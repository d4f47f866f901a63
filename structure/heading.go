package structure

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dgallion1/docchunk/fragment"
)

// HeadingConfig tunes the heuristic heading detector.
type HeadingConfig struct {
	// MinScore is the confidence threshold above which a fragment is
	// treated as a heading.
	MinScore float64

	// MaxDepth caps the assigned heading level.
	MaxDepth int

	// FontBucket is the bucket width used when grouping font sizes.
	FontBucket float64

	// ShortLineWords is the word count at or below which a line counts
	// as "short".
	ShortLineWords int
}

// DefaultHeadingConfig returns the default detector thresholds.
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		MinScore:       0.5,
		MaxDepth:       6,
		FontBucket:     0.5,
		ShortLineWords: 12,
	}
}

var (
	sectionNumberRe = regexp.MustCompile(`^\d+(\.\d+)*[.)]?\s+\S`)
	sectionWordRe   = regexp.MustCompile(`(?i)^(chapter|section|part|appendix)\s+[\divxlc]+`)
)

// headingSignals is the evidence vector gathered for one fragment. Scoring
// over the vector is a pure function, which keeps the weights testable in
// isolation.
type headingSignals struct {
	fontRatio float64
	bold      bool
	allCaps   bool
	numbered  bool
	shortLine bool
	titleCase bool
}

// HeadingDetector decides which unclassified fragments are headings and at
// what level. Construction takes the full stream because both the body font
// baseline and the heading level ranking are corpus-wide properties.
type HeadingDetector struct {
	cfg HeadingConfig

	baseFontSize float64
	baseBold     bool

	// sizeLevels maps a heading font size bucket to its level. Larger
	// sizes get lower levels.
	sizeLevels map[int]int
}

// NewHeadingDetector analyzes the stream and returns a detector for it.
func NewHeadingDetector(frags []fragment.Fragment) *HeadingDetector {
	return NewHeadingDetectorWithConfig(frags, DefaultHeadingConfig())
}

// NewHeadingDetectorWithConfig is NewHeadingDetector with custom thresholds.
func NewHeadingDetectorWithConfig(frags []fragment.Fragment, cfg HeadingConfig) *HeadingDetector {
	d := &HeadingDetector{cfg: cfg, sizeLevels: make(map[int]int)}
	d.computeBaseline(frags)
	d.rankHeadingSizes(frags)
	return d
}

// Detect reports whether f is a heading and, if so, its level.
func (d *HeadingDetector) Detect(f fragment.Fragment) (int, bool) {
	if d.Score(f) < d.cfg.MinScore {
		return 0, false
	}
	return d.levelFor(f), true
}

// Score returns the heading confidence for f in [0, 1].
func (d *HeadingDetector) Score(f fragment.Fragment) float64 {
	text := strings.TrimSpace(f.Text)
	if text == "" {
		return 0
	}
	return scoreSignals(d.signals(f, text))
}

func (d *HeadingDetector) signals(f fragment.Fragment, text string) headingSignals {
	var s headingSignals
	if d.baseFontSize > 0 && f.FontSize > 0 {
		s.fontRatio = f.FontSize / d.baseFontSize
	}
	s.bold = f.Bold && !d.baseBold
	s.allCaps = isAllCaps(text)
	s.numbered = sectionNumberRe.MatchString(text) || sectionWordRe.MatchString(text)
	words := strings.Fields(text)
	s.shortLine = len(words) <= d.cfg.ShortLineWords && !endsSentence(text)
	s.titleCase = s.shortLine && isTitleCase(words)
	return s
}

// scoreSignals converts an evidence vector into a confidence score. No
// single weak signal crosses the threshold on its own; a strong font size
// jump does.
func scoreSignals(s headingSignals) float64 {
	var score float64
	switch {
	case s.fontRatio >= 1.5:
		score += 0.5
	case s.fontRatio >= 1.25:
		score += 0.35
	case s.fontRatio >= 1.1:
		score += 0.2
	}
	if s.bold {
		score += 0.2
	}
	if s.allCaps {
		score += 0.15
	}
	if s.numbered {
		score += 0.2
	}
	if s.shortLine {
		score += 0.15
	}
	if s.titleCase {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}
	// Keep weight sums exact so threshold comparisons are stable.
	return math.Round(score*100) / 100
}

// computeBaseline finds the body text font size as the weighted mode over
// unclassified fragments, and whether body text is predominantly bold.
func (d *HeadingDetector) computeBaseline(frags []fragment.Fragment) {
	sizeWeight := make(map[int]float64)
	var boldChars, totalChars float64
	for _, f := range frags {
		if f.IsStructured() {
			continue
		}
		n := float64(len(f.Text))
		if n == 0 {
			continue
		}
		totalChars += n
		if f.Bold {
			boldChars += n
		}
		if f.FontSize > 0 {
			sizeWeight[d.bucket(f.FontSize)] += n
		}
	}

	var bestBucket int
	var bestWeight float64
	for b, w := range sizeWeight {
		if w > bestWeight || (w == bestWeight && b < bestBucket) {
			bestBucket, bestWeight = b, w
		}
	}
	if bestWeight > 0 {
		d.baseFontSize = float64(bestBucket) * d.cfg.FontBucket
	}
	d.baseBold = totalChars > 0 && boldChars/totalChars > 0.5
}

// rankHeadingSizes assigns levels to the distinct font sizes of accepted
// headings, largest first.
func (d *HeadingDetector) rankHeadingSizes(frags []fragment.Fragment) {
	seen := make(map[int]bool)
	var buckets []int
	for _, f := range frags {
		if f.IsStructured() || f.FontSize <= 0 {
			continue
		}
		if d.Score(f) < d.cfg.MinScore {
			continue
		}
		b := d.bucket(f.FontSize)
		if !seen[b] {
			seen[b] = true
			buckets = append(buckets, b)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(buckets)))
	for i, b := range buckets {
		level := i + 1
		if level > d.cfg.MaxDepth {
			level = d.cfg.MaxDepth
		}
		d.sizeLevels[b] = level
	}
}

// levelFor picks a heading level from the font size ranking, falling back
// to the section numbering depth for size-less input.
func (d *HeadingDetector) levelFor(f fragment.Fragment) int {
	if f.FontSize > 0 {
		if lvl, ok := d.sizeLevels[d.bucket(f.FontSize)]; ok {
			return lvl
		}
	}
	text := strings.TrimSpace(f.Text)
	if sectionNumberRe.MatchString(text) {
		num := strings.Fields(text)[0]
		depth := strings.Count(strings.TrimRight(num, ".)"), ".") + 1
		if depth > d.cfg.MaxDepth {
			depth = d.cfg.MaxDepth
		}
		return depth
	}
	return 1
}

func (d *HeadingDetector) bucket(size float64) int {
	return int(math.Round(size / d.cfg.FontBucket))
}

func isAllCaps(text string) bool {
	var letters, upper int
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	return letters >= 3 && upper == letters
}

func isTitleCase(words []string) bool {
	if len(words) < 2 {
		return false
	}
	var capped int
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			capped++
		}
	}
	return float64(capped)/float64(len(words)) >= 0.8
}

func endsSentence(text string) bool {
	switch text[len(text)-1] {
	case '.', '!', '?', ',', ';':
		return true
	}
	return false
}
