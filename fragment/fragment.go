// Package fragment defines the typed text fragments that format readers emit
// and the structure builder consumes. A fragment is the smallest unit of
// extracted text plus whatever formatting or structural metadata the source
// format exposes; everything except Text is optional, and missing structural
// metadata routes the fragment through heuristic detection instead.
package fragment

// Kind classifies a fragment when the source format carries explicit
// structural markup. KindUnknown fragments are classified heuristically.
type Kind string

const (
	KindUnknown   Kind = ""
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindListItem  Kind = "list_item"
	KindTableRow  Kind = "table_row"
	// KindSpan marks a raw sub-paragraph text run (one visual line from a
	// page-description format). Spans are merged by the paragraph
	// consolidator before any detection runs.
	KindSpan Kind = "span"
)

// RowKind distinguishes table header rows from data rows.
type RowKind string

const (
	RowUnspecified RowKind = ""
	RowHeader      RowKind = "header"
	RowData        RowKind = "data"
)

// GroupUnknown is the sentinel numbering id for list items whose grouping
// was inferred heuristically rather than read from the source format. It is
// never compared for equality against an explicit id.
const GroupUnknown = -1

// BBox is a fragment's bounding box in source coordinates. Page-description
// readers populate it; word-processor readers leave it nil.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Fragment is one record of the fragment stream contract. Readers with
// explicit structural markup set Kind plus the relevant structural fields;
// readers without it emit spans or bare paragraphs and let the detectors
// decide.
type Fragment struct {
	Text string

	// Formatting signals for heuristic detection. FontSize 0 means unknown.
	FontSize float64
	Bold     bool
	BBox     *BBox

	// Explicit structural metadata.
	Kind        Kind
	Level       int     // heading rank (1-based) or list nesting depth (0-based)
	NumberingID int     // explicit list numbering id; GroupUnknown when inferred
	TableID     int     // groups rows of one table; 0 means not part of a table
	RowKind     RowKind // header vs data for table rows
	Cells       []string
}

// IsStructured reports whether the fragment carries explicit structural
// markup and can bypass heuristic detection.
func (f Fragment) IsStructured() bool {
	return f.Kind != KindUnknown && f.Kind != KindSpan
}
