// Package doctree defines the normalized hierarchical document tree produced
// by the structure builder and the chunks cut from it by the assembler.
package doctree

// NodeKind identifies the type of a tree node.
type NodeKind string

const (
	KindHeading       NodeKind = "heading"
	KindParagraph     NodeKind = "paragraph"
	KindListContainer NodeKind = "list_container"
	KindListItem      NodeKind = "list_item"
	KindTable         NodeKind = "table"
)

// Node is one node in the document tree. It is built once by the structure
// builder and read-only afterwards.
type Node struct {
	Kind NodeKind

	// Level is the heading rank (1-based) or list nesting depth (0-based).
	// A list child's level is strictly greater than its parent's.
	Level int

	// Text holds the content of heading, paragraph and list_item nodes.
	Text string

	// Header and Rows hold the structured payload of table nodes. The first
	// source row lands in Header unless explicitly marked otherwise.
	Header []string
	Rows   [][]string

	// GroupID correlates list siblings belonging to one logical list: the
	// explicit numbering id when the source format provides one, or -1 when
	// the grouping was inferred heuristically.
	GroupID int

	Children []*Node
}

// Tree is the root of a parsed document.
type Tree struct {
	Title string
	Nodes []*Node // top-level nodes in document order
}

// Chunk node_type metadata values.
const (
	ChunkTypeParagraph = "paragraph"
	ChunkTypeList      = "list"
	ChunkTypeTable     = "table"
	ChunkTypeHeading   = "heading"
	ChunkTypeMixed     = "mixed"
)

// Metadata describes a chunk's structural context.
type Metadata struct {
	// NodeType is the dominant kind of the chunk's primary content.
	NodeType string `json:"node_type"`

	// Headings is the full heading-context path at the point the chunk was
	// cut: ancestor heading texts, outermost first.
	Headings []string `json:"headings"`

	// TokenCount is the token counter's result for the chunk text.
	TokenCount int `json:"token_count"`

	// HasOverlap is true when the chunk begins with elements carried over
	// from the previous chunk of the same list or table.
	HasOverlap bool `json:"has_overlap"`

	// OverlapElements counts those carried-over leading elements.
	OverlapElements int `json:"overlap_elements"`
}

// Chunk is a bounded-size unit of output text plus structural metadata.
// Chunks are independent value objects with no back-references to the tree.
type Chunk struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}
