package model

import "time"

type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Heading is a top-level grouping within a project ("major category" in the schema).
type Heading struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subheading is a grouping nested under a heading ("subcategory" in the schema).
//
// A subheading with an empty Name is the heading's blank subheading: it holds
// sentences that belong directly to the heading and is always ordered first.
type Subheading struct {
	ID        int64     `json:"id"`
	HeadingID int64     `json:"headingId"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s Subheading) IsBlank() bool { return s.Name == "" }

type Sentence struct {
	ID           int64     `json:"id"`
	SubheadingID int64     `json:"subheadingId"`
	Content      string    `json:"content"`
	SortOrder    int       `json:"sortOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Line is one sentence joined with its ancestors, in project display order.
type Line struct {
	SentenceID      int64  `json:"sentenceId"`
	HeadingID       int64  `json:"headingId"`
	HeadingName     string `json:"heading"`
	SubheadingID    int64  `json:"subheadingId"`
	SubheadingName  string `json:"subheading"`
	Content         string `json:"content"`
	HeadingOrder    int    `json:"headingOrder"`
	SubheadingOrder int    `json:"subheadingOrder"`
	SentenceOrder   int    `json:"sentenceOrder"`
}

// Tree is a fully materialized project outline.
type Tree struct {
	Project  Project       `json:"project"`
	Headings []HeadingNode `json:"headings"`
}

type HeadingNode struct {
	Heading     Heading          `json:"heading"`
	Subheadings []SubheadingNode `json:"subheadings"`
}

type SubheadingNode struct {
	Subheading Subheading `json:"subheading"`
	Sentences  []Sentence `json:"sentences"`
}

// SentenceCount returns the number of sentences in the tree.
func (t Tree) SentenceCount() int {
	n := 0
	for _, h := range t.Headings {
		for _, s := range h.Subheadings {
			n += len(s.Sentences)
		}
	}
	return n
}

type LineKind string

const (
	LineKindHeading    LineKind = "heading"
	LineKindSubheading LineKind = "subheading"
	LineKindSentence   LineKind = "sentence"
)

// DisplayLine is one row of a flattened project outline.
type DisplayLine struct {
	Kind LineKind `json:"kind"`
	ID   int64    `json:"id"`

	// ParentID is the owning heading (for subheadings) or subheading (for sentences).
	ParentID int64 `json:"parentId,omitempty"`

	// Key addresses headings ("a", "b", ...) and subheadings ("a1", "a2", ...).
	Key string `json:"key,omitempty"`

	// Line is the 1-based sentence number; zero for headings and subheadings.
	Line int `json:"line,omitempty"`

	Position  int    `json:"position"`
	Depth     int    `json:"depth"`
	Text      string `json:"text"`
	Collapsed bool   `json:"collapsed,omitempty"`
}
