package card

import "strings"

// Adaptive-card block and attribute names.
const (
	typeAdaptiveCard = "AdaptiveCard"
	typeTextBlock    = "TextBlock"
	typeColumnSet    = "ColumnSet"
	typeColumn       = "Column"

	cardVersion = "1.3"
	footerText  = "Automated message from the Surplus Restock Notifier"
)

// Block is one node of the notification document tree.
type Block struct {
	Type      string   `json:"type"`
	Text      string   `json:"text,omitempty"`
	Weight    string   `json:"weight,omitempty"`
	Size      string   `json:"size,omitempty"`
	IsSubtle  bool     `json:"isSubtle,omitempty"`
	Wrap      bool     `json:"wrap,omitempty"`
	Separator bool     `json:"separator,omitempty"`
	Columns   []Column `json:"columns,omitempty"`
}

// Column is one cell of a grid row. A padding cell carries no items.
type Column struct {
	Type  string  `json:"type"`
	Width string  `json:"width,omitempty"`
	Items []Block `json:"items,omitempty"`
}

// Document is the assembled notification, ready for the chat client.
type Document struct {
	Type    string  `json:"type"`
	Version string  `json:"version"`
	Body    []Block `json:"body"`
}

// Item is one entry of the assembler's input sequence: either a literal text
// block, appended to the description, or a Fact, packed into the grid.
type Item struct {
	Literal string
	Fact    *Fact
}

// TextItem wraps a literal text block.
func TextItem(s string) Item {
	return Item{Literal: s}
}

// FactItem wraps a key/value pair.
func FactItem(key, value string) Item {
	return Item{Fact: &Fact{Key: key, Value: value}}
}

// Overrides carries per-run replacements for the header blocks. A nil field
// keeps the structural default; a non-nil field replaces it outright. The merge
// is shallow by design: no recursion, no concatenation.
type Overrides struct {
	Title       *string
	DateRange   *string
	Status      *string
	Description *string
}

// header holds the resolved header texts after the merge.
type header struct {
	Title       string
	DateRange   string
	Status      string
	Description string
}

// defaultHeader returns the structural defaults used when no override is given.
func defaultHeader() header {
	return header{
		Title:       "Restock Report",
		DateRange:   "Date range unavailable",
		Status:      "Status unknown",
		Description: "No description provided",
	}
}

// merge applies the overrides field by field onto the defaults.
func merge(o Overrides) header {
	h := defaultHeader()
	if o.Title != nil {
		h.Title = *o.Title
	}
	if o.DateRange != nil {
		h.DateRange = *o.DateRange
	}
	if o.Status != nil {
		h.Status = *o.Status
	}
	if o.Description != nil {
		h.Description = *o.Description
	}
	return h
}

// String returns a pointer to s, for use as an override field.
func String(s string) *string {
	return &s
}

// Assemble merges the overrides onto the structural defaults and builds the
// notification document: title, date range, status, description (with any
// literal items newline-joined onto it), one ColumnSet per grid row, and the
// fixed footer.
func Assemble(o Overrides, items []Item, opts GridOptions) Document {
	h := merge(o)

	var (
		literals []string
		facts    []Fact
	)
	for _, item := range items {
		if item.Literal != "" {
			literals = append(literals, item.Literal)
			continue
		}
		if item.Fact != nil && item.Fact.Key != "" {
			facts = append(facts, *item.Fact)
		}
	}

	description := h.Description
	if len(literals) > 0 {
		description = description + "\n" + strings.Join(literals, "\n")
	}

	body := []Block{
		{Type: typeTextBlock, Text: h.Title, Weight: "bolder", Size: "medium"},
		{Type: typeTextBlock, Text: h.DateRange, IsSubtle: true, Size: "small"},
		{Type: typeTextBlock, Text: h.Status, Weight: "bolder"},
		{Type: typeTextBlock, Text: description, Wrap: true},
	}

	for _, row := range Pack(facts, opts) {
		body = append(body, rowBlock(row))
	}

	body = append(body, Block{
		Type:      typeTextBlock,
		Text:      footerText,
		IsSubtle:  true,
		Size:      "small",
		Separator: true,
	})

	return Document{Type: typeAdaptiveCard, Version: cardVersion, Body: body}
}

// rowBlock renders one grid row as a ColumnSet, padding cells staying empty.
func rowBlock(row []Fact) Block {
	cols := make([]Column, len(row))
	for i, f := range row {
		cols[i] = Column{Type: typeColumn, Width: "stretch"}
		if f.IsZero() {
			continue
		}
		cols[i].Items = []Block{
			{Type: typeTextBlock, Text: f.Key, Weight: "bolder", Size: "small"},
			{Type: typeTextBlock, Text: f.Value, Wrap: true},
		}
	}
	return Block{Type: typeColumnSet, Columns: cols}
}
