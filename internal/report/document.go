// Package report lays out customer profile documents. Callers describe each
// customer as an ordered list of label/value rows plus an optional photo and a
// Renderer turns the sequence into a paginated PDF.
package report

import (
	"strings"

	"custcrm/internal/model"
)

// Placeholder is printed in the photo column when a block has no usable image.
const Placeholder = "No Image"

// emptyValue stands in for blank Name, Email and Phone values.
const emptyValue = "—"

// Row is one label/value line of a block's details table.
type Row struct {
	Label string
	Value string
}

// Block describes a single customer entry.
type Block struct {
	Rows []Row
	// Image holds JPEG bytes prepared with PrepareImage, or nil for the placeholder.
	Image []byte
}

// Layout fixes the geometry of a document, in points.
type Layout struct {
	ImageBox    float64 // side of the square photo box
	ImageColumn float64 // width reserved left of the table
}

var (
	// BulkLayout is used for the all-customers report.
	BulkLayout = Layout{ImageBox: 80, ImageColumn: 90}
	// ProfileLayout is used for a single customer's report.
	ProfileLayout = Layout{ImageBox: 100, ImageColumn: 110}
)

// Document is an ordered sequence of blocks under a title.
type Document struct {
	Title  string
	Layout Layout
	Blocks []Block
}

// Renderer turns a Document into a binary file.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

// CustomerRows builds the details table for c.
func CustomerRows(c *model.Customer) []Row {
	return []Row{
		{Label: "Name:", Value: orDash(c.FullName())},
		{Label: "Email:", Value: orDash(c.Email)},
		{Label: "Phone:", Value: orDash(c.Phone)},
		{Label: "Address:", Value: strings.Join([]string{c.City, c.State, c.Country}, ", ")},
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return emptyValue
	}
	return s
}
