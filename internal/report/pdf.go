package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

const (
	marginLeft   = 40.0
	marginRight  = 40.0
	marginTop    = 60.0
	marginBottom = 40.0

	labelWidth    = 80.0
	valueWidth    = 350.0
	cellPadding   = 3.0
	lineHeight    = 12.0
	blockPadding  = 12.0
	blockSpacing  = 20.0
	titleSpacing  = 20.0
	fontFamily    = "DejaVu"
	bodyFontSize  = 10.0
	titleFontSize = 18.0

	ellipsis = "…"
)

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

// PDFRenderer writes letter-sized PDF documents.
type PDFRenderer struct {
	compress bool
}

// Option configures a PDFRenderer.
type Option func(*PDFRenderer)

// WithoutCompression leaves page content streams readable, which tests rely on.
func WithoutCompression() Option {
	return func(r *PDFRenderer) { r.compress = false }
}

// NewPDFRenderer creates a renderer with compressed output.
func NewPDFRenderer(opts ...Option) *PDFRenderer {
	r := &PDFRenderer{compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ Renderer = (*PDFRenderer)(nil)

// Render lays out every block top to bottom, starting a new page when the next
// block does not fit. Text is set in an embedded Unicode font.
func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetCellMargin(0)
	pdf.SetCompression(r.compress)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("custcrm", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)
	if pdf.Err() {
		return nil, fmt.Errorf("load fonts: %w", pdf.Error())
	}

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", titleFontSize)
	pdf.CellFormat(0, titleFontSize+6, pdfText(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(titleSpacing)

	for i, block := range doc.Blocks {
		drawBlock(pdf, doc.Layout, i, block)
		if pdf.Err() {
			return nil, fmt.Errorf("block %d: %w", i, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type tableRow struct {
	label     string
	lines     []string
	truncated bool
}

func (r tableRow) height() float64 {
	return float64(len(r.lines))*lineHeight + 2*cellPadding
}

func tableHeight(rows []tableRow) float64 {
	h := 0.0
	for _, row := range rows {
		h += row.height()
	}
	return h
}

func drawBlock(pdf *fpdf.Fpdf, layout Layout, idx int, block Block) {
	pdf.SetFont(fontFamily, "", bodyFontSize)

	textWidth := valueWidth - 2*cellPadding
	rows := make([]tableRow, 0, len(block.Rows))
	for _, row := range block.Rows {
		rows = append(rows, tableRow{
			label: pdfText(row.Label),
			lines: wrapText(pdf, pdfText(row.Value), textWidth),
		})
	}

	_, pageH := pdf.GetPageSize()
	left, top, _, bottom := pdf.GetMargins()
	contentH := max(tableHeight(rows), layout.ImageBox)
	if y := pdf.GetY(); idx > 0 && y > top && y+contentH+blockPadding > pageH-bottom {
		pdf.AddPage()
	}

	y0 := pdf.GetY()
	rows = fitRows(pdf, rows, pageH-bottom-blockPadding-y0, textWidth)
	tableH := tableHeight(rows)
	contentH = max(tableH, layout.ImageBox)

	if block.Image != nil {
		name := fmt.Sprintf("customer-photo-%d", idx)
		opts := fpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(block.Image))
		pdf.ImageOptions(name, left, y0+(contentH-layout.ImageBox)/2, layout.ImageBox, layout.ImageBox, false, opts, 0, "")
	} else {
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(left, y0+(contentH-lineHeight)/2)
		pdf.CellFormat(layout.ImageColumn, lineHeight, Placeholder, "", 0, "L", false, 0, "")
	}

	tx := left + layout.ImageColumn
	y := y0 + (contentH-tableH)/2
	pdf.SetLineWidth(0.25)
	for _, row := range rows {
		h := row.height()
		pdf.SetDrawColor(128, 128, 128)
		pdf.SetFillColor(245, 245, 245)
		pdf.Rect(tx, y, labelWidth, h, "FD")
		pdf.Rect(tx+labelWidth, y, valueWidth, h, "D")

		pdf.SetTextColor(0, 0, 139)
		pdf.SetXY(tx+cellPadding, y+cellPadding)
		pdf.CellFormat(labelWidth-2*cellPadding, lineHeight, row.label, "", 0, "L", false, 0, "")

		pdf.SetTextColor(0, 0, 0)
		for i, line := range row.lines {
			pdf.SetXY(tx+labelWidth+cellPadding, y+cellPadding+float64(i)*lineHeight)
			pdf.CellFormat(textWidth, lineHeight, line, "", 0, "L", false, 0, "")
		}
		y += h
	}
	if tableH > 0 {
		pdf.SetDrawColor(0, 0, 0)
		pdf.Rect(tx, y0+(contentH-tableH)/2, labelWidth+valueWidth, tableH, "D")
	}

	pdf.SetY(y0 + contentH + blockPadding + blockSpacing)
}

// fitRows drops trailing lines from the longest values until the table is no
// taller than limit, ending each shortened value with an ellipsis.
func fitRows(pdf *fpdf.Fpdf, rows []tableRow, limit, width float64) []tableRow {
	for tableHeight(rows) > limit {
		longest := -1
		for i, row := range rows {
			if len(row.lines) > 1 && (longest < 0 || len(row.lines) > len(rows[longest].lines)) {
				longest = i
			}
		}
		if longest < 0 {
			break
		}
		rows[longest].lines = rows[longest].lines[:len(rows[longest].lines)-1]
		rows[longest].truncated = true
	}

	for i, row := range rows {
		if !row.truncated {
			continue
		}
		last := row.lines[len(row.lines)-1]
		for last != "" && pdf.GetStringWidth(last+ellipsis) > width {
			_, size := utf8.DecodeLastRuneInString(last)
			last = last[:len(last)-size]
		}
		rows[i].lines[len(row.lines)-1] = strings.TrimRight(last, " ") + ellipsis
	}
	return rows
}

// wrapText breaks s into lines no wider than width in the current font.
// Words wider than a whole line are split between runes.
func wrapText(pdf *fpdf.Fpdf, s string, width float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if pdf.GetStringWidth(candidate) <= width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = ""
		for _, r := range word {
			if line != "" && pdf.GetStringWidth(line+string(r)) > width {
				lines = append(lines, line)
				line = ""
			}
			line += string(r)
		}
	}
	if line != "" || len(lines) == 0 {
		lines = append(lines, line)
	}
	return lines
}

// pdfText keeps text inside the Basic Multilingual Plane, which is all the
// embedded font tables cover, and turns control characters into spaces.
func pdfText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == utf8.RuneError || r > 0xFFFF:
			return '?'
		case unicode.IsControl(r):
			return ' '
		}
		return r
	}, s)
}
