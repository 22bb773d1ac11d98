package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const unicodeFamily = "schedule"

// PDFExporter renders datasets into a landscape table. Core PDF fonts cannot draw Cyrillic,
// so a TTF font path should be supplied for real schedules; without one, text is
// transliterated through cp1252 and unsupported runes are replaced.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath may be empty.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// ContentType of the rendered document.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension of the rendered document.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)

	family := "Arial"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if e.fontPath != "" {
		pdf.AddUTF8Font(unicodeFamily, "", e.fontPath)
		pdf.AddUTF8Font(unicodeFamily, "B", e.fontPath)
		family = unicodeFamily
		tr = func(s string) string { return s }
	}
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	// the first column holds the time and stays narrow
	firstWidth := 18.0
	colWidth := (usable - firstWidth) / float64(max(len(data.Headers)-1, 1))
	width := func(i int) float64 {
		if i == 0 {
			return firstWidth
		}
		return colWidth
	}

	pdf.SetFont(family, "B", 10)
	for i, header := range data.Headers {
		pdf.CellFormat(width(i), 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 8)
	const lineHeight = 4.5
	for _, row := range data.Rows {
		lines := 1
		for i, cell := range row {
			n := len(pdf.SplitLines([]byte(tr(cell)), width(i)-2))
			if n > lines {
				lines = n
			}
		}
		height := float64(lines) * lineHeight

		x, y := pdf.GetXY()
		for i, cell := range row {
			pdf.Rect(x, y, width(i), height, "D")
			pdf.MultiCell(width(i), lineHeight, tr(strings.TrimSpace(cell)), "", "L", false)
			x += width(i)
			pdf.SetXY(x, y)
		}
		pdf.SetXY(left, y+height)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
