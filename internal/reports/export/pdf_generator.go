package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFGenerator renders tabular reports as PDF documents
type PDFGenerator struct {
	options PDFOptions
}

// PDFOptions configures PDF rendering
type PDFOptions struct {
	Title        string
	Orientation  string // "P" or "L"
	FontFamily   string
	TitleSize    float64
	HeaderSize   float64
	BodySize     float64
	HeaderFill   PDFColor
	AltRowFill   PDFColor
	ShowRowCount bool
}

// PDFColor is an RGB color triple
type PDFColor struct {
	R, G, B int
}

// DefaultPDFOptions returns default PDF rendering options
func DefaultPDFOptions(title string) PDFOptions {
	return PDFOptions{
		Title:        title,
		Orientation:  "L",
		FontFamily:   "Arial",
		TitleSize:    16,
		HeaderSize:   10,
		BodySize:     9,
		HeaderFill:   PDFColor{R: 68, G: 114, B: 196},
		AltRowFill:   PDFColor{R: 235, G: 240, B: 250},
		ShowRowCount: true,
	}
}

// NewPDFGenerator creates a new PDF generator
func NewPDFGenerator(options PDFOptions) *PDFGenerator {
	return &PDFGenerator{options: options}
}

// GenerateReport renders the columns and rows as a table and writes the PDF
func (g *PDFGenerator) GenerateReport(w io.Writer, columns []string, rows [][]string) error {
	pdf := gofpdf.New(g.options.Orientation, "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont(g.options.FontFamily, "B", g.options.TitleSize)
	pdf.CellFormat(0, 10, g.options.Title, "", 1, "L", false, 0, "")

	pdf.SetFont(g.options.FontFamily, "", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right
	colWidth := usable / float64(len(columns))

	pdf.SetFont(g.options.FontFamily, "B", g.options.HeaderSize)
	pdf.SetFillColor(g.options.HeaderFill.R, g.options.HeaderFill.G, g.options.HeaderFill.B)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range columns {
		pdf.CellFormat(colWidth, 8, col, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(g.options.FontFamily, "", g.options.BodySize)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range rows {
		fill := i%2 == 1
		if fill {
			pdf.SetFillColor(g.options.AltRowFill.R, g.options.AltRowFill.G, g.options.AltRowFill.B)
		}
		for _, val := range row {
			pdf.CellFormat(colWidth, 7, val, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if g.options.ShowRowCount {
		pdf.Ln(3)
		pdf.SetFont(g.options.FontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, fmt.Sprintf("%d rows", len(rows)), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
