package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Document is the structured content of a one-page report: a title block, a
// two-column metrics table, a bullet list and a body section.
type Document struct {
	Title       string
	Subtitle    string
	Meta        string
	Table       [][2]string
	ListHeading string
	List        []string
	BodyHeading string
	Body        string
}

// Renderer turns a Document into PDF bytes. Stateless; safe for concurrent
// use.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer { return &Renderer{} }

const (
	marginLeft  = 18.0
	marginTop   = 16.0
	marginRight = 18.0
	labelColW   = 35.0
	valueColW   = 130.0
	lineHeight  = 6.0
)

// Render lays the document out on a single A4 page.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(marginLeft, marginTop, marginRight)
	p.SetAutoPageBreak(true, marginTop)
	p.AddPage()

	// Title block
	p.SetFont("Helvetica", "B", 16)
	p.CellFormat(0, 9, doc.Title, "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "", 11)
	p.CellFormat(0, lineHeight, doc.Subtitle, "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.CellFormat(0, 5, doc.Meta, "", 1, "L", false, 0, "")
	p.Ln(4)

	// Metrics table: first row emphasized, light grid
	p.SetDrawColor(128, 128, 128)
	p.SetLineWidth(0.25)
	for i, row := range doc.Table {
		if i == 0 {
			p.SetFont("Helvetica", "B", 10)
			p.SetFillColor(245, 245, 245)
		} else {
			p.SetFont("Helvetica", "", 10)
			p.SetFillColor(255, 255, 255)
		}
		p.CellFormat(labelColW, lineHeight, row[0], "1", 0, "L", true, 0, "")
		p.CellFormat(valueColW, lineHeight, row[1], "1", 1, "L", true, 0, "")
	}
	p.Ln(5)

	// Suggestions
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, lineHeight, doc.ListHeading, "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	for _, item := range doc.List {
		p.MultiCell(0, 5, fmt.Sprintf("- %s", item), "", "L", false)
	}
	p.Ln(5)

	// Transcript
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, lineHeight, doc.BodyHeading, "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.MultiCell(0, 4.5, doc.Body, "", "L", false)

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
