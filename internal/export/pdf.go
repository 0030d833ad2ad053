package export

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin       = 20.0
	pdfLineHeight   = 5.0
	pdfBulletIndent = 5.0
)

// PDF renders doc as a single-column Letter page document using the
// Helvetica core font
func PDF(w io.Writer, doc Document) error {
	return renderPDF(w, doc, true)
}

func renderPDF(w io.Writer, doc Document, compress bool) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("Resume", false)
	pdf.SetCreator("atsbuilder", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	width := pageW - 2*pdfMargin

	if line := scoreLine(doc); line != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(113, 128, 150)
		pdf.CellFormat(width, pdfLineHeight, tr(line), "", 1, "R", false, 0, "")
		pdf.Ln(2)
	}
	if doc.Sections == nil {
		return pdf.Output(w)
	}

	contact, blocks := layout(doc.Sections)
	if len(contact) > 0 {
		pdf.SetTextColor(26, 32, 44)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(width, 8, tr(contact[0]), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, l := range contact[1:] {
			pdf.CellFormat(width, pdfLineHeight, tr(l), "", 1, "C", false, 0, "")
		}
		pdf.Ln(3)
	}

	for _, blk := range blocks {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(44, 82, 130)
		pdf.CellFormat(width, 7, tr(blk.title), "", 1, "L", false, 0, "")
		y := pdf.GetY()
		pdf.SetDrawColor(44, 82, 130)
		pdf.SetLineWidth(0.3)
		pdf.Line(pdfMargin, y, pageW-pdfMargin, y)
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(26, 32, 44)
		for _, l := range blk.lines {
			if text, ok := bulletText(l); ok {
				pdf.SetX(pdfMargin + pdfBulletIndent)
				pdf.MultiCell(width-pdfBulletIndent, pdfLineHeight, tr("• "+text), "", "L", false)
				continue
			}
			pdf.MultiCell(width, pdfLineHeight, tr(l), "", "L", false)
		}
		pdf.Ln(3)
	}
	return pdf.Output(w)
}
