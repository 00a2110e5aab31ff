package report

import (
	"fmt"
	"io"

	"github.com/facilops/chamados-service/internal/model"
	"github.com/go-pdf/fpdf"
)

// PDF geometry, millimetres on A4 portrait. A ticket block never straddles a
// page: a new page starts as soon as the next block would cross the bottom
// threshold, before anything overflows.
const (
	pdfTopMargin    = 10.0
	pdfBottomMargin = 15.0
	pdfLeftMargin   = 10.0
	pdfBlockHeight  = 28.0
	pdfLineHeight   = 6.0
)

// paginate simulates the vertical cursor and returns how many ticket blocks
// land on each page. Kept pure so the break rule is testable without fpdf.
func paginate(n int, pageH, top, bottom, blockH float64) []int {
	if n <= 0 {
		return nil
	}
	var pages []int
	y := top
	count := 0
	for i := 0; i < n; i++ {
		if count > 0 && y+blockH > pageH-bottom {
			pages = append(pages, count)
			count = 0
			y = top
		}
		count++
		y += blockH
	}
	return append(pages, count)
}

// WritePDF lays the ticket set out one fixed-height block per ticket.
func (r *Renderer) WritePDF(w io.Writer, chamados []model.Chamado) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Relatório de Chamados", true)
	pdf.SetMargins(pdfLeftMargin, pdfTopMargin, pdfLeftMargin)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageH := pdf.GetPageSize()

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Relatório de Chamados"), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	y := pdf.GetY()

	for i := range chamados {
		if y+pdfBlockHeight > pageH-pdfBottomMargin {
			pdf.AddPage()
			y = pdfTopMargin
		}
		r.writeBlock(pdf, tr, &chamados[i], y)
		y += pdfBlockHeight
	}
	return pdf.Output(w)
}

func (r *Renderer) writeBlock(pdf *fpdf.Fpdf, tr func(string) string, c *model.Chamado, y float64) {
	pdf.SetXY(pdfLeftMargin, y)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, pdfLineHeight, tr(fmt.Sprintf("Chamado #%d (%s)", c.ID, c.Status())), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(pdfLeftMargin)
	pdf.CellFormat(0, pdfLineHeight, tr(fmt.Sprintf("Solicitante: %s    Local: %s", c.Requester, c.Location)), "", 1, "L", false, 0, "")

	pdf.SetX(pdfLeftMargin)
	pdf.CellFormat(0, pdfLineHeight, tr("Descrição: "+truncate(c.Description, 90)), "", 1, "L", false, 0, "")

	completed := Placeholder
	if c.CompletedAt != nil {
		completed = c.CompletedAt.In(r.loc).Format(TimeLayout)
	}
	assignee := c.Assignee
	if assignee == "" {
		assignee = Placeholder
	}
	pdf.SetX(pdfLeftMargin)
	pdf.CellFormat(0, pdfLineHeight,
		tr(fmt.Sprintf("Aberto em: %s    Concluído em: %s    Responsável: %s",
			c.CreatedAt.In(r.loc).Format(TimeLayout), completed, assignee)),
		"", 1, "L", false, 0, "")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
