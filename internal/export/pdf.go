package export

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/devplan-ai/devplan-backend/internal/projects"
)

const (
	pdfMarginMM   = 15.0
	pdfBodySizePt = 10.0
)

// writePDF renders the project document page by page. Markdown headings in
// the plan text become styled section titles; everything else is body text.
func (e *Exporter) writePDF(p *projects.Project) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginMM, pdfMarginMM, pdfMarginMM)
	pdf.SetAutoPageBreak(true, pdfMarginMM)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMarginMM

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(usable, 9, tr(p.Name), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	meta := fmt.Sprintf("%s  |  %s  |  generated %s",
		p.PublicID, metaStack(p), p.CreatedAt.Format("2006-01-02"))
	pdf.MultiCell(usable, 5, tr(meta), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if p.Description != "" {
		writePDFSection(pdf, tr, usable, "Description")
		pdf.SetFont("Helvetica", "", pdfBodySizePt)
		pdf.MultiCell(usable, 5, tr(p.Description), "", "L", false)
		pdf.Ln(3)
	}

	writePDFSection(pdf, tr, usable, "Development Plan")
	for _, line := range strings.Split(p.PlanText, "\n") {
		writePDFLine(pdf, tr, usable, line)
	}

	path := e.filePath(p.PublicID, "pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}
	return path, nil
}

func writePDFSection(pdf *gofpdf.Fpdf, tr func(string) string, usable float64, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(usable, 7, tr(title), "", "L", false)
	pdf.Ln(1)
}

func writePDFLine(pdf *gofpdf.Fpdf, tr func(string) string, usable float64, line string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		pdf.Ln(2)
	case strings.HasPrefix(trimmed, "### "):
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(usable, 5, tr(strings.TrimPrefix(trimmed, "### ")), "", "L", false)
	case strings.HasPrefix(trimmed, "## "):
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(usable, 6, tr(strings.TrimPrefix(trimmed, "## ")), "", "L", false)
	case strings.HasPrefix(trimmed, "# "):
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(usable, 6, tr(strings.TrimPrefix(trimmed, "# ")), "", "L", false)
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		pdf.SetFont("Helvetica", "", pdfBodySizePt)
		pdf.MultiCell(usable, 5, tr("  • "+trimmed[2:]), "", "L", false)
	default:
		pdf.SetFont("Helvetica", "", pdfBodySizePt)
		pdf.MultiCell(usable, 5, tr(stripInlineMarkdown(trimmed)), "", "L", false)
	}
}

func stripInlineMarkdown(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}

func metaStack(p *projects.Project) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.Frontend, p.Backend, p.Database} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "no stack recorded"
	}
	return strings.Join(parts, " / ")
}
