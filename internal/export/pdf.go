package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/kdduha/genai-studio/internal/models"
)

const (
	PDFFileName    = "travel_plan.pdf"
	PDFContentType = "application/pdf"

	pdfFont     = "Arial"
	pdfFontSize = 12
	pdfLineH    = 10
	pdfMargin   = 15
)

// Body is the text of an exported travel plan.
func Body(question, answer string) string {
	return fmt.Sprintf("Travel Query:\n%s\n\nAgent Response:\n%s", question, answer)
}

// RenderPDF lays out one question and answer on A4 pages. Characters outside
// cp1252 are replaced since the core fonts cannot encode them.
func RenderPDF(question, answer string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Travel plan", true)
	pdf.SetCreator("genai-studio", true)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()
	pdf.SetFont(pdfFont, "", pdfFontSize)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.MultiCell(0, pdfLineH, tr(Body(question, answer)), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: failed to write pdf: %w", models.ErrRender, err)
	}
	return buf.Bytes(), nil
}
