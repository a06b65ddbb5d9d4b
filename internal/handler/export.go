package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kdduha/genai-studio/internal/export"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/kdduha/genai-studio/internal/session"
)

type exportService interface {
	ExportLast(ctx context.Context, sid string) ([]byte, error)
	ExportPair(req *models.ExportRequest) ([]byte, error)
	PreviewLast(ctx context.Context, sid string) ([]byte, error)
}

type ExportHandler struct {
	service exportService
}

func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{
		service: service,
	}
}

// Download serves the last exchange of the session as travel_plan.pdf.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.service.ExportLast(r.Context(), session.ID(r.Context()))
	if err != nil {
		http.Error(w, fmt.Sprintf("export failed: %s", err), statusFor(err))
		return
	}
	writeFile(w, export.PDFContentType, export.PDFFileName, pdf, true)
}

// Preview serves the first page of the export as PNG.
func (h *ExportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	img, err := h.service.PreviewLast(r.Context(), session.ID(r.Context()))
	if err != nil {
		http.Error(w, fmt.Sprintf("preview failed: %s", err), statusFor(err))
		return
	}
	writeFile(w, "image/png", "travel_plan.png", img, false)
}

// Export godoc
// @Summary Export a travel plan
// @Description Render a question and answer pair as a PDF document.
// @Tags export
// @Accept json
// @Produce application/pdf
// @Param request body models.ExportRequest true "Export request"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/assistant/export [post]
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pdf, err := h.service.ExportPair(&req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeFile(w, export.PDFContentType, export.PDFFileName, pdf, true)
}
