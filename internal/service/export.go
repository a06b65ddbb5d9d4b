package service

import (
	"context"
	"fmt"

	"github.com/kdduha/genai-studio/internal/export"
	"github.com/kdduha/genai-studio/internal/metrics"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/rs/zerolog"
)

type lastExchange interface {
	LastExchange(ctx context.Context, sid string) (*models.Exchange, error)
}

type ExportService struct {
	logger    zerolog.Logger
	exchanges lastExchange
}

func NewExportService(logger zerolog.Logger, exchanges lastExchange) *ExportService {
	return &ExportService{
		logger:    logger.With().Str("component", "export").Logger(),
		exchanges: exchanges,
	}
}

// ExportLast renders the last exchange of the session as a pdf.
func (s *ExportService) ExportLast(ctx context.Context, sid string) ([]byte, error) {
	ex, err := s.last(ctx, sid)
	if err != nil {
		return nil, err
	}
	return s.render(ex.Question, ex.Answer)
}

// ExportPair renders an explicit question and answer as a pdf.
func (s *ExportService) ExportPair(req *models.ExportRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.render(req.Question, req.Answer)
}

// PreviewLast renders the first page of the last exchange export as PNG.
func (s *ExportService) PreviewLast(ctx context.Context, sid string) ([]byte, error) {
	pdf, err := s.ExportLast(ctx, sid)
	if err != nil {
		return nil, err
	}
	img, err := export.Preview(pdf)
	metrics.Export("png", metrics.Status(err))
	if err != nil {
		s.logger.Error().Err(err).Msg("preview failed")
		return nil, err
	}
	return img, nil
}

func (s *ExportService) last(ctx context.Context, sid string) (*models.Exchange, error) {
	ex, err := s.exchanges.LastExchange(ctx, sid)
	if err != nil {
		return nil, err
	}
	if ex == nil {
		return nil, fmt.Errorf("ask a question first: %w", models.ErrNothingToExport)
	}
	return ex, nil
}

func (s *ExportService) render(question, answer string) ([]byte, error) {
	pdf, err := export.RenderPDF(question, answer)
	metrics.Export("pdf", metrics.Status(err))
	if err != nil {
		s.logger.Error().Err(err).Msg("export failed")
		return nil, err
	}
	return pdf, nil
}
