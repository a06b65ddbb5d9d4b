package service

import (
	"context"
	"testing"

	"github.com/kdduha/genai-studio/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticExchange struct {
	ex *models.Exchange
}

func (s staticExchange) LastExchange(context.Context, string) (*models.Exchange, error) {
	return s.ex, nil
}

func TestExportLast_NothingToExport(t *testing.T) {
	s := NewExportService(zerolog.Nop(), staticExchange{})

	_, err := s.ExportLast(context.Background(), "s1")
	assert.ErrorIs(t, err, models.ErrNothingToExport)
}

func TestExportLast_RendersPDF(t *testing.T) {
	s := NewExportService(zerolog.Nop(), staticExchange{ex: &models.Exchange{Question: "Where?", Answer: "Porto."}})

	pdf, err := s.ExportLast(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, len(pdf) > 4 && string(pdf[:4]) == "%PDF")
}

func TestExportPair_Validates(t *testing.T) {
	s := NewExportService(zerolog.Nop(), staticExchange{})

	_, err := s.ExportPair(&models.ExportRequest{Question: "Where?"})
	assert.ErrorIs(t, err, models.ErrMissingInput)
}
