package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kdduha/genai-studio/internal/models"
	"github.com/openai/openai-go/v3"
)

type modelSpec struct {
	sizes     []string
	qualities []string
	styles    []string
	minN      int
	maxN      int
}

// Options returns the form menu for model. An empty model selects the default one.
func Options(model string) (models.ModelOptions, error) {
	if model == "" {
		model = defaultModel
	}
	spec, ok := modelOptions[model]
	if !ok {
		return models.ModelOptions{}, fmt.Errorf("unknown model %q: %w", model, models.ErrInvalidOption)
	}

	opts := models.ModelOptions{
		Model:       model,
		Sizes:       slices.Clone(spec.sizes),
		Qualities:   slices.Clone(spec.qualities),
		Styles:      slices.Clone(spec.styles),
		MinN:        spec.minN,
		MaxN:        spec.maxN,
		DefaultSize: spec.sizes[0],
	}
	if len(spec.qualities) > 0 {
		opts.DefaultQuality = spec.qualities[0]
	}
	if len(spec.styles) > 0 {
		opts.DefaultStyle = spec.styles[0]
	}
	return opts, nil
}

// Normalize fills defaults and restricts the request to the menu of its model.
func Normalize(req *models.GenerationRequest) error {
	req.Model = strings.TrimSpace(req.Model)
	opts, err := Options(req.Model)
	if err != nil {
		return err
	}
	req.Model = opts.Model

	if req.Size == "" {
		req.Size = opts.DefaultSize
	}
	if !slices.Contains(opts.Sizes, req.Size) {
		return fmt.Errorf("size %q is not available for %s: %w", req.Size, req.Model, models.ErrInvalidOption)
	}

	req.Quality = strings.ToLower(req.Quality)
	req.Style = strings.ToLower(req.Style)
	if len(opts.Qualities) == 0 {
		req.Quality = ""
	} else if req.Quality == "" {
		req.Quality = opts.DefaultQuality
	} else if !slices.Contains(opts.Qualities, req.Quality) {
		return fmt.Errorf("quality %q is not available for %s: %w", req.Quality, req.Model, models.ErrInvalidOption)
	}

	if len(opts.Styles) == 0 {
		req.Style = ""
	} else if req.Style == "" {
		req.Style = opts.DefaultStyle
	} else if !slices.Contains(opts.Styles, req.Style) {
		return fmt.Errorf("style %q is not available for %s: %w", req.Style, req.Model, models.ErrInvalidOption)
	}

	if !opts.CountAdjustable() || req.N == 0 {
		req.N = opts.MinN
	}
	if req.N < opts.MinN || req.N > opts.MaxN {
		return fmt.Errorf("image count must be between %d and %d: %w", opts.MinN, opts.MaxN, models.ErrInvalidOption)
	}
	return nil
}

func buildImageParams(req *models.GenerationRequest) openai.ImageGenerateParams {
	params := openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openai.ImageModel(req.Model),
		N:              openai.Int(int64(req.N)),
		Size:           openai.ImageGenerateParamsSize(req.Size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	}

	if req.Quality != "" {
		params.Quality = openai.ImageGenerateParamsQuality(req.Quality)
	}
	if req.Style != "" {
		params.Style = openai.ImageGenerateParamsStyle(req.Style)
	}
	return params
}
