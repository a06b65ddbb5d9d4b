package service

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/kdduha/genai-studio/internal/config"
	"github.com/kdduha/genai-studio/internal/metrics"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
)

type Gallery interface {
	Gallery(ctx context.Context, sid string) ([]models.GeneratedImage, error)
	AddImages(ctx context.Context, sid string, images []models.GeneratedImage) error
	Image(ctx context.Context, sid, imageID string) (*models.GeneratedImage, error)
	ClearGallery(ctx context.Context, sid string) error
}

type ImageService struct {
	logger     zerolog.Logger
	gallery    Gallery
	httpClient *http.Client
	baseURL    string
	defaultKey string
	timeout    time.Duration
	now        func() time.Time
}

func NewImageService(logger zerolog.Logger, gallery Gallery, cfg config.OpenAIConfig) *ImageService {
	return &ImageService{
		logger:     logger.With().Str("component", "images").Logger(),
		gallery:    gallery,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    cfg.BaseURL,
		defaultKey: cfg.APIKey,
		timeout:    cfg.RequestTimeout,
		now:        time.Now,
	}
}

// HasDefaultKey reports whether the server carries its own credential.
func (s *ImageService) HasDefaultKey() bool {
	return s.defaultKey != ""
}

func (s *ImageService) Models() []string {
	return slices.Clone(ImageModels)
}

func (s *ImageService) Options(model string) (models.ModelOptions, error) {
	return Options(model)
}

// Generate issues one image generation call and stores the results in the
// session gallery. Any failure leaves the gallery untouched.
func (s *ImageService) Generate(ctx context.Context, sid string, req *models.GenerationRequest) ([]models.GeneratedImage, error) {
	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = s.defaultKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("enter an OpenAI API key: %w", models.ErrMissingCredential)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := Normalize(req); err != nil {
		return nil, err
	}

	start := time.Now()
	images, err := s.generate(ctx, apiKey, req)
	metrics.ImageGeneration(req.Model, metrics.Status(err), time.Since(start))
	if err != nil {
		s.logger.Error().Err(err).Str("model", req.Model).Msg("image generation failed")
		return nil, err
	}

	if err := s.gallery.AddImages(ctx, sid, images); err != nil {
		return nil, fmt.Errorf("failed to save images: %w", err)
	}
	s.logger.Info().
		Str("model", req.Model).
		Str("size", req.Size).
		Int("images", len(images)).
		Dur("duration", time.Since(start)).
		Msg("images generated")
	return images, nil
}

func (s *ImageService) generate(ctx context.Context, apiKey string, req *models.GenerationRequest) ([]models.GeneratedImage, error) {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(s.baseURL),
		option.WithHTTPClient(s.httpClient),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(s.timeout),
	)

	resp, err := client.Images.Generate(ctx, buildImageParams(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrExternalCall, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no images returned", models.ErrExternalCall)
	}

	stamp := s.now().Format(imageFileTimeLayout)
	images := make([]models.GeneratedImage, 0, len(resp.Data))
	for i, item := range resp.Data {
		raw, err := s.loadImage(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}
		data, err := toPNG(raw)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}

		images = append(images, models.GeneratedImage{
			ID:            uuid.NewString(),
			Prompt:        req.Prompt,
			RevisedPrompt: item.RevisedPrompt,
			Model:         req.Model,
			Size:          req.Size,
			FileName:      fmt.Sprintf(imageFileTemplate, stamp, i+1),
			CreatedAt:     s.now(),
			Data:          data,
		})
	}
	return images, nil
}

func (s *ImageService) Gallery(ctx context.Context, sid string) ([]models.GeneratedImage, error) {
	return s.gallery.Gallery(ctx, sid)
}

func (s *ImageService) Image(ctx context.Context, sid, imageID string) (*models.GeneratedImage, error) {
	return s.gallery.Image(ctx, sid, imageID)
}

func (s *ImageService) ClearGallery(ctx context.Context, sid string) error {
	return s.gallery.ClearGallery(ctx, sid)
}
