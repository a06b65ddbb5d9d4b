package service

import (
	"testing"

	"github.com/kdduha/genai-studio/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name       string
		model      string
		sizes      []string
		qualities  []string
		styles     []string
		minN, maxN int
		adjustable bool
	}{
		{
			name:       "default is dall-e-3",
			model:      "",
			sizes:      []string{"1024x1024", "1024x1792", "1792x1024"},
			qualities:  []string{"standard", "hd"},
			styles:     []string{"vivid", "natural"},
			minN:       1,
			maxN:       1,
			adjustable: false,
		},
		{
			name:       "dall-e-2",
			model:      DallE2,
			sizes:      []string{"256x256", "512x512", "1024x1024"},
			minN:       1,
			maxN:       5,
			adjustable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := Options(tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.sizes, opts.Sizes)
			assert.Equal(t, tt.qualities, opts.Qualities)
			assert.Equal(t, tt.styles, opts.Styles)
			assert.Equal(t, tt.minN, opts.MinN)
			assert.Equal(t, tt.maxN, opts.MaxN)
			assert.Equal(t, tt.adjustable, opts.CountAdjustable())
			assert.Equal(t, tt.sizes[0], opts.DefaultSize)
		})
	}
}

func TestOptions_UnknownModel(t *testing.T) {
	_, err := Options("midjourney")
	assert.ErrorIs(t, err, models.ErrInvalidOption)
}

func TestOptions_ReturnsCopies(t *testing.T) {
	opts, err := Options(DallE3)
	require.NoError(t, err)
	opts.Sizes[0] = "1x1"

	again, err := Options(DallE3)
	require.NoError(t, err)
	assert.Equal(t, "1024x1024", again.Sizes[0])
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		req     models.GenerationRequest
		want    models.GenerationRequest
		wantErr error
	}{
		{
			name: "defaults",
			req:  models.GenerationRequest{Prompt: "cat"},
			want: models.GenerationRequest{Prompt: "cat", Model: DallE3, Size: "1024x1024", Quality: "standard", Style: "vivid", N: 1},
		},
		{
			name: "dall-e-3 forces a single image",
			req:  models.GenerationRequest{Prompt: "cat", Model: DallE3, Size: "1792x1024", Quality: "HD", Style: "Natural", N: 4},
			want: models.GenerationRequest{Prompt: "cat", Model: DallE3, Size: "1792x1024", Quality: "hd", Style: "natural", N: 1},
		},
		{
			name: "dall-e-2 drops quality and style",
			req:  models.GenerationRequest{Prompt: "cat", Model: DallE2, Size: "512x512", Quality: "hd", Style: "vivid", N: 3},
			want: models.GenerationRequest{Prompt: "cat", Model: DallE2, Size: "512x512", N: 3},
		},
		{
			name:    "dall-e-2 rejects dall-e-3 sizes",
			req:     models.GenerationRequest{Prompt: "cat", Model: DallE2, Size: "1792x1024"},
			wantErr: models.ErrInvalidOption,
		},
		{
			name:    "dall-e-3 rejects dall-e-2 sizes",
			req:     models.GenerationRequest{Prompt: "cat", Model: DallE3, Size: "256x256"},
			wantErr: models.ErrInvalidOption,
		},
		{
			name:    "count above range",
			req:     models.GenerationRequest{Prompt: "cat", Model: DallE2, N: 6},
			wantErr: models.ErrInvalidOption,
		},
		{
			name:    "unknown quality",
			req:     models.GenerationRequest{Prompt: "cat", Model: DallE3, Quality: "ultra"},
			wantErr: models.ErrInvalidOption,
		},
		{
			name:    "unknown model",
			req:     models.GenerationRequest{Prompt: "cat", Model: "dall-e-4"},
			wantErr: models.ErrInvalidOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := Normalize(&req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req)
		})
	}
}

func TestBuildImageParams(t *testing.T) {
	params := buildImageParams(&models.GenerationRequest{
		Prompt: "cat", Model: DallE2, Size: "256x256", N: 2,
	})
	assert.Equal(t, "cat", params.Prompt)
	assert.Equal(t, openai.ImageModel(DallE2), params.Model)
	assert.Equal(t, int64(2), params.N.Value)
	assert.Equal(t, openai.ImageGenerateParamsSize("256x256"), params.Size)
	assert.Empty(t, params.Quality)
	assert.Empty(t, params.Style)
	assert.Equal(t, openai.ImageGenerateParamsResponseFormatURL, params.ResponseFormat)

	params = buildImageParams(&models.GenerationRequest{
		Prompt: "cat", Model: DallE3, Size: "1024x1024", Quality: "hd", Style: "natural", N: 1,
	})
	assert.Equal(t, openai.ImageGenerateParamsQuality("hd"), params.Quality)
	assert.Equal(t, openai.ImageGenerateParamsStyle("natural"), params.Style)
}
