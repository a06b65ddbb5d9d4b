package models

import (
	"fmt"
	"strings"
	"time"
)

// GenerationRequest represents request for image generation endpoint
type GenerationRequest struct {
	Prompt  string `json:"prompt" validate:"required" example:"A lighthouse on a cliff at dawn"`
	Model   string `json:"model" example:"dall-e-3"`
	Size    string `json:"size" example:"1024x1024"`
	Quality string `json:"quality" example:"standard"`
	Style   string `json:"style" example:"vivid"`
	N       int    `json:"n" example:"1"`

	// APIKey overrides the server default credential
	APIKey string `json:"api_key,omitempty"`
}

func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("prompt is empty: %w", ErrMissingInput)
	}
	return nil
}

// ModelOptions is the form menu allowed for one image model.
type ModelOptions struct {
	Model          string   `json:"model"`
	Sizes          []string `json:"sizes"`
	Qualities      []string `json:"qualities,omitempty"`
	Styles         []string `json:"styles,omitempty"`
	MinN           int      `json:"min_n"`
	MaxN           int      `json:"max_n"`
	DefaultSize    string   `json:"default_size"`
	DefaultQuality string   `json:"default_quality,omitempty"`
	DefaultStyle   string   `json:"default_style,omitempty"`
}

// CountAdjustable reports whether the form shows a count slider.
func (o ModelOptions) CountAdjustable() bool {
	return o.MaxN > o.MinN
}

// GeneratedImage is one image held in the session gallery.
type GeneratedImage struct {
	ID            string    `json:"id"`
	Prompt        string    `json:"prompt"`
	RevisedPrompt string    `json:"revised_prompt,omitempty"`
	Model         string    `json:"model"`
	Size          string    `json:"size"`
	FileName      string    `json:"file_name"`
	CreatedAt     time.Time `json:"created_at"`
	Data          []byte    `json:"-"`
}

type ImageView struct {
	ID            string `json:"id"`
	FileName      string `json:"file_name"`
	Prompt        string `json:"prompt"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	URL           string `json:"url"`
	DownloadURL   string `json:"download_url"`
}

func NewImageView(img GeneratedImage) ImageView {
	return ImageView{
		ID:            img.ID,
		FileName:      img.FileName,
		Prompt:        img.Prompt,
		RevisedPrompt: img.RevisedPrompt,
		URL:           "/images/" + img.ID,
		DownloadURL:   "/images/" + img.ID + "/download",
	}
}

type GenerationResponse struct {
	Images []ImageView `json:"images"`
}
