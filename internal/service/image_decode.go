package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/kdduha/genai-studio/internal/models"
	"github.com/openai/openai-go/v3"

	_ "golang.org/x/image/webp"
)

const maxImageBytes = 32 << 20

// loadImage returns the raw bytes of one generated image, from inline base64 or its URL.
func (s *ImageService) loadImage(ctx context.Context, img openai.Image) ([]byte, error) {
	if img.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode base64 image: %w", models.ErrRender, err)
		}
		return data, nil
	}
	if img.URL == "" {
		return nil, fmt.Errorf("%w: image has neither url nor data", models.ErrRender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build image request: %w", models.ErrExternalCall, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch image: %w", models.ErrExternalCall, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: image download returned status %d", models.ErrExternalCall, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image: %w", models.ErrExternalCall, err)
	}
	return data, nil
}

// toPNG validates that data is a decodable image and returns it as PNG.
func toPNG(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed image payload: %w", models.ErrRender, err)
	}
	if format == "png" {
		return data, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: failed to encode png: %w", models.ErrRender, err)
	}
	return buf.Bytes(), nil
}
