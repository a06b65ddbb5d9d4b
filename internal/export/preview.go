package export

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/kdduha/genai-studio/internal/models"
)

const previewDPI = 96

// Preview renders the first page of a pdf as PNG.
func Preview(pdf []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open pdf: %w", models.ErrRender, err)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(0, previewDPI)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to render page: %w", models.ErrRender, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: failed to encode preview: %w", models.ErrRender, err)
	}
	return buf.Bytes(), nil
}

// ExtractText returns the text of every page of a pdf.
func ExtractText(pdf []byte) (string, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open pdf: %w", models.ErrRender, err)
	}
	defer doc.Close()

	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("%w: failed to read page %d: %w", models.ErrRender, i+1, err)
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
