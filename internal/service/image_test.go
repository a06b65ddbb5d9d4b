package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kdduha/genai-studio/internal/cache"
	"github.com/kdduha/genai-studio/internal/config"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/kdduha/genai-studio/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func encodeTestImage(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	default:
		require.NoError(t, png.Encode(&buf, img))
	}
	return buf.Bytes()
}

// fakeOpenAI serves the image generation endpoint and the image files it links to.
type fakeOpenAI struct {
	srv       *httptest.Server
	calls     atomic.Int32
	lastBody  string
	status    int
	count     int
	fileBytes []byte
	inline    bool
}

func newFakeOpenAI(t *testing.T) *fakeOpenAI {
	t.Helper()
	f := &fakeOpenAI{status: http.StatusOK, count: 1, fileBytes: encodeTestImage(t, "png")}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		f.lastBody = string(body)

		if f.status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"message":"content policy violation","type":"invalid_request_error"}}`))
			return
		}

		items := make([]string, 0, f.count)
		for i := 0; i < f.count; i++ {
			if f.inline {
				items = append(items, fmt.Sprintf(`{"b64_json":%q}`, base64.StdEncoding.EncodeToString(f.fileBytes)))
				continue
			}
			items = append(items, fmt.Sprintf(`{"url":"%s/files/%d","revised_prompt":"a detailed cat"}`, f.srv.URL, i))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"created":1700000000,"data":[%s]}`, strings.Join(items, ","))
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(f.fileBytes)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func newTestImageService(t *testing.T, f *fakeOpenAI, defaultKey string) (*ImageService, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(zerolog.Nop(), cache.NewMemoryCache(time.Hour), "sid", time.Hour, 20)
	s := NewImageService(zerolog.Nop(), sessions, config.OpenAIConfig{
		APIKey:         defaultKey,
		BaseURL:        f.srv.URL + "/v1",
		RequestTimeout: 5 * time.Second,
	})
	s.now = func() time.Time { return time.Date(2024, 5, 17, 14, 30, 5, 0, time.UTC) }
	return s, sessions
}

func TestGenerate_MissingCredentialMakesNoCall(t *testing.T) {
	f := newFakeOpenAI(t)
	s, _ := newTestImageService(t, f, "")

	_, err := s.Generate(context.Background(), "s1", &models.GenerationRequest{Prompt: "a cat"})
	assert.ErrorIs(t, err, models.ErrMissingCredential)
	assert.Zero(t, f.calls.Load())
}

func TestGenerate_EmptyPromptMakesNoCall(t *testing.T) {
	f := newFakeOpenAI(t)
	s, _ := newTestImageService(t, f, "sk-test")

	_, err := s.Generate(context.Background(), "s1", &models.GenerationRequest{Prompt: "   "})
	assert.ErrorIs(t, err, models.ErrMissingInput)
	assert.Zero(t, f.calls.Load())
}

func TestGenerate_InvalidOptionMakesNoCall(t *testing.T) {
	f := newFakeOpenAI(t)
	s, _ := newTestImageService(t, f, "sk-test")

	_, err := s.Generate(context.Background(), "s1", &models.GenerationRequest{Prompt: "a cat", Model: DallE2, Size: "1792x1024"})
	assert.ErrorIs(t, err, models.ErrInvalidOption)
	assert.Zero(t, f.calls.Load())
}

func TestGenerate_MultipleImagesGetDistinctNames(t *testing.T) {
	f := newFakeOpenAI(t)
	f.count = 3
	s, sessions := newTestImageService(t, f, "")

	images, err := s.Generate(context.Background(), "s1", &models.GenerationRequest{
		Prompt: "a cat", Model: DallE2, Size: "256x256", N: 3, APIKey: "sk-user",
	})
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.EqualValues(t, 1, f.calls.Load())
	assert.Contains(t, f.lastBody, `"n":3`)
	assert.NotContains(t, f.lastBody, `"quality"`)

	names := map[string]bool{}
	for i, img := range images {
		assert.Equal(t, fmt.Sprintf("generated_image_20240517_143005_%d.png", i+1), img.FileName)
		assert.True(t, bytes.HasPrefix(img.Data, pngMagic))
		assert.Equal(t, "a detailed cat", img.RevisedPrompt)
		names[img.FileName] = true
	}
	assert.Len(t, names, 3)

	gallery, err := sessions.Gallery(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, gallery, 3)
}

func TestGenerate_ConvertsToPNG(t *testing.T) {
	f := newFakeOpenAI(t)
	f.fileBytes = encodeTestImage(t, "jpeg")
	f.inline = true
	s, _ := newTestImageService(t, f, "sk-test")

	images, err := s.Generate(context.Background(), "s1", &models.GenerationRequest{Prompt: "a cat"})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.True(t, bytes.HasPrefix(images[0].Data, pngMagic))
}

func TestGenerate_FailureLeavesGalleryUntouched(t *testing.T) {
	f := newFakeOpenAI(t)
	s, sessions := newTestImageService(t, f, "sk-test")
	ctx := context.Background()

	_, err := s.Generate(ctx, "s1", &models.GenerationRequest{Prompt: "a cat"})
	require.NoError(t, err)

	f.status = http.StatusBadRequest
	_, err = s.Generate(ctx, "s1", &models.GenerationRequest{Prompt: "forbidden"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrExternalCall)
	assert.Contains(t, err.Error(), "content policy violation")

	gallery, err := sessions.Gallery(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, gallery, 1)
	assert.Equal(t, "a cat", gallery[0].Prompt)
}

func TestGenerate_MalformedImageFails(t *testing.T) {
	f := newFakeOpenAI(t)
	f.fileBytes = []byte("not an image")
	s, sessions := newTestImageService(t, f, "sk-test")

	_, err := s.Generate(context.Background(), "s1", &models.GenerationRequest{Prompt: "a cat"})
	assert.ErrorIs(t, err, models.ErrRender)

	gallery, err := sessions.Gallery(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, gallery)
}
