package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/kdduha/genai-studio/internal/session"
)

type imageService interface {
	Models() []string
	HasDefaultKey() bool
	Options(model string) (models.ModelOptions, error)
	Generate(ctx context.Context, sid string, req *models.GenerationRequest) ([]models.GeneratedImage, error)
	Gallery(ctx context.Context, sid string) ([]models.GeneratedImage, error)
	Image(ctx context.Context, sid, imageID string) (*models.GeneratedImage, error)
	ClearGallery(ctx context.Context, sid string) error
}

type ImageHandler struct {
	service imageService
}

func NewImageHandler(service imageService) *ImageHandler {
	return &ImageHandler{
		service: service,
	}
}

type imagesPage struct {
	Models        []string
	Options       models.ModelOptions
	Form          models.GenerationRequest
	HasDefaultKey bool
	Latest        []models.ImageView
	Gallery       []models.ImageView
	Error         string
}

func (h *ImageHandler) page(ctx context.Context, form models.GenerationRequest) (*imagesPage, error) {
	page := &imagesPage{
		Models:        h.service.Models(),
		Form:          form,
		HasDefaultKey: h.service.HasDefaultKey(),
	}

	opts, err := h.service.Options(form.Model)
	if err != nil {
		page.Error = err.Error()
		if opts, err = h.service.Options(""); err != nil {
			return nil, err
		}
	}
	page.Options = opts

	if !slices.Contains(opts.Sizes, page.Form.Size) {
		page.Form.Size = opts.DefaultSize
	}
	if !slices.Contains(opts.Qualities, page.Form.Quality) {
		page.Form.Quality = opts.DefaultQuality
	}
	if !slices.Contains(opts.Styles, page.Form.Style) {
		page.Form.Style = opts.DefaultStyle
	}
	if page.Form.N < opts.MinN || page.Form.N > opts.MaxN {
		page.Form.N = opts.MinN
	}

	gallery, err := h.service.Gallery(ctx, session.ID(ctx))
	if err != nil {
		return nil, err
	}
	page.Gallery = imageViews(gallery)
	return page, nil
}

// Page renders the generation form with menus restricted to the selected model.
func (h *ImageHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r.Context(), models.GenerationRequest{Model: r.URL.Query().Get("model")})
	if err != nil {
		http.Error(w, fmt.Sprintf("service error: %s", err), statusFor(err))
		return
	}
	renderPage(w, r, http.StatusOK, "images", page)
}

// Submit generates images from the form and renders them with the gallery.
func (h *ImageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	req, formErr := parseGenerationForm(r)

	var (
		images []models.GeneratedImage
		err    = formErr
	)
	if err == nil {
		images, err = h.service.Generate(r.Context(), session.ID(r.Context()), &req)
	}

	page, pageErr := h.page(r.Context(), req)
	if pageErr != nil {
		http.Error(w, fmt.Sprintf("service error: %s", pageErr), statusFor(pageErr))
		return
	}

	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		page.Error = fmt.Sprintf("Image generation failed: %s", err)
	} else {
		page.Latest = imageViews(images)
		page.Gallery = withoutImages(page.Gallery, images)
	}
	renderPage(w, r, status, "images", page)
}

// withoutImages drops the views of images from gallery.
func withoutImages(gallery []models.ImageView, images []models.GeneratedImage) []models.ImageView {
	return slices.DeleteFunc(gallery, func(v models.ImageView) bool {
		return slices.ContainsFunc(images, func(img models.GeneratedImage) bool { return img.ID == v.ID })
	})
}

func parseGenerationForm(r *http.Request) (models.GenerationRequest, error) {
	if err := r.ParseForm(); err != nil {
		return models.GenerationRequest{}, fmt.Errorf("invalid form: %s: %w", err, models.ErrMissingInput)
	}

	req := models.GenerationRequest{
		Prompt:  r.PostForm.Get("prompt"),
		Model:   r.PostForm.Get("model"),
		Size:    r.PostForm.Get("size"),
		Quality: r.PostForm.Get("quality"),
		Style:   r.PostForm.Get("style"),
		APIKey:  strings.TrimSpace(r.PostForm.Get("api_key")),
	}
	if raw := r.PostForm.Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("image count %q is not a number: %w", raw, models.ErrInvalidOption)
		}
		req.N = n
	}
	return req, nil
}

// Generate godoc
// @Summary Generate images
// @Description Generate images from a text prompt with DALL·E. Generated images are added to the session gallery.
// @Tags images
// @Accept json
// @Produce json
// @Param request body models.GenerationRequest true "Generation request"
// @Success 200 {object} models.GenerationResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/images [post]
func (h *ImageHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	images, err := h.service.Generate(r.Context(), session.ID(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, models.GenerationResponse{Images: imageViews(images)})
}

// Options godoc
// @Summary Model options
// @Description Sizes, qualities, styles and image count bounds allowed for a model.
// @Tags images
// @Produce json
// @Param model query string false "Image model" Enums(dall-e-3, dall-e-2)
// @Success 200 {object} models.ModelOptions
// @Failure 400 {object} map[string]string
// @Router /api/images/options [get]
func (h *ImageHandler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.URL.Query().Get("model"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, opts)
}

// View serves a gallery image inline.
func (h *ImageHandler) View(w http.ResponseWriter, r *http.Request) {
	h.serveImage(w, r, false)
}

// Download serves a gallery image as an attachment named after its timestamp.
func (h *ImageHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.serveImage(w, r, true)
}

func (h *ImageHandler) serveImage(w http.ResponseWriter, r *http.Request, attachment bool) {
	img, err := h.service.Image(r.Context(), session.ID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeFile(w, "image/png", img.FileName, img.Data, attachment)
}

// Clear empties the session gallery.
func (h *ImageHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearGallery(r.Context(), session.ID(r.Context())); err != nil {
		http.Error(w, fmt.Sprintf("service error: %s", err), statusFor(err))
		return
	}
	http.Redirect(w, r, "/images", http.StatusSeeOther)
}

func imageViews(images []models.GeneratedImage) []models.ImageView {
	views := make([]models.ImageView, 0, len(images))
	for _, img := range images {
		views = append(views, models.NewImageView(img))
	}
	return views
}
