package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/kdduha/genai-studio/internal/session"
)

type assistantService interface {
	Ask(ctx context.Context, sid string, req *models.AskRequest) (*models.AskResponse, error)
	AskStream(ctx context.Context, sid string, req *models.AskRequest) (<-chan models.AgentEvent, error)
	Reset(ctx context.Context, sid string) error
	LastExchange(ctx context.Context, sid string) (*models.Exchange, error)
}

type AssistantHandler struct {
	service assistantService
}

func NewAssistantHandler(service assistantService) *AssistantHandler {
	return &AssistantHandler{
		service: service,
	}
}

type assistantPage struct {
	Form     models.AskRequest
	Exchange *models.Exchange
	Error    string
}

// Page renders the question form and the last answer of the session.
func (h *AssistantHandler) Page(w http.ResponseWriter, r *http.Request) {
	ex, err := h.service.LastExchange(r.Context(), session.ID(r.Context()))
	if err != nil {
		http.Error(w, fmt.Sprintf("service error: %s", err), statusFor(err))
		return
	}
	renderPage(w, r, http.StatusOK, "assistant", assistantPage{Exchange: ex})
}

// Submit runs one assistant turn from the form.
func (h *AssistantHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("invalid form: %s", err), http.StatusBadRequest)
		return
	}
	req := models.AskRequest{
		Question:      r.PostForm.Get("question"),
		OpenAIKey:     strings.TrimSpace(r.PostForm.Get("openai_api_key")),
		WeatherAPIKey: strings.TrimSpace(r.PostForm.Get("weather_api_key")),
	}

	sid := session.ID(r.Context())
	page := assistantPage{Form: req}
	status := http.StatusOK
	if _, err := h.service.Ask(r.Context(), sid, &req); err != nil {
		status = statusFor(err)
		page.Error = fmt.Sprintf("Error: %s", err)
	}

	ex, err := h.service.LastExchange(r.Context(), sid)
	if err != nil {
		http.Error(w, fmt.Sprintf("service error: %s", err), statusFor(err))
		return
	}
	page.Exchange = ex
	renderPage(w, r, status, "assistant", page)
}

// Reset starts a new conversation.
func (h *AssistantHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context(), session.ID(r.Context())); err != nil {
		http.Error(w, fmt.Sprintf("service error: %s", err), statusFor(err))
		return
	}
	http.Redirect(w, r, "/assistant", http.StatusSeeOther)
}

// Ask godoc
// @Summary Ask the travel assistant
// @Description Run one agent turn with Wikipedia, calculator and weather tools. Conversation memory is kept per session.
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body models.AskRequest true "Ask request"
// @Success 200 {object} models.AskResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/assistant/ask [post]
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.service.Ask(r.Context(), session.ID(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// AskStream godoc
// @Summary Stream an assistant turn
// @Description Run one agent turn and stream tool calls followed by the final answer.
// @Tags assistant
// @Accept json
// @Produce text/event-stream
// @Param request body models.AskRequest true "Ask request"
// @Success 200 {object} models.AgentEvent "Stream of agent events (SSE)"
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/assistant/ask/stream [post]
func (h *AssistantHandler) AskStream(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	stream, err := h.service.AskStream(r.Context(), session.ID(r.Context()), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher := http.NewResponseController(w)

	for ev := range stream {
		if ev.Err != nil {
			data, _ := sonic.Marshal(map[string]string{"error": ev.Err.Error()})
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", data)
			_ = flusher.Flush()
			return
		}

		data, err := sonic.Marshal(ev)
		if err != nil {
			fmt.Fprintf(w, "event: error\ndata: marshal error %v\n\n", err)
			_ = flusher.Flush()
			return
		}

		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
		_ = flusher.Flush()

		if ev.Type == models.EventAnswer {
			fmt.Fprintf(w, "event: done\ndata: {}\n\n")
			_ = flusher.Flush()
			return
		}
	}
}
