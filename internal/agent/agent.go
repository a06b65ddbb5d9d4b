package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kdduha/genai-studio/internal/config"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const parserRetryHint = "Your reply could not be parsed. Either use the Action / Action Input format or start the final reply with \"AI:\"."

// LLMFactory builds the chat model of one turn from the user's credential.
type LLMFactory func(apiKey string) (llms.Model, error)

// OpenAIFactory returns an LLMFactory for the OpenAI chat completions API.
func OpenAIFactory(cfg config.OpenAIConfig, client *http.Client) LLMFactory {
	return func(apiKey string) (llms.Model, error) {
		return openai.New(
			openai.WithToken(apiKey),
			openai.WithModel(cfg.ChatModel),
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithHTTPClient(client),
		)
	}
}

// Agent runs tool-augmented conversational turns. Conversation memory lives
// in the store under the session id.
type Agent struct {
	logger     zerolog.Logger
	newLLM     LLMFactory
	store      Store
	count      TokenCounter
	httpClient *http.Client
	cfg        config.AssistantConfig
}

type Option func(*Agent)

// WithToolClient sets the HTTP client the Wikipedia and weather tools use.
func WithToolClient(client *http.Client) Option {
	return func(a *Agent) {
		a.httpClient = client
	}
}

func New(logger zerolog.Logger, newLLM LLMFactory, store Store, count TokenCounter, cfg config.AssistantConfig, opts ...Option) *Agent {
	a := &Agent{
		logger:     logger.With().Str("component", "agent").Logger(),
		newLLM:     newLLM,
		store:      store,
		count:      count,
		httpClient: &http.Client{Timeout: cfg.ToolTimeout},
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run answers one question. onEvent, when set, receives every tool call.
// Memory is only updated when the turn completes.
func (a *Agent) Run(ctx context.Context, sid string, req models.AskRequest, onEvent func(models.AgentEvent)) (string, error) {
	llm, err := a.newLLM(req.OpenAIKey)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create model client: %w", models.ErrExternalCall, err)
	}

	toolset := Toolset(a.httpClient, a.cfg.WikipediaUserAgent, req.WeatherAPIKey, a.cfg.WeatherBaseURL)
	logger := a.logger.With().Str("session", sid).Logger()
	handler := newTurnHandler(logger, toolset, onEvent)
	mem := NewTokenBufferMemory(NewHistory(a.store, sid), a.cfg.MemoryTokenLimit, a.count)

	executor := agents.NewExecutor(
		agents.NewConversationalAgent(llm, toolset, agents.WithCallbacksHandler(handler)),
		agents.WithMemory(mem),
		agents.WithMaxIterations(a.cfg.MaxIterations),
		agents.WithCallbacksHandler(handler),
		agents.WithParserErrorHandler(agents.NewParserErrorHandler(func(string) string {
			return parserRetryHint
		})),
	)

	answer, err := chains.Run(ctx, executor, req.Question,
		chains.WithTemperature(a.cfg.Temperature),
		chains.WithMaxTokens(a.cfg.MaxTokens),
	)
	if err != nil {
		if errors.Is(err, agents.ErrNotFinished) {
			return "", fmt.Errorf("%w: agent stopped after %d steps without an answer", models.ErrExternalCall, a.cfg.MaxIterations)
		}
		return "", fmt.Errorf("%w: %w", models.ErrExternalCall, err)
	}
	return strings.TrimSpace(answer), nil
}

// Reset forgets the conversation of a session.
func (a *Agent) Reset(ctx context.Context, sid string) error {
	return NewHistory(a.store, sid).Clear(ctx)
}
