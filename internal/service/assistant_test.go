package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/kdduha/genai-studio/internal/agent"
	"github.com/kdduha/genai-studio/internal/cache"
	"github.com/kdduha/genai-studio/internal/config"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/kdduha/genai-studio/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/fake"
)

type fakeRunner struct {
	run    func(ctx context.Context, req models.AskRequest, onEvent func(models.AgentEvent)) (string, error)
	calls  int
	resets int
}

func (f *fakeRunner) Run(ctx context.Context, _ string, req models.AskRequest, onEvent func(models.AgentEvent)) (string, error) {
	f.calls++
	return f.run(ctx, req, onEvent)
}

func (f *fakeRunner) Reset(context.Context, string) error {
	f.resets++
	return nil
}

func newTestAssistant(runner Runner) (*AssistantService, *session.Manager) {
	sessions := session.NewManager(zerolog.Nop(), cache.NewMemoryCache(time.Hour), "sid", time.Hour, 20)
	return NewAssistantService(zerolog.Nop(), runner, sessions), sessions
}

func answering(answer string) *fakeRunner {
	return &fakeRunner{run: func(context.Context, models.AskRequest, func(models.AgentEvent)) (string, error) {
		return answer, nil
	}}
}

func TestAsk_ValidatesBeforeRunning(t *testing.T) {
	runner := answering("unused")
	s, _ := newTestAssistant(runner)

	_, err := s.Ask(context.Background(), "s1", &models.AskRequest{Question: "Where?"})
	assert.ErrorIs(t, err, models.ErrMissingCredential)

	_, err = s.Ask(context.Background(), "s1", &models.AskRequest{Question: " ", OpenAIKey: "sk-test"})
	assert.ErrorIs(t, err, models.ErrMissingInput)

	assert.Zero(t, runner.calls)
}

func TestAsk_StoresLastExchange(t *testing.T) {
	s, sessions := newTestAssistant(answering("Visit Sintra."))
	ctx := context.Background()

	resp, err := s.Ask(ctx, "s1", &models.AskRequest{Question: "Day trip from Lisbon?", OpenAIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "Visit Sintra.", resp.Answer)

	ex, err := sessions.LastExchange(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, ex)
	assert.Equal(t, "Day trip from Lisbon?", ex.Question)
	assert.Equal(t, "Visit Sintra.", ex.Answer)
}

func TestAsk_ErrorKeepsPreviousExchange(t *testing.T) {
	runner := answering("Visit Sintra.")
	s, sessions := newTestAssistant(runner)
	ctx := context.Background()

	_, err := s.Ask(ctx, "s1", &models.AskRequest{Question: "Day trip?", OpenAIKey: "sk-test"})
	require.NoError(t, err)

	runner.run = func(context.Context, models.AskRequest, func(models.AgentEvent)) (string, error) {
		return "", errors.New("rate limited")
	}
	_, err = s.Ask(ctx, "s1", &models.AskRequest{Question: "Another?", OpenAIKey: "sk-test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	ex, err := sessions.LastExchange(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Day trip?", ex.Question)
}

func TestAsk_PanicBecomesError(t *testing.T) {
	s, _ := newTestAssistant(&fakeRunner{run: func(context.Context, models.AskRequest, func(models.AgentEvent)) (string, error) {
		panic("tool exploded")
	}})

	var err error
	require.NotPanics(t, func() {
		_, err = s.Ask(context.Background(), "s1", &models.AskRequest{Question: "Hi", OpenAIKey: "sk-test"})
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrExternalCall)
	assert.Contains(t, err.Error(), "tool exploded")

	// the session is usable again after a crash
	_, err = s.Ask(context.Background(), "s1", &models.AskRequest{Question: "Hi", OpenAIKey: "sk-test"})
	assert.NotErrorIs(t, err, models.ErrTurnInProgress)
}

type explodingTransport struct{}

func (explodingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	panic("weather backend exploded")
}

func TestAsk_ToolPanicInsideAgentLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache(time.Hour)
	sessions := session.NewManager(zerolog.Nop(), store, "sid", time.Hour, 20)
	travelAgent := agent.New(
		zerolog.Nop(),
		func(string) (llms.Model, error) {
			return fake.NewFakeLLM([]string{"Thought: Do I need to use a tool? Yes\nAction: Weather Info\nAction Input: Oslo"}), nil
		},
		store,
		agent.NewTokenCounter(zerolog.Nop(), "gpt-3.5-turbo", true),
		config.AssistantConfig{
			MemoryTokenLimit: 1000,
			MaxIterations:    5,
			MaxTokens:        256,
			WeatherBaseURL:   "http://weather.invalid",
		},
		agent.WithToolClient(&http.Client{Transport: explodingTransport{}}),
	)
	s := NewAssistantService(zerolog.Nop(), travelAgent, sessions)

	var err error
	require.NotPanics(t, func() {
		_, err = s.Ask(ctx, "s1", &models.AskRequest{Question: "Weather in Oslo?", OpenAIKey: "sk-test", WeatherAPIKey: "wk-test"})
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrExternalCall)
	assert.Contains(t, err.Error(), "weather backend exploded")

	msgs, err := agent.NewHistory(store, "s1").Messages(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	ex, err := sessions.LastExchange(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, ex)
}

func TestAsk_OneTurnPerSession(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s, _ := newTestAssistant(&fakeRunner{run: func(context.Context, models.AskRequest, func(models.AgentEvent)) (string, error) {
		close(started)
		<-release
		return "done", nil
	}})

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Ask(context.Background(), "s1", &models.AskRequest{Question: "First", OpenAIKey: "sk-test"})
		errCh <- err
	}()
	<-started

	_, err := s.Ask(context.Background(), "s1", &models.AskRequest{Question: "Second", OpenAIKey: "sk-test"})
	assert.ErrorIs(t, err, models.ErrTurnInProgress)
	assert.ErrorIs(t, s.Reset(context.Background(), "s1"), models.ErrTurnInProgress)

	close(release)
	require.NoError(t, <-errCh)
}

func TestAskStream_EmitsToolsThenAnswer(t *testing.T) {
	s, _ := newTestAssistant(&fakeRunner{run: func(_ context.Context, _ models.AskRequest, onEvent func(models.AgentEvent)) (string, error) {
		onEvent(models.AgentEvent{Type: models.EventTool, Tool: "Calculator", Input: "2*3"})
		return "Six.", nil
	}})

	stream, err := s.AskStream(context.Background(), "s1", &models.AskRequest{Question: "2*3?", OpenAIKey: "sk-test"})
	require.NoError(t, err)

	var events []models.AgentEvent
	for ev := range stream {
		events = append(events, ev)
	}
	require.Len(t, events, 2)
	assert.Equal(t, models.EventTool, events[0].Type)
	assert.Equal(t, "Calculator", events[0].Tool)
	assert.Equal(t, models.EventAnswer, events[1].Type)
	assert.Equal(t, "Six.", events[1].Answer)
}

func TestAskStream_EndsWithError(t *testing.T) {
	s, _ := newTestAssistant(&fakeRunner{run: func(context.Context, models.AskRequest, func(models.AgentEvent)) (string, error) {
		panic("boom")
	}})

	stream, err := s.AskStream(context.Background(), "s1", &models.AskRequest{Question: "Hi", OpenAIKey: "sk-test"})
	require.NoError(t, err)

	var last models.AgentEvent
	for ev := range stream {
		last = ev
	}
	assert.Equal(t, models.EventError, last.Type)
	assert.ErrorIs(t, last.Err, models.ErrExternalCall)
}

func TestReset_ClearsExchange(t *testing.T) {
	runner := answering("Visit Sintra.")
	s, sessions := newTestAssistant(runner)
	ctx := context.Background()

	_, err := s.Ask(ctx, "s1", &models.AskRequest{Question: "Day trip?", OpenAIKey: "sk-test"})
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx, "s1"))

	ex, err := sessions.LastExchange(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, ex)
	assert.Equal(t, 1, runner.resets)
}
