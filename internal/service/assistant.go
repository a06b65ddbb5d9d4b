package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/kdduha/genai-studio/internal/metrics"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/rs/zerolog"
)

type Runner interface {
	Run(ctx context.Context, sid string, req models.AskRequest, onEvent func(models.AgentEvent)) (string, error)
	Reset(ctx context.Context, sid string) error
}

type Exchanges interface {
	LastExchange(ctx context.Context, sid string) (*models.Exchange, error)
	SetLastExchange(ctx context.Context, sid string, ex models.Exchange) error
	ClearExchange(ctx context.Context, sid string) error
}

type AssistantService struct {
	logger    zerolog.Logger
	runner    Runner
	exchanges Exchanges
	now       func() time.Time

	mu     sync.Mutex
	active map[string]struct{}
}

func NewAssistantService(logger zerolog.Logger, runner Runner, exchanges Exchanges) *AssistantService {
	return &AssistantService{
		logger:    logger.With().Str("component", "assistant").Logger(),
		runner:    runner,
		exchanges: exchanges,
		now:       time.Now,
		active:    make(map[string]struct{}),
	}
}

func (s *AssistantService) acquire(sid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.active[sid]; busy {
		return false
	}
	s.active[sid] = struct{}{}
	return true
}

func (s *AssistantService) release(sid string) {
	s.mu.Lock()
	delete(s.active, sid)
	s.mu.Unlock()
}

// Ask runs one assistant turn and records it as the last exchange of the session.
func (s *AssistantService) Ask(ctx context.Context, sid string, req *models.AskRequest) (*models.AskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !s.acquire(sid) {
		return nil, models.ErrTurnInProgress
	}
	defer s.release(sid)

	answer, err := s.turn(ctx, sid, req, nil)
	if err != nil {
		return nil, err
	}
	return &models.AskResponse{Question: req.Question, Answer: answer}, nil
}

// AskStream runs one turn in the background. The channel receives a tool
// event per tool call and ends with exactly one answer or error event.
func (s *AssistantService) AskStream(ctx context.Context, sid string, req *models.AskRequest) (<-chan models.AgentEvent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !s.acquire(sid) {
		return nil, models.ErrTurnInProgress
	}

	ch := make(chan models.AgentEvent)
	send := func(ev models.AgentEvent) {
		select {
		case ch <- ev:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(ch)
		defer s.release(sid)

		answer, err := s.turn(ctx, sid, req, send)
		if err != nil {
			send(models.AgentEvent{Type: models.EventError, Err: err})
			return
		}
		send(models.AgentEvent{Type: models.EventAnswer, Answer: answer})
	}()
	return ch, nil
}

func (s *AssistantService) turn(ctx context.Context, sid string, req *models.AskRequest, onEvent func(models.AgentEvent)) (string, error) {
	start := time.Now()
	answer, err := s.run(ctx, sid, req, onEvent)
	metrics.AgentTurn(metrics.Status(err), time.Since(start))
	if err != nil {
		s.logger.Error().Err(err).Str("session", sid).Msg("assistant turn failed")
		return "", err
	}

	ex := models.Exchange{Question: req.Question, Answer: answer, AnsweredAt: s.now()}
	if err := s.exchanges.SetLastExchange(ctx, sid, ex); err != nil {
		return "", fmt.Errorf("failed to save exchange: %w", err)
	}
	s.logger.Info().
		Str("session", sid).
		Dur("duration", time.Since(start)).
		Msg("assistant turn completed")
	return answer, nil
}

// run converts a panic anywhere below the runner into an error.
func (s *AssistantService) run(ctx context.Context, sid string, req *models.AskRequest, onEvent func(models.AgentEvent)) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("stack", string(debug.Stack())).Msgf("assistant turn panicked: %v", r)
			answer, err = "", fmt.Errorf("%w: assistant crashed: %v", models.ErrExternalCall, r)
		}
	}()
	return s.runner.Run(ctx, sid, *req, onEvent)
}

// Reset forgets the conversation and the last exchange of the session.
func (s *AssistantService) Reset(ctx context.Context, sid string) error {
	if !s.acquire(sid) {
		return models.ErrTurnInProgress
	}
	defer s.release(sid)

	if err := s.runner.Reset(ctx, sid); err != nil {
		return fmt.Errorf("failed to clear memory: %w", err)
	}
	return s.exchanges.ClearExchange(ctx, sid)
}

func (s *AssistantService) LastExchange(ctx context.Context, sid string) (*models.Exchange, error) {
	return s.exchanges.LastExchange(ctx, sid)
}
