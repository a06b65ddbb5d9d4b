package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/schema"
)

// Store is the byte store the conversation history is kept in.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

func historyKey(sid string) string { return "history:" + sid }

type storedMessage struct {
	Role    llms.ChatMessageType `json:"role"`
	Content string               `json:"content"`
}

// History is a chat message history persisted under one session.
type History struct {
	store Store
	key   string
}

var _ schema.ChatMessageHistory = (*History)(nil)

func NewHistory(store Store, sid string) *History {
	return &History{store: store, key: historyKey(sid)}
}

func (h *History) Messages(ctx context.Context) ([]llms.ChatMessage, error) {
	raw, found, err := h.store.Get(ctx, h.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if !found {
		return nil, nil
	}

	var stored []storedMessage
	if err := sonic.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	msgs := make([]llms.ChatMessage, 0, len(stored))
	for _, m := range stored {
		switch m.Role {
		case llms.ChatMessageTypeHuman:
			msgs = append(msgs, llms.HumanChatMessage{Content: m.Content})
		case llms.ChatMessageTypeAI:
			msgs = append(msgs, llms.AIChatMessage{Content: m.Content})
		case llms.ChatMessageTypeSystem:
			msgs = append(msgs, llms.SystemChatMessage{Content: m.Content})
		default:
			msgs = append(msgs, llms.GenericChatMessage{Role: string(m.Role), Content: m.Content})
		}
	}
	return msgs, nil
}

func (h *History) SetMessages(ctx context.Context, messages []llms.ChatMessage) error {
	stored := make([]storedMessage, 0, len(messages))
	for _, m := range messages {
		stored = append(stored, storedMessage{Role: m.GetType(), Content: m.GetContent()})
	}

	raw, err := sonic.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := h.store.Set(ctx, h.key, raw); err != nil {
		return fmt.Errorf("failed to store history: %w", err)
	}
	return nil
}

func (h *History) AddMessage(ctx context.Context, message llms.ChatMessage) error {
	msgs, err := h.Messages(ctx)
	if err != nil {
		return err
	}
	return h.SetMessages(ctx, append(msgs, message))
}

func (h *History) AddUserMessage(ctx context.Context, message string) error {
	return h.AddMessage(ctx, llms.HumanChatMessage{Content: message})
}

func (h *History) AddAIMessage(ctx context.Context, message string) error {
	return h.AddMessage(ctx, llms.AIChatMessage{Content: message})
}

func (h *History) Clear(ctx context.Context) error {
	return h.store.Delete(ctx, h.key)
}

// TokenCounter returns the number of tokens in text.
type TokenCounter func(text string) int

// approximateTokens estimates tokens from the byte length of text.
func approximateTokens(text string) int {
	return int(float64(len(text)) * 0.38)
}

// NewTokenCounter counts with the tiktoken encoding of model. The encoding is
// loaded on first use; when it is unavailable, or approximate is set, counts
// are estimated from text length.
func NewTokenCounter(logger zerolog.Logger, model string, approximate bool) TokenCounter {
	if approximate {
		return approximateTokens
	}

	var (
		once sync.Once
		enc  *tiktoken.Tiktoken
	)
	return func(text string) int {
		once.Do(func() {
			var err error
			enc, err = tiktoken.EncodingForModel(model)
			if err != nil {
				logger.Warn().Err(err).Str("model", model).Msg("tokenizer unavailable, using approximate counts")
			}
		})
		if enc == nil {
			return approximateTokens(text)
		}
		return len(enc.Encode(text, nil, nil))
	}
}

// TokenBufferMemory is a conversation buffer that drops the oldest messages
// once the rendered history exceeds MaxTokens.
type TokenBufferMemory struct {
	*memory.ConversationBuffer
	MaxTokens int
	Count     TokenCounter
}

var _ schema.Memory = (*TokenBufferMemory)(nil)

func NewTokenBufferMemory(history schema.ChatMessageHistory, maxTokens int, count TokenCounter) *TokenBufferMemory {
	return &TokenBufferMemory{
		ConversationBuffer: memory.NewConversationBuffer(
			memory.WithChatHistory(history),
			memory.WithInputKey("input"),
			memory.WithOutputKey("output"),
		),
		MaxTokens: maxTokens,
		Count:     count,
	}
}

func (m *TokenBufferMemory) SaveContext(ctx context.Context, inputs, outputs map[string]any) error {
	if err := m.ConversationBuffer.SaveContext(ctx, inputs, outputs); err != nil {
		return err
	}
	return m.prune(ctx)
}

func (m *TokenBufferMemory) prune(ctx context.Context) error {
	if m.MaxTokens <= 0 {
		return nil
	}
	msgs, err := m.ChatHistory.Messages(ctx)
	if err != nil {
		return err
	}

	dropped := 0
	for len(msgs)-dropped > 0 {
		buf, err := llms.GetBufferString(msgs[dropped:], m.HumanPrefix, m.AIPrefix)
		if err != nil {
			return err
		}
		if m.Count(buf) <= m.MaxTokens {
			break
		}
		dropped++
	}

	if dropped == 0 {
		return nil
	}
	return m.ChatHistory.SetMessages(ctx, msgs[dropped:])
}
