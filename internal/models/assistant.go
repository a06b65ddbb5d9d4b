package models

import (
	"fmt"
	"strings"
	"time"
)

// AskRequest represents request for the travel assistant endpoint
type AskRequest struct {
	Question      string `json:"question" validate:"required" example:"What is the weather in Lisbon?"`
	OpenAIKey     string `json:"openai_api_key" validate:"required"`
	WeatherAPIKey string `json:"weather_api_key,omitempty"`
}

func (r AskRequest) Validate() error {
	if r.OpenAIKey == "" {
		return fmt.Errorf("openai_api_key is empty: %w", ErrMissingCredential)
	}
	if strings.TrimSpace(r.Question) == "" {
		return fmt.Errorf("question is empty: %w", ErrMissingInput)
	}
	return nil
}

type AskResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Exchange is the latest answered question of a session.
type Exchange struct {
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	AnsweredAt time.Time `json:"answered_at"`
}

// ExportRequest represents an explicit question/answer pair to export
type ExportRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

func (r ExportRequest) Validate() error {
	if r.Question == "" {
		return fmt.Errorf("question is empty: %w", ErrMissingInput)
	}
	if r.Answer == "" {
		return fmt.Errorf("answer is empty: %w", ErrMissingInput)
	}
	return nil
}

const (
	EventTool   = "tool"
	EventAnswer = "answer"
	EventError  = "error"
)

// AgentEvent is one step of a streamed assistant turn.
type AgentEvent struct {
	Type   string `json:"type"`
	Tool   string `json:"tool,omitempty"`
	Input  string `json:"input,omitempty"`
	Answer string `json:"answer,omitempty"`
	Err    error  `json:"-"`
}
