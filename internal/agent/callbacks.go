package agent

import (
	"context"
	"strings"

	"github.com/kdduha/genai-studio/internal/metrics"
	"github.com/kdduha/genai-studio/internal/models"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/tools"
)

const unknownTool = "unknown"

// turnHandler counts and reports the tool calls of one turn.
type turnHandler struct {
	callbacks.SimpleHandler
	logger  zerolog.Logger
	names   []string
	onEvent func(models.AgentEvent)
}

func newTurnHandler(logger zerolog.Logger, toolset []tools.Tool, onEvent func(models.AgentEvent)) turnHandler {
	names := make([]string, 0, len(toolset))
	for _, t := range toolset {
		names = append(names, t.Name())
	}
	return turnHandler{logger: logger, names: names, onEvent: onEvent}
}

// toolLabel returns the canonical name of a toolset tool, matched the way
// the executor matches them, or "unknown" for names the model made up.
func (h turnHandler) toolLabel(name string) string {
	for _, known := range h.names {
		if strings.EqualFold(strings.TrimSpace(name), known) {
			return known
		}
	}
	return unknownTool
}

var _ callbacks.Handler = turnHandler{}

func (h turnHandler) HandleAgentAction(_ context.Context, action schema.AgentAction) {
	input := strings.TrimSpace(strings.TrimSuffix(action.ToolInput, "\nObservation:"))
	metrics.AgentToolCall(h.toolLabel(action.Tool))
	h.logger.Debug().Str("tool", action.Tool).Str("input", input).Msg("agent action")

	if h.onEvent != nil {
		h.onEvent(models.AgentEvent{Type: models.EventTool, Tool: action.Tool, Input: input})
	}
}

func (h turnHandler) HandleToolError(_ context.Context, err error) {
	h.logger.Warn().Err(err).Msg("tool failed")
}
