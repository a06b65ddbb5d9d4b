package agent

import (
	"net/http"

	"github.com/tmc/langchaingo/tools"
	"github.com/tmc/langchaingo/tools/wikipedia"
)

const (
	wikipediaToolName        = "Wikipedia Search"
	wikipediaToolDescription = "Useful for getting location or place details."

	calculatorToolName        = "Calculator"
	calculatorToolDescription = "Useful for doing travel budget calculations."
)

// namedTool exposes a library tool under the name and description the agent prompt uses.
type namedTool struct {
	tools.Tool
	name        string
	description string
}

func (t namedTool) Name() string { return t.name }

func (t namedTool) Description() string { return t.description }

// Toolset returns the tools available to one assistant turn.
func Toolset(client *http.Client, wikipediaUserAgent, weatherKey, weatherBaseURL string) []tools.Tool {
	return []tools.Tool{
		namedTool{
			Tool:        wikipedia.New(wikipediaUserAgent, wikipedia.WithHTTPClient(client)),
			name:        wikipediaToolName,
			description: wikipediaToolDescription,
		},
		namedTool{
			Tool:        tools.Calculator{},
			name:        calculatorToolName,
			description: calculatorToolDescription,
		},
		NewWeatherTool(weatherKey, weatherBaseURL, client),
	}
}
