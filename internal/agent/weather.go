package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/tmc/langchaingo/tools"
)

const (
	weatherToolName        = "Weather Info"
	weatherToolDescription = "Get real-time weather information for a city."

	weatherNoKey    = "Weather API key not provided."
	weatherNotFound = "Couldn't fetch weather for the location provided."
)

type weatherResponse struct {
	Main *struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// WeatherTool reports current conditions from OpenWeatherMap. Every outcome,
// failures included, is returned as text for the agent to read.
type WeatherTool struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ tools.Tool = (*WeatherTool)(nil)

func NewWeatherTool(apiKey, baseURL string, client *http.Client) *WeatherTool {
	if client == nil {
		client = http.DefaultClient
	}
	return &WeatherTool{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (t *WeatherTool) Name() string { return weatherToolName }

func (t *WeatherTool) Description() string { return weatherToolDescription }

func (t *WeatherTool) Call(ctx context.Context, input string) (string, error) {
	if t.apiKey == "" {
		return weatherNoKey, nil
	}
	location := strings.Trim(strings.TrimSpace(input), `"'`)

	resp, err := t.fetch(ctx, location)
	if err != nil {
		return fmt.Sprintf("Error fetching weather: %v", err), nil
	}
	if resp.Main == nil {
		return weatherNotFound, nil
	}

	desc := ""
	if len(resp.Weather) > 0 {
		desc = resp.Weather[0].Description
	}
	temp := strconv.FormatFloat(resp.Main.Temp, 'f', -1, 64)
	return fmt.Sprintf("The current weather in %s is %s°C with %s.", location, temp, desc), nil
}

func (t *WeatherTool) fetch(ctx context.Context, location string) (*weatherResponse, error) {
	query := url.Values{}
	query.Set("q", location)
	query.Set("appid", t.apiKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/weather?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		// url.Error carries the request url, and with it the api key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, uerr.Err
		}
		return nil, err
	}
	defer resp.Body.Close()

	var out weatherResponse
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
