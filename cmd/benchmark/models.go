package main

import "time"

type benchConfig struct {
	Endpoint      string `env:"BENCH_ENDPOINT" envDefault:"http://localhost:8080/api/assistant/ask/stream"`
	OpenAIKey     string `env:"BENCH_OPENAI_API_KEY,required"`
	WeatherAPIKey string `env:"BENCH_WEATHER_API_KEY"`
}

type AskRequest struct {
	Question      string `json:"question"`
	OpenAIKey     string `json:"openai_api_key"`
	WeatherAPIKey string `json:"weather_api_key,omitempty"`
}

type Event struct {
	Type   string `json:"type"`
	Tool   string `json:"tool,omitempty"`
	Input  string `json:"input,omitempty"`
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Question struct {
	Topic string
	Text  string
}

type BenchResult struct {
	Topic     string
	Question  string
	Duration  time.Duration
	ToolCalls int
	AnswerLen int
	Err       error
}

type Agg struct {
	Count     int
	Total     time.Duration
	ToolCalls int
}
