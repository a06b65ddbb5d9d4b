package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var questions = []Question{
	{Topic: "wikipedia", Text: "What are the must-see places in Kyoto?"},
	{Topic: "wikipedia", Text: "Tell me about the history of the Alhambra."},
	{Topic: "weather", Text: "What is the weather in Lisbon right now?"},
	{Topic: "weather", Text: "Is it warm in Reykjavik today?"},
	{Topic: "budget", Text: "A hotel costs 120 euros per night. How much are 7 nights for 2 rooms?"},
	{Topic: "budget", Text: "I have 2000 dollars for 10 days. How much can I spend per day after a 650 dollar flight?"},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var cfg benchConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	ctx := context.Background()
	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("cookie jar")
	}
	client := &http.Client{Jar: jar, Timeout: 3 * time.Minute}

	var results []BenchResult
	for _, q := range questions {
		res := benchmarkQuestion(ctx, client, cfg, q)
		if res.Err != nil {
			log.Error().Err(res.Err).Str("question", q.Text).Msg("request failed")
		} else {
			log.Info().Str("question", q.Text).Dur("duration", res.Duration).Int("tools", res.ToolCalls).Msg("ok")
		}
		results = append(results, res)
	}

	printMarkdown(results)
}

func benchmarkQuestion(ctx context.Context, client *http.Client, cfg benchConfig, q Question) BenchResult {
	start := time.Now()

	req := AskRequest{
		Question:      q.Text,
		OpenAIKey:     cfg.OpenAIKey,
		WeatherAPIKey: cfg.WeatherAPIKey,
	}

	var (
		tools  int
		answer string
	)
	err := sendStream(ctx, client, cfg.Endpoint, req, func(ev Event) error {
		switch ev.Type {
		case "tool":
			tools++
		case "answer":
			answer = ev.Answer
		}
		return nil
	})

	return BenchResult{
		Topic:     q.Topic,
		Question:  q.Text,
		Duration:  time.Since(start),
		ToolCalls: tools,
		AnswerLen: len(answer),
		Err:       err,
	}
}

func sendStream[T any](ctx context.Context, client *http.Client, endpoint string, req T, onEvent func(Event) error) error {
	body, err := sonic.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal req: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bad status %d: %s",
			resp.StatusCode,
			strings.TrimSpace(string(b)),
		)
	}

	reader := bufio.NewReader(resp.Body)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)

		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		payload := strings.TrimPrefix(line, "data: ")
		if payload == "{}" {
			continue
		}

		var ev Event
		if err := sonic.UnmarshalString(payload, &ev); err != nil {
			return fmt.Errorf("unexpected payload %q: %w", payload, err)
		}
		if ev.Error != "" {
			return errors.New(ev.Error)
		}

		if err := onEvent(ev); err != nil {
			return err
		}
	}
}

func aggregate(results []BenchResult) map[string]Agg {
	m := map[string]Agg{}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		a := m[r.Topic]
		a.Count++
		a.Total += r.Duration
		a.ToolCalls += r.ToolCalls
		m[r.Topic] = a
	}
	return m
}

func printMarkdown(results []BenchResult) {
	fmt.Println("\n## Benchmark Results")
	fmt.Println()
	fmt.Println("| Topic | Requests | Avg Time | Total Time | Avg Tool Calls |")
	fmt.Println("|-------|----------|----------|------------|----------------|")

	agg := aggregate(results)
	topics := make([]string, 0, len(agg))
	for topic := range agg {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	var (
		totalCount    int
		totalDuration time.Duration
		totalTools    int
	)

	for _, topic := range topics {
		a := agg[topic]
		avg := a.Total / time.Duration(a.Count)
		fmt.Printf("| %s | %d | %v | %v | %.1f |\n",
			topic,
			a.Count,
			avg.Round(time.Millisecond),
			a.Total.Round(time.Millisecond),
			float64(a.ToolCalls)/float64(a.Count),
		)
		totalCount += a.Count
		totalDuration += a.Total
		totalTools += a.ToolCalls
	}

	if totalCount > 0 {
		mean := totalDuration / time.Duration(totalCount)
		fmt.Printf("| **ALL** | %d | %v | %v | %.1f |\n",
			totalCount,
			mean.Round(time.Millisecond),
			totalDuration.Round(time.Millisecond),
			float64(totalTools)/float64(totalCount),
		)
	}

	failed := len(results) - totalCount
	if failed > 0 {
		fmt.Printf("\n%d of %d requests failed.\n", failed, len(results))
	}
}
