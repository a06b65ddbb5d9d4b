package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server       ServerConfig
	OpenAI       OpenAIConfig
	Assistant    AssistantConfig
	Session      SessionConfig
	RedisConfig  RedisConfig
	SessionRedis bool   `env:"SESSION_REDIS_ENABLE"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty    bool   `env:"LOG_PRETTY"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"redis:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"2m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ThrottleLimit   int           `env:"SERVER_THROTTLE_LIMIT" envDefault:"50"`
}

// OpenAIConfig holds the upstream settings. APIKey is only a default for the
// image page; the assistant always takes its keys from the submitted form.
type OpenAIConfig struct {
	APIKey         string        `env:"OPENAI_API_KEY"`
	BaseURL        string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ChatModel      string        `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4o-mini"`
	RequestTimeout time.Duration `env:"OPENAI_REQUEST_TIMEOUT" envDefault:"2m"`
}

type AssistantConfig struct {
	MemoryTokenLimit   int           `env:"ASSISTANT_MEMORY_TOKEN_LIMIT" envDefault:"1000"`
	MaxIterations      int           `env:"ASSISTANT_MAX_ITERATIONS" envDefault:"5"`
	MaxTokens          int           `env:"ASSISTANT_MAX_TOKENS" envDefault:"256"`
	Temperature        float64       `env:"ASSISTANT_TEMPERATURE" envDefault:"0"`
	ApproximateTokens  bool          `env:"ASSISTANT_APPROXIMATE_TOKENS"`
	WikipediaUserAgent string        `env:"WIKIPEDIA_USER_AGENT" envDefault:"genai-studio/1.0 (travel assistant)"`
	WeatherBaseURL     string        `env:"WEATHER_BASE_URL" envDefault:"http://api.openweathermap.org/data/2.5"`
	ToolTimeout        time.Duration `env:"ASSISTANT_TOOL_TIMEOUT" envDefault:"15s"`
}

type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE" envDefault:"genai_session"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	GalleryCap int           `env:"SESSION_GALLERY_CAP" envDefault:"20"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
