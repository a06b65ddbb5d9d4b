package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kdduha/genai-studio/internal/agent"
	"github.com/kdduha/genai-studio/internal/cache"
	"github.com/kdduha/genai-studio/internal/config"
	"github.com/kdduha/genai-studio/internal/handler"
	"github.com/kdduha/genai-studio/internal/metrics"
	"github.com/kdduha/genai-studio/internal/service"
	"github.com/kdduha/genai-studio/internal/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	_ "github.com/kdduha/genai-studio/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

const memorySweepInterval = time.Minute

// @title GenAI Studio API
// @version 1.0
// @description Image generation and travel assistant front ends over hosted AI services.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	setupLogger(cfg)

	store := sessionStore(ctx, cfg)
	sessions := session.NewManager(log.Logger, store, cfg.Session.CookieName, cfg.Session.TTL, cfg.Session.GalleryCap)

	imageService := service.NewImageService(log.Logger, sessions, cfg.OpenAI)

	llmClient := &http.Client{Timeout: cfg.OpenAI.RequestTimeout}
	travelAgent := agent.New(
		log.Logger,
		agent.OpenAIFactory(cfg.OpenAI, llmClient),
		store,
		agent.NewTokenCounter(log.Logger, cfg.OpenAI.ChatModel, cfg.Assistant.ApproximateTokens),
		cfg.Assistant,
	)
	assistantService := service.NewAssistantService(log.Logger, travelAgent, sessions)
	exportService := service.NewExportService(log.Logger, sessions)

	images := handler.NewImageHandler(imageService)
	assistant := handler.NewAssistantHandler(assistantService)
	exports := handler.NewExportHandler(exportService)

	r := chi.NewRouter()
	r.Use([]func(http.Handler) http.Handler{
		hlog.NewHandler(log.Logger),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request")
		}),
		middleware.Recoverer,
		middleware.Throttle(cfg.Server.ThrottleLimit),
		metrics.Middleware,
	}...)

	r.Get("/healthz", handler.Healthz)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Timeout(cfg.Server.Timeout),
			sessions.Middleware,
		)

		r.Get("/", handler.Index)

		r.Get("/images", images.Page)
		r.Post("/images", images.Submit)
		r.Post("/images/clear", images.Clear)
		r.Get("/images/{id}", images.View)
		r.Get("/images/{id}/download", images.Download)

		r.Get("/assistant", assistant.Page)
		r.Post("/assistant", assistant.Submit)
		r.Post("/assistant/reset", assistant.Reset)
		r.Post("/assistant/export", exports.Download)
		r.Get("/assistant/export/preview", exports.Preview)

		r.Route("/api", func(r chi.Router) {
			r.Post("/images", images.Generate)
			r.Get("/images/options", images.Options)
			r.Post("/assistant/ask", assistant.Ask)
			r.Post("/assistant/ask/stream", assistant.AskStream)
			r.Post("/assistant/export", exports.Export)
		})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close session store")
		}
	}
	log.Info().Msg("server stopped")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// sessionStore returns the Redis store when enabled, and an in-process one otherwise.
func sessionStore(ctx context.Context, cfg *config.Config) session.Store {
	if cfg.SessionRedis {
		redisCache := cache.NewRedisCache(
			cfg.RedisConfig.Addr,
			cfg.RedisConfig.Password,
			cfg.RedisConfig.DB,
			cfg.Session.TTL,
		)
		if err := redisCache.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisConfig.Addr).Msg("redis unavailable")
		}
		log.Info().Str("addr", cfg.RedisConfig.Addr).Msg("set redis as session store")
		return redisCache
	}

	memoryCache := cache.NewMemoryCache(cfg.Session.TTL)
	go memoryCache.Run(ctx, memorySweepInterval)
	return memoryCache
}
