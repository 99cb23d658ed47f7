// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"financial-document-analyzer/internal/config"
	"financial-document-analyzer/internal/domain/model"
	"financial-document-analyzer/internal/domain/ports/adapter"
	aiAdapters "financial-document-analyzer/internal/infra/adapters/ai"
	"financial-document-analyzer/internal/infra/adapters/pdf"
	"financial-document-analyzer/internal/infra/logging"
	"financial-document-analyzer/internal/infra/metrics"
	red "financial-document-analyzer/internal/infra/redis"
	"financial-document-analyzer/internal/infra/sched"
	"financial-document-analyzer/internal/infra/storage"
	"financial-document-analyzer/internal/infra/tools"
	"financial-document-analyzer/internal/infra/web"
	"financial-document-analyzer/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	envPath := flag.String("env", ".env", "optional dotenv file loaded before the config")
	devMode := flag.Bool("dev", false, "enable developer mode (noop AI when no provider is configured)")
	flag.Parse()

	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "dotenv: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("exit")
	}
}

func run(cfg *config.Config, logger *zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- AI Adapter (providers -> routing -> metrics -> retry -> concurrency limit) ----
	ai, err := buildAI(ctx, cfg, logger)
	if err != nil {
		return err
	}
	counter := aiAdapters.NewTiktokenCounter()

	// ---- Tools & pipeline ----
	registry := tools.Default(pdf.NewExtractor(logger), pdf.NewInspector(), tools.Options{
		InvestmentForwardCleaned: cfg.Tools.InvestmentForwardCleaned,
	})
	roster := usecase.NewRoster(&model.LLMConfig{
		Model:           cfg.AI.Model,
		Temperature:     *cfg.AI.Temperature,
		MaxOutputTokens: cfg.AI.MaxOutputTokens,
	})
	factory := func(a *model.Agent) usecase.TaskExecutor {
		return usecase.NewLLMAgent(a, registry, ai, counter, cfg.AI.MaxPromptTokens, logger)
	}
	crew, err := usecase.NewCrew(roster, cfg.Pipeline.Tasks, factory, usecase.CrewOptions{
		Tools:        registry,
		DefaultQuery: cfg.Pipeline.DefaultQuery,
		Timeout:      cfg.Pipeline.Timeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	logger.Info().Strs("tasks", crew.TaskNames()).Str("model", cfg.AI.Model).Msg("pipeline ready")

	// ---- Storage ----
	store, err := storage.NewLocalStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	analysisUC := usecase.NewAnalysisUseCase(store, crew, logger)

	// ---- HTTP ----
	var opts []web.Option
	if cfg.Redis.RateLimit > 0 {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
		limiter := red.NewRateLimiter(redisClient, cfg.Redis.RateLimit, cfg.Redis.Window)
		opts = append(opts, web.WithRateLimit(limiter, red.ClientRouteKey))
		logger.Info().Int("limit", cfg.Redis.RateLimit).Dur("window", cfg.Redis.Window).Msg("rate limiting enabled")
	}
	srv := web.NewServer(analysisUC, cfg.HTTP.MaxUploadMB<<20, logger, opts...)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// ---- Stale upload sweeper ----
	sweeper := sched.NewSweepWorker(cfg.Storage.SweepInterval, cfg.Storage.MaxAge, store, logger)
	g.Go(func() error {
		if err := sweeper.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// ---- Graceful shutdown ----
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildAI wires every configured provider behind the routing adapter.
func buildAI(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (adapter.AIServiceAdapter, error) {
	providers := map[string]adapter.AIServiceAdapter{}
	// provider adapters take the bare model name; routing strips the prefix
	defaultModel := cfg.AI.Model
	if _, bare, ok := strings.Cut(defaultModel, "/"); ok {
		defaultModel = bare
	}
	want := func(p string) bool { return cfg.AI.Provider == "" || cfg.AI.Provider == p }

	if want(aiAdapters.ProviderGemini) && cfg.AI.GeminiKey != "" {
		g, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, defaultModel)
		if err != nil {
			return nil, fmt.Errorf("gemini adapter: %w", err)
		}
		providers[aiAdapters.ProviderGemini] = g
	}
	if want(aiAdapters.ProviderVertex) && cfg.AI.VertexProject != "" {
		v, err := aiAdapters.NewVertexAdapter(ctx, cfg.AI.VertexProject, cfg.AI.VertexLocation, defaultModel)
		if err != nil {
			return nil, fmt.Errorf("vertex adapter: %w", err)
		}
		providers[aiAdapters.ProviderVertex] = v
	}
	if want(aiAdapters.ProviderOpenAI) && cfg.AI.OpenAIKey != "" {
		o, err := aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, defaultModel, cfg.AI.OpenAIBaseURL)
		if err != nil {
			return nil, fmt.Errorf("openai adapter: %w", err)
		}
		providers[aiAdapters.ProviderOpenAI] = o
	}
	if cfg.AI.Provider == aiAdapters.ProviderNoop || (len(providers) == 0 && cfg.Runtime.Dev) {
		providers[aiAdapters.ProviderNoop] = aiAdapters.NewNoopAIAdapter(logger)
	}
	if len(providers) == 0 {
		return nil, errors.New("no AI provider could be configured")
	}

	def := cfg.AI.Provider
	if def == "" {
		for _, p := range []string{aiAdapters.ProviderGemini, aiAdapters.ProviderVertex, aiAdapters.ProviderOpenAI, aiAdapters.ProviderNoop} {
			if _, ok := providers[p]; ok {
				def = p
				break
			}
		}
	}
	for name := range providers {
		logger.Info().Str("provider", name).Bool("default", name == def).Msg("ai provider configured")
	}

	multi := aiAdapters.NewMultiAIAdapter(def, providers, cfg.AI.ModelProviders)
	logModels(ctx, multi, cfg.AI.Model, logger)
	return aiAdapters.NewResilientAI(multi, cfg.AI.ConcurrentLimit, cfg.AI.MaxRetries, cfg.AI.RetryBackoff, logger), nil
}

// logModels warns when no provider lists the configured model. Listing can be
// slow or unsupported, so failures only log.
func logModels(ctx context.Context, m *aiAdapters.MultiAIAdapter, model string, logger *zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	ok, err := m.KnowsModel(ctx, model)
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("model", model).Msg("list ai models")
	case !ok:
		logger.Warn().Str("model", model).Msg("configured model not listed by any provider")
	default:
		logger.Info().Str("model", model).Msg("ai model available")
	}
}
