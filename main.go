package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/catalog-chat/server/internal/api"
	"github.com/catalog-chat/server/internal/chat"
	"github.com/catalog-chat/server/internal/core"
	"github.com/catalog-chat/server/internal/gateway"
	"github.com/catalog-chat/server/internal/keys"
	"github.com/catalog-chat/server/internal/media"
	"github.com/catalog-chat/server/internal/metrics"
	"github.com/catalog-chat/server/internal/observers"
	"github.com/catalog-chat/server/internal/prompts"
	"github.com/catalog-chat/server/internal/store"
	logx "github.com/catalog-chat/server/pkg/logger"
	pkgredis "github.com/catalog-chat/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the server, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`
	LogFile     string           `envconfig:"LOG_FILE"`

	// Infrastructure
	HTTP  api.Config
	Redis pkgredis.Config

	// Storage
	DataDir   string `envconfig:"DATA_DIR" default:"."`
	StaticDir string `envconfig:"STATIC_DIR" default:"static"`

	// LLM provider
	APIKeys []string `envconfig:"GEMINI_API_KEYS"`
	Gemini  gateway.Config

	// Prompt
	Timezone string `envconfig:"PROMPT_TIMEZONE" default:"America/Bogota"`
	Locale   string `envconfig:"PROMPT_LOCALE" default:"es_ES"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loadErr := godotenv.Load(".env")

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}

	logx.Init(logx.LoggerOpts{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
	})
	if loadErr != nil {
		logx.Warn().Err(loadErr).Msg("could not load .env file")
	}

	metrics.Init()
	observers.Register()

	kv, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		logx.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to open data store")
	}

	var cursor keys.Cursor
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			logx.Warn().Err(err).Msg("redis unavailable, rotating keys per process")
		} else {
			defer rdb.Close()
			cursor = keys.NewRedisCursor(rdb, "")
			logx.Info().Msg("sharing key rotation through redis")
		}
	}
	rotator := keys.NewRotator(cfg.APIKeys, cursor)
	if !rotator.Configured() {
		logx.Warn().Msg("GEMINI_API_KEYS is empty, chat requests will answer 503")
	} else {
		logx.Info().Int("keys", rotator.Len()).Msg("api keys loaded")
	}

	gw := gateway.New(cfg.Gemini, rotator, nil)
	chatSvc := chat.NewService(kv, prompts.NewClock(cfg.Timezone, cfg.Locale), gw)

	library, err := media.NewLibrary(kv, filepath.Clean(cfg.StaticDir))
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to prepare static dirs")
	}

	logx.Info().
		Str("environment", cfg.Environment.String()).
		Str("data_dir", cfg.DataDir).
		Str("static_dir", cfg.StaticDir).
		Msg("starting chat widget server")

	if err := api.NewServer(cfg.HTTP, chatSvc, library, kv).Start(ctx); err != nil {
		logx.Fatal().Err(err).Msg("http server stopped")
	}
	logx.Info().Msg("server stopped")
}
