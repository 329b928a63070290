package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"pixmend/internal/adapters/analyzer"
	"pixmend/internal/adapters/converter"
	"pixmend/internal/adapters/handler"
	"pixmend/internal/adapters/storage"
	"pixmend/internal/core/port"
	"pixmend/internal/core/service"
)

const defaultSystemPrompt = "You are a photo restoration expert. You receive scans of old or damaged " +
	"photographs and describe, step by step, how to restore them: scratch and dust removal, fading and " +
	"color cast correction, contrast recovery. Be specific and concise."

const defaultUserPrompt = "Analyze this photograph and describe how to restore it."

func main() {
	log.Info().Msg("starting pixmend...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("upload.max_size_mb", 10)
	viper.SetDefault("artifacts.dir", "artifacts")
	viper.SetDefault("analyzer.backend", "openrouter")
	viper.SetDefault("analyzer.timeout", "90s")
	viper.SetDefault("limiter.max_requests", 10)
	viper.SetDefault("limiter.window", "1m")
	viper.SetDefault("prompts.system", defaultSystemPrompt)
	viper.SetDefault("prompts.user", defaultUserPrompt)

	log.Info().Msg("reading config file...")
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("could not read config file, using defaults")
	}

	var logLevel zerolog.Level

	switch viper.GetString("server.log_level") {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	tempStore, err := storage.NewTemp(viper.GetString("upload.temp_dir"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed initializing temp store")
	}

	artifactStore, err := storage.NewArtifact(viper.GetString("artifacts.dir"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed initializing artifact store")
	}

	systemPrompt := viper.GetString("prompts.system")
	userPrompt := viper.GetString("prompts.user")

	var imageAnalyzer port.Analyzer

	switch backend := viper.GetString("analyzer.backend"); backend {
	case "anthropic":
		imageAnalyzer = analyzer.NewClaude(viper.GetString("anthropic.api_key"),
			viper.GetString("anthropic.model"), systemPrompt, userPrompt)
	case "flux":
		imageAnalyzer = analyzer.NewFlux(viper.GetString("flux.edit_url"),
			viper.GetString("flux.api_key"), userPrompt)
	case "openrouter":
		imageAnalyzer = analyzer.NewOpenRouter(viper.GetString("openrouter.api_key"),
			viper.GetString("openrouter.model"), systemPrompt, userPrompt)
	default:
		log.Fatal().Str("backend", backend).Msg("unknown analyzer backend in config")
	}

	timeout, err := time.ParseDuration(viper.GetString("analyzer.timeout"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timeout for analyzer in config")
	}

	pipeline := service.NewPipeline(converter.NewImaging(), imageAnalyzer, tempStore, artifactStore, timeout)

	window, err := time.ParseDuration(viper.GetString("limiter.window"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid window for limiter in config")
	}

	limiter := service.NewRequestLimiter(ctx, viper.GetInt("limiter.max_requests"), window)

	if viper.GetString("server.mode") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	httpHandler := handler.NewHTTP(pipeline, artifactStore, limiter,
		viper.GetInt64("upload.max_size_mb")*1024*1024,
		viper.GetString("server.mode") != "release")
	httpHandler.Register(r)

	srv := &http.Server{
		Addr:              viper.GetString("server.host") + ":" + viper.GetString("server.port"),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
