package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	audioimpl "github.com/valerie-05/AI-Immigration-Assistant/external/audio"
	configloader "github.com/valerie-05/AI-Immigration-Assistant/external/config"
	guidanceimpl "github.com/valerie-05/AI-Immigration-Assistant/external/guidance"
	"github.com/valerie-05/AI-Immigration-Assistant/external/httpapi"
	speechimpl "github.com/valerie-05/AI-Immigration-Assistant/external/speech"
	storeimpl "github.com/valerie-05/AI-Immigration-Assistant/external/store"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/config"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/conversation"
	"github.com/valerie-05/AI-Immigration-Assistant/internal/language"

	"github.com/samber/do/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env,
		"guidance_configured", cfg.GuidanceConfigured(),
		"synthesis_configured", cfg.SynthesisConfigured())

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching http api", "addr", cfg.HTTPAddr)
	runServer(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	language.RegisterDI(injector)
	storeimpl.RegisterDI(injector)
	guidanceimpl.RegisterDI(injector)
	speechimpl.RegisterDI(injector)
	audioimpl.RegisterDI(injector)
	conversation.RegisterDI(injector)
	httpapi.RegisterDI(injector)

	return injector
}

func runServer(cfg *config.Config, injector do.Injector) {
	api, err := do.Invoke[*httpapi.Server](injector)
	if err != nil {
		slog.Error("failed to resolve http api", "error", err)
		os.Exit(1)
	}
	manager, err := do.Invoke[*conversation.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve conversation manager", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Handler(),
	}

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering http serve loop")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http serve failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}

	manager.CloseAll()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
}
