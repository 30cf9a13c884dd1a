/*
Package main is the entry point for the Agrow gateway.

It loads configuration, initializes logging, wires the auth service and the
upstream client into the HTTP router, and handles operating system interrupt
signals for a graceful shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrow/internal/app/auth"
	"agrow/internal/app/upstream"
	"agrow/internal/configs"
	"agrow/internal/handler"
	"agrow/internal/pkg/logx"
)

func main() {
	cfg, err := configs.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.Init(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Bool("openai_key_configured", cfg.OpenAIAPIKey != "").
		Bool("weather_key_configured", cfg.WeatherAPIKey != "").
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &handler.AppDeps{
		Config: cfg,
		Auth:   auth.NewService(),
		Upstream: upstream.New(upstream.Config{
			OpenAIAPIKey:  cfg.OpenAIAPIKey,
			WeatherAPIKey: cfg.WeatherAPIKey,
			DefaultModel:  cfg.OpenAIModel,
		}),
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Agrow gateway starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal, starting graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped")
}
