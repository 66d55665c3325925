// Package main Eval Hub API
// @title Eval Hub API
// @version 1.0
// @description Evaluation orchestration service for language models: validates requests, expands risk categories into benchmark suites and runs them across evaluation backends
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/julpayne/eval-hub/docs"
	"github.com/julpayne/eval-hub/internal/callback"
	"github.com/julpayne/eval-hub/internal/dispatch"
	"github.com/julpayne/eval-hub/internal/hub"
	"github.com/julpayne/eval-hub/internal/router"
	"github.com/julpayne/eval-hub/internal/server"
	"github.com/julpayne/eval-hub/internal/storage/factory"
	"github.com/julpayne/eval-hub/internal/tracking"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	appCfg, err := LoadAppConfig()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	s := server.New(sCfg).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupOpenApi("/swagger/*").
		SetupMetrics("/metrics", registry)

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Eval Hub API is running")
	})

	store, healthChecker, err := factory.NewStore(s.Context(), appCfg.Storage)
	if err != nil {
		slog.Error("Failed to create response store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	s.SetupHealthChecks("/health", healthChecker)

	var sink tracking.Sink = tracking.NoopSink{}
	if appCfg.Settings.MLflow.TrackingURI != "" {
		mlflow, err := tracking.NewMLflowSink(appCfg.Settings.MLflow)
		if err != nil {
			slog.Error("Failed to create MLflow sink", "error", err)
			os.Exit(1)
		}
		sink = mlflow
		slog.Info("MLflow tracking enabled", "uri", appCfg.Settings.MLflow.TrackingURI)
	} else {
		slog.Info("MLflow tracking disabled")
	}

	notifier := callback.New(appCfg.Settings.Callback)
	dispatcher := dispatch.New(
		appCfg.Settings.MaxConcurrentEvaluations,
		dispatch.WithMetrics(dispatch.NewMetrics(registry)),
	)

	h := hub.New(appCfg.Settings, store, sink, notifier, hub.WithDispatcher(dispatcher))

	evalRouter := router.NewEvaluationRouter(s.Echo, h)
	evalRouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
