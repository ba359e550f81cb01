package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkoster/checkout-gateway/internal/backend"
	"github.com/pkoster/checkout-gateway/internal/bootstrap"
	"github.com/pkoster/checkout-gateway/internal/checkout"
	"github.com/pkoster/checkout-gateway/internal/controller"
	infraRedis "github.com/pkoster/checkout-gateway/internal/infrastructure/redis"
	"github.com/pkoster/checkout-gateway/internal/postprocess"
	"github.com/pkoster/checkout-gateway/internal/repository/postgres"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "checkout-gateway", "checkout")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	transactionRepo := postgres.NewTransactionRepository(app.Pool)
	orderRepo := postgres.NewOrderRepository(app.Pool)
	settingsRepo := postgres.NewSettingsRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	settings := infraRedis.NewSettingsCache(settingsRepo, app.Redis, app.Config.Gateway.SettingsCacheTTL, app.Logger)
	replayGuard := infraRedis.NewReplayGuard(app.Redis, app.Config.Gateway.NotificationTTL)

	// --- Backend dispatcher ---
	var processor backend.Processor
	if app.Config.Backend.UseMock {
		app.Logger.Warn().Msg("Using mock payment backend")
		processor = backend.NewMockProcessor()
	} else {
		processor = backend.NewHTTPProcessor(backend.HTTPProcessorConfig{
			BaseURL:        app.Config.Backend.BaseURL,
			RequestTimeout: app.Config.Backend.RequestTimeout,
			MaxAttempts:    app.Config.Backend.MaxAttempts,
			RetryDelay:     app.Config.Backend.RetryDelay,
		}, app.Logger)
	}
	processor = backend.NewInstrumentedProcessor(processor, app.Metrics)

	// --- Application services ---
	builder := checkout.NewBuilder()
	checkoutUC := checkout.NewUseCase(
		orderRepo,
		transactionRepo,
		settings,
		processor,
		builder,
		txManager,
		checkout.Config{
			Active:    app.Config.Gateway.Active,
			ShopName:  app.Config.Gateway.ShopName,
			PublicURL: app.Config.Gateway.PublicURL,
		},
		app.Logger,
	)
	orchestrator := postprocess.NewOrchestrator(
		transactionRepo,
		orderRepo,
		settings,
		processor,
		builder,
		app.Logger,
	)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Checkout:     controller.NewCheckoutController(checkoutUC, app.Config.Gateway.OrderPageURL, app.Metrics, app.Logger),
		PostProcess:  controller.NewPostProcessController(orchestrator, app.Logger),
		Notification: controller.NewNotificationController(orchestrator, app.Metrics, app.Logger),
		Health:       controller.NewHealthController(app.Pool, app.Redis, app.Logger),
		ReplayGuard:  replayGuard,
		Metrics:      app.Metrics,
		Registry:     app.Registry,
		Config:       app.Config,
		Logger:       app.Logger,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
