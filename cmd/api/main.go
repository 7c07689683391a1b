package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/agencydesk/agency-tickets/internal/api/http"
	"github.com/agencydesk/agency-tickets/internal/api/http/handlers"
	"github.com/agencydesk/agency-tickets/internal/auth"
	"github.com/agencydesk/agency-tickets/internal/config"
	"github.com/agencydesk/agency-tickets/internal/events"
	"github.com/agencydesk/agency-tickets/internal/observability"
	"github.com/agencydesk/agency-tickets/internal/persistence"
	"github.com/agencydesk/agency-tickets/internal/service"
	"github.com/agencydesk/agency-tickets/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.OpenStore(ctx, cfg, logger, false)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	var publisher service.Publisher
	if redis != nil {
		publisher = redis
	}
	worker.StartNotificationWorker(dispatcher, publisher, logger, cfg.Notification)

	deps := service.Dependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     logger,
		Pagination: cfg.Pagination,
	}
	agentService := service.NewAgentService(deps)
	ticketService := service.NewTicketService(deps)
	statsService := service.NewStatisticsService(deps)

	metrics := observability.NewMetrics()
	routes := httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redis, metrics),
		Agents:     handlers.NewAgentsHandler(agentService, ticketService, statsService),
		Tickets:    handlers.NewTicketsHandler(ticketService),
		Statistics: handlers.NewStatisticsHandler(statsService),
	}
	if cfg.Auth.Enabled {
		tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
		routes.AuthMiddleware = auth.NewAuthMiddleware(tokens)
	}

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	}, routes)

	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("storage", store.Driver),
			zap.Bool("auth_enabled", cfg.Auth.Enabled))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
