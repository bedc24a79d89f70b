package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/helpdesk-request/internal/api/http"
	"github.com/spec-kit/helpdesk-request/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-request/internal/auth"
	"github.com/spec-kit/helpdesk-request/internal/collaborator"
	"github.com/spec-kit/helpdesk-request/internal/config"
	"github.com/spec-kit/helpdesk-request/internal/events"
	"github.com/spec-kit/helpdesk-request/internal/observability"
	"github.com/spec-kit/helpdesk-request/internal/persistence"
	"github.com/spec-kit/helpdesk-request/internal/service"
	"github.com/spec-kit/helpdesk-request/internal/session"
	"github.com/spec-kit/helpdesk-request/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	fixtures, err := config.LoadFixtures(cfg.Form.FixturesFile)
	if err != nil {
		log.Fatalf("failed to load fixtures: %v", err)
	}
	fixtures.Apply(&cfg.Form)

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	publisher := events.NewRedisPublisher(redis.Client, cfg.Redis.EventsChannel, logger)
	worker.StartEventSubscribers(dispatcher, notifications, publisher)

	store := session.NewStore(cfg.Session.TTL(), logger)
	tokens := auth.NewTokenManager(cfg.Session.TokenSecret, cfg.Session.TTL())
	sessions := service.NewSessionService(service.SessionDependencies{
		Store:         store,
		Tokens:        tokens,
		Fetcher:       collaborator.NewSimulatedUserInfo(cfg.Form.LoadLatency(), fixtures.UserInfoOr(collaborator.DefaultUserInfo())),
		Submitter:     collaborator.NewSimulatedSubmitter(cfg.Form.SubmitLatency()),
		Dispatcher:    dispatcher,
		Recorder:      metrics,
		Logger:        logger,
		ActionTimeout: cfg.Form.ActionTimeout(),
	})

	app := httptransport.NewServer(httptransport.ServerConfig{
		Name:           cfg.App.Name,
		BodyLimit:      cfg.App.BodyLimit(),
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
		Routes: httptransport.RouteConfig{
			Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis, store, metrics),
			Sessions:          handlers.NewSessionHandler(sessions),
			SessionMiddleware: auth.NewSessionMiddleware(tokens, store),
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		return worker.RunSessionSweeper(gctx, store, cfg.Session.SweepInterval(), logger)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", zap.Error(err))
	}
}
