package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/cache"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/catalog"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/config"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/delivery"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/events"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/metrics"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/orders"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/promo"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/router"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/settings"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/tracker"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/ws"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("connected to database")

	gw := gateway.NewPostgres(pool, logger)
	store := cache.New(cfg.CacheSize, cfg.CacheTTL)

	hub := ws.NewHub(logger)

	// The broker is optional; without it status changes still reach
	// connected dashboards over the WebSocket hub.
	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		ch, err := conn.Channel()
		if err != nil {
			return err
		}
		publisher, err = events.NewPublisher(ch, logger)
		if err != nil {
			return err
		}
		logger.Info("connected to message broker")
	}

	var notify orders.Notifier
	var fanout *events.Fanout
	if cfg.RestaurantID != "" {
		rid, err := uuid.Parse(cfg.RestaurantID)
		if err != nil {
			return err
		}
		fanout = events.NewFanout(hub, publisher, rid, logger)
		notify = fanout
	}

	orderSvc := orders.NewService(gw, store, notify, logger)
	driverSvc := delivery.NewDriverService(gw, store, logger)
	coordinator := delivery.NewCoordinator(gw, store, orderSvc, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	if fanout != nil {
		tr := tracker.New(driverSvc, fanout, cfg.RestaurantID, cfg.TrackerInterval, logger)
		g.Go(func() error {
			err := tr.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	r := router.New(router.Deps{
		Cfg:         cfg,
		Logger:      logger,
		Gateway:     gw,
		Hub:         hub,
		Orders:      orderSvc,
		Coordinator: coordinator,
		Drivers:     driverSvc,
		Metrics:     metrics.NewService(gw, store, logger),
		Catalog:     catalog.NewService(gw, store, logger),
		Promo:       promo.NewService(gw, store, logger),
		Settings:    settings.NewService(gw, store, logger),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
