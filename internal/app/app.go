// Package app builds the storefront dependency graph from config and runs
// its servers.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/checkout"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/events"
	grpcserver "github.com/fjod/storefront/internal/grpc"
	h "github.com/fjod/storefront/internal/http"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/internal/store"
	"github.com/fjod/storefront/pkg/circuitbreaker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

type App struct {
	cfg    *config.Config
	logger *zap.Logger

	Store    *store.Store
	Catalog  *catalog.Service
	Checkout *checkout.Service
	Handler  http.Handler
	GRPC     *grpcserver.Server

	publisher *events.StatePublisher
	orders    *events.OrderWriter
	consumer  *events.CheckoutConsumer
	closers   []func() error
}

// New loads the catalog and wires the store to its collaborators. Redis and
// Kafka are only used when configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	source, err := a.catalogSource()
	if err != nil {
		a.Close()
		return nil, err
	}

	catalogCache, err := a.catalogCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Catalog = catalog.NewService(source, catalogCache, logger)
	c, err := a.Catalog.Load(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	a.Store = store.New(c)
	a.Store.Subscribe(func(s store.State, act store.Action) {
		logger.Debug("state transition",
			zap.String("action", act.Name()),
			zap.Uint64("version", s.Version()),
			zap.Int("items", s.ItemCount()),
		)
	})

	var orders checkout.OrderPublisher
	if brokers := cfg.Kafka.Brokers; len(brokers) > 0 {
		stateBreaker := circuitbreaker.New("kafka-state", circuitbreaker.DefaultSettings(), logger)
		a.publisher = events.NewStatePublisher(events.NewWriter(cfg.Kafka.StateTopic, brokers...), stateBreaker, logger, 256)
		a.Store.Subscribe(a.publisher.Notify)

		ordersBreaker := circuitbreaker.New("kafka-orders", circuitbreaker.DefaultSettings(), logger)
		a.orders = events.NewOrderWriter(events.NewWriter(cfg.Kafka.OrdersTopic, brokers...), ordersBreaker)
		orders = a.orders

		reader := events.NewReader(cfg.Kafka.CheckoutTopic, cfg.Kafka.GroupID, brokers...)
		a.consumer = events.NewCheckoutConsumer(reader, a.Store, logger)
		logger.Info("kafka enabled", zap.Strings("brokers", brokers))
	}

	a.Checkout = checkout.NewService(a.Store, orders, logger)
	a.Handler = h.NewRouter(a.Store, a.Checkout, logger, h.RouterConfig{
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
	})
	a.GRPC = grpcserver.NewServer(logger)

	return a, nil
}

func (a *App) catalogSource() (catalog.Source, error) {
	if a.cfg.Catalog.DBPath == "" {
		a.logger.Info("using built-in catalog")
		return catalog.NewStatic(catalog.DefaultCatalog()), nil
	}

	repo, err := repository.NewRepository(a.cfg.Catalog.DBPath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, repo.Close)

	if err := repo.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	a.logger.Info("catalog database ready", zap.String("path", a.cfg.Catalog.DBPath))
	return repo, nil
}

func (a *App) catalogCache(ctx context.Context) (cache.CatalogCache, error) {
	rc := a.cfg.Redis
	if rc.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	a.closers = append(a.closers, client.Close)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	a.logger.Info("redis ping succeeded", zap.String("addr", rc.Addr))

	return cache.NewRedisCache(client, rc.TTL), nil
}

// Run serves HTTP and gRPC until ctx is cancelled, then shuts everything
// down.
func (a *App) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", ":"+a.cfg.HTTP.Port)
	if err != nil {
		return fmt.Errorf("failed to listen http: %w", err)
	}
	grpcLis, err := net.Listen("tcp", ":"+a.cfg.GRPC.Port)
	if err != nil {
		httpLis.Close()
		return fmt.Errorf("failed to listen grpc: %w", err)
	}

	srv := &http.Server{
		Handler:      a.Handler,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server listening", zap.String("addr", httpLis.Addr().String()))
		if err := srv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := a.GRPC.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	if a.consumer != nil {
		g.Go(func() error {
			a.consumer.Run(gctx)
			return nil
		})
	}

	a.GRPC.SetServing()

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		a.GRPC.SetNotServing()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		a.GRPC.GracefulStop()
		if err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	a.Close()
	return err
}

// Close releases the Kafka clients and storage handles. Safe to call more
// than once.
func (a *App) Close() {
	if a.consumer != nil {
		a.consumer.Close()
		a.consumer = nil
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close state publisher", zap.Error(err))
		}
		a.publisher = nil
	}
	if a.orders != nil {
		if err := a.orders.Close(); err != nil {
			a.logger.Warn("failed to close order writer", zap.Error(err))
		}
		a.orders = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", zap.Error(err))
		}
	}
	a.closers = nil
}
