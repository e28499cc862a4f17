package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/shaheen-amjed/shodix-api/api/controllers"
	"github.com/shaheen-amjed/shodix-api/api/routes"
	"github.com/shaheen-amjed/shodix-api/internal/auth"
	"github.com/shaheen-amjed/shodix-api/internal/cart"
	"github.com/shaheen-amjed/shodix-api/internal/conversations"
	"github.com/shaheen-amjed/shodix-api/internal/follows"
	"github.com/shaheen-amjed/shodix-api/internal/orders"
	"github.com/shaheen-amjed/shodix-api/internal/products"
	"github.com/shaheen-amjed/shodix-api/internal/stores"
	"github.com/shaheen-amjed/shodix-api/internal/users"
	"github.com/shaheen-amjed/shodix-api/pkg/config"
	"github.com/shaheen-amjed/shodix-api/pkg/db"
	"github.com/shaheen-amjed/shodix-api/pkg/instance"
	"github.com/shaheen-amjed/shodix-api/pkg/logger"
	"github.com/shaheen-amjed/shodix-api/pkg/metrics"
	"github.com/shaheen-amjed/shodix-api/pkg/migrate"
	"github.com/shaheen-amjed/shodix-api/pkg/redis"
	"github.com/shaheen-amjed/shodix-api/pkg/security"
	"github.com/shaheen-amjed/shodix-api/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api stopped with error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var (
		redisPinger controllers.Pinger
		idempotency redis.IdempotencyStore
		countCache  follows.CountCache
	)
	if cfg.Redis.Enabled() {
		redisClient, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			return redisErr
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
		redisPinger, idempotency, countCache = redisClient, redisClient, redisClient
	} else {
		logg.Warn(ctx, "redis not configured, idempotency replay and follower count cache disabled")
	}

	local, err := storage.NewLocal(cfg.Media, logg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	events := metrics.NewDomainMetrics(registry)

	hasher := security.NewHasher(cfg.Password)
	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	storeRepo := stores.NewRepository(gdb)
	productRepo := products.NewRepository(gdb)
	cartRepo := cart.NewRepository(gdb)

	resolver, err := auth.NewResolver(userRepo, storeRepo)
	if err != nil {
		return err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		UserRepo:  userRepo,
		StoreRepo: storeRepo,
		Hasher:    hasher,
		Storage:   local,
		Metrics:   events,
	})
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		StoreRepo: storeRepo,
		Hasher:    hasher,
		JWTConfig: cfg.JWT,
		Metrics:   events,
	})
	if err != nil {
		return err
	}
	userService, err := users.NewService(users.ServiceParams{Repo: userRepo, Hasher: hasher})
	if err != nil {
		return err
	}
	storeService, err := stores.NewService(stores.ServiceParams{Repo: storeRepo, Hasher: hasher, Storage: local})
	if err != nil {
		return err
	}
	productService, err := products.NewService(products.ServiceParams{Repo: productRepo, Storage: local, Logger: logg})
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cart.ServiceParams{Repo: cartRepo, Products: productRepo})
	if err != nil {
		return err
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		DB:        dbClient,
		OrderRepo: orders.NewRepository(gdb),
		CartRepo:  cartRepo,
		Metrics:   events,
	})
	if err != nil {
		return err
	}
	followService, err := follows.NewService(follows.ServiceParams{
		Repo:      follows.NewRepository(gdb),
		StoreRepo: storeRepo,
		Cache:     countCache,
		Metrics:   events,
		Logger:    logg,
	})
	if err != nil {
		return err
	}
	conversationService, err := conversations.NewService(conversations.ServiceParams{
		Repo:      conversations.NewRepository(gdb),
		UserRepo:  userRepo,
		StoreRepo: storeRepo,
		Metrics:   events,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(routes.Params{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Redis:         redisPinger,
		Idempotency:   idempotency,
		Gatherer:      registry,
		HTTPMetrics:   metrics.NewHTTPMetrics(registry),
		Uploads:       local.Handler(),
		Resolver:      resolver,
		Auth:          authService,
		Register:      registerService,
		Users:         userService,
		Stores:        storeService,
		Products:      productService,
		Cart:          cartService,
		Orders:        orderService,
		Conversations: conversationService,
		Follows:       followService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{Addr: addr, Handler: handler}
	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
