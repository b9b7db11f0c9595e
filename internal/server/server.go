package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"avin-home/internal/config"
	"avin-home/internal/database"
	custommiddleware "avin-home/internal/middleware"
	"avin-home/internal/repository"
	"avin-home/internal/seed"
	"avin-home/internal/service"
	"avin-home/internal/storage"
	"avin-home/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// backend is the persistence selected by configuration
type backend struct {
	store storage.KeyValueStore
	db    database.Service
	redis *redis.Client
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory, "":
		return &backend{store: storage.NewMemoryStore()}, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Connected to redis", zap.String("addr", cfg.Redis.Addr()))
		return &backend{store: storage.NewRedisStore(client, cfg.Redis.KeyPrefix), redis: client}, nil

	case config.StoragePostgres:
		db, err := database.New(cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("Database health check", zap.Any("health", db.Health()))

		migrations, err := database.Migrations(cfg.Storage.MigrationsDir)
		if err != nil {
			db.Close()
			return nil, err
		}
		if err := database.RunMigrations(ctx, db.DB(), migrations, logger); err != nil {
			db.Close()
			return nil, err
		}
		return &backend{store: database.NewSnapshotStore(db.DB()), db: db}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	router, err := newRouter(ctx, cfg, logger, b)
	if err != nil {
		closeBackend(b, logger)
		return nil, err
	}

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     b.db,
		redis:  b.redis,
	}, nil
}

func newRouter(ctx context.Context, cfg *config.Config, logger *zap.Logger, b *backend) (http.Handler, error) {
	// Initialize repositories
	productRepo, err := repository.NewProductRepository(ctx, b.store, logger)
	if err != nil {
		return nil, err
	}
	orderRepo, err := repository.NewOrderRepository(ctx, b.store, logger)
	if err != nil {
		return nil, err
	}
	categoryRepo := repository.NewCategoryRepository()
	cartRepo := repository.NewCartRepository(b.store, logger)

	if cfg.Storage.SeedCatalog {
		if _, err := seed.Catalog(ctx, productRepo, logger); err != nil {
			return nil, err
		}
	}

	// Initialize services
	productService := service.NewProductService(productRepo, categoryRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(cartService, orderService, cfg.Checkout.CartClearDelay, logger)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, logger)
	cartHandler := transport.NewCartHandler(cartService, logger)
	checkoutHandler := transport.NewCheckoutHandler(checkoutService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	optionalAuth := custommiddleware.OptionalAuthMiddleware(cfg.JWT.Secret, logger)

	router := chi.NewRouter()
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))
	if cfg.RateLimit.Enabled && b.redis != nil {
		router.Use(custommiddleware.RateLimitMiddleware(b.redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "avin_rate",
			Methods:           custommiddleware.WriteMethods,
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", healthHandler(b))

	productHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router, authMiddleware)

	router.Route("/api/carts/{cartID}", func(r chi.Router) {
		cartHandler.RegisterRoutes(r)
		checkoutHandler.RegisterRoutes(r, optionalAuth)
	})

	router.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(custommiddleware.RequireAdmin(logger))
		productHandler.RegisterAdminRoutes(r)
		orderHandler.RegisterAdminRoutes(r)
	})

	return router, nil
}

func healthHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK

		if b.redis != nil {
			if err := b.redis.Ping(r.Context()).Err(); err != nil {
				status["status"] = "degraded"
				status["redis"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		if b.db != nil {
			for k, v := range b.db.Health() {
				status["db_"+k] = v
			}
			if status["db_status"] == "down" {
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		custommiddleware.RespondWithJSON(w, code, status)
	}
}

func closeBackend(b *backend, logger *zap.Logger) {
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			logger.Error("Failed to close redis client", zap.Error(err))
		}
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")
	closeBackend(&backend{db: s.db, redis: s.redis}, s.logger)
	s.logger.Sync()
	return nil
}
