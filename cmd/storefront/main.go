package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/storefront/internal/auth"
	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/config"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer lg.Sync()
	zap.ReplaceGlobals(lg)

	if err := run(cfg, lg); err != nil {
		lg.Fatal("storefront stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx := context.Background()

	products, closeProducts, err := openCatalog(cfg, lg)
	if err != nil {
		return err
	}
	defer closeProducts()

	store, closeStore, err := openSessionStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	calc, err := buildCalculator(cfg)
	if err != nil {
		return err
	}

	provider, err := buildAuthProvider(cfg, lg)
	if err != nil {
		return err
	}

	carts := service.NewCartService(products, store, calc, lg)

	router := h.NewRouter(h.RouterConfig{
		Products:       h.NewProductHandler(catalog.NewEngine(products), calc, cfg.PageSize, lg),
		Carts:          h.NewCartHandler(carts, lg),
		Accounts:       h.NewAccountHandler(provider, lg),
		Verifier:       provider,
		Logger:         lg,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		lg.Info("storefront starting", zap.String("addr", srv.Addr), zap.Int("page_size", cfg.PageSize))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	lg.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	lg.Info("server exited")
	return nil
}

func openCatalog(cfg *config.Config, lg *zap.Logger) (repository.ProductRepository, func(), error) {
	if cfg.CatalogBackend == "memory" {
		lg.Info("using in-memory catalog")
		return repository.NewMemoryRepository(repository.SeedProducts()), func() {}, nil
	}

	repo, err := repository.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		repo.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	lg.Info("catalog migrations completed", zap.String("db_path", cfg.DBPath))

	return repo, func() { repo.Close() }, nil
}

func openSessionStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (session.Store, func(), error) {
	if cfg.SessionBackend == "memory" {
		lg.Info("using in-memory session store")
		return session.NewMemoryStore(), func() {}, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("redis connection failed: %w", err)
	}
	lg.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))

	store := session.NewBreakerStore(session.NewRedisStore(redisClient), session.BreakerSettings{}, lg)
	return store, func() { redisClient.Close() }, nil
}

// buildCalculator layers the configured discounts over unit pricing:
// the percentage first, then the fixed amount per line.
func buildCalculator(cfg *config.Config) (cart.Calculator, error) {
	var calc cart.Calculator = pricing.PriceCalculator{}
	if cfg.DiscountPercent != 0 {
		discount, err := pricing.NewDiscountCalculator(calc, pricing.DiscountPercentage, decimal.NewFromInt(int64(cfg.DiscountPercent)))
		if err != nil {
			return nil, err
		}
		calc = discount
	}
	if !cfg.DiscountFixed.IsZero() {
		discount, err := pricing.NewDiscountCalculator(calc, pricing.DiscountFixed, cfg.DiscountFixed)
		if err != nil {
			return nil, err
		}
		calc = discount
	}
	return calc, nil
}

func buildAuthProvider(cfg *config.Config, lg *zap.Logger) (*auth.FormsProvider, error) {
	users := map[string]string{}
	if cfg.AdminPasswordHash != "" {
		users[cfg.AdminUser] = cfg.AdminPasswordHash
	} else {
		lg.Warn("ADMIN_PASSWORD_HASH not set, login is disabled")
	}

	secret := cfg.AuthSecret
	if secret == "" {
		if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
			return nil, errors.New("AUTH_SECRET is required in production")
		}
		secret = "dev-only-insecure-auth-secret"
		lg.Warn("AUTH_SECRET not set, using development secret")
	}

	return auth.NewFormsProvider([]byte(secret), users, cfg.AuthTTL)
}
