package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/sahomattress/config"
	"github.com/princinho/sahomattress/database"
	"github.com/princinho/sahomattress/logger"
	"github.com/princinho/sahomattress/mailer"
	"github.com/princinho/sahomattress/middleware"
	"github.com/princinho/sahomattress/routes"
	"github.com/princinho/sahomattress/services"
	"github.com/princinho/sahomattress/storage"
	"github.com/princinho/sahomattress/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(logger.Options{
		Production: cfg.IsProduction(),
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := database.Connect(startCtx, cfg.Mongo.URI, zlog)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			zlog.Warn("mongo disconnect", zap.Error(err))
		}
	}()
	db := client.Database(cfg.Mongo.DatabaseName)

	if err := database.EnsureIndexes(startCtx, db); err != nil {
		return err
	}

	users := database.NewUserStore(db, zlog)
	adminHash, err := utils.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}
	//seeding admin user
	if err := users.SeedAdmin(startCtx, cfg.Admin.Email, adminHash); err != nil {
		return err
	}

	blobs, closeBlobs, err := storage.New(startCtx, cfg.Blob, db, zlog)
	if err != nil {
		return err
	}
	defer closeBlobs()

	var products database.ProductRepository = database.NewProductStore(db)
	if rdb := openRedis(startCtx, cfg.Redis.URL, zlog); rdb != nil {
		defer rdb.Close()
		products = database.NewCachedProductStore(products, rdb, cfg.Redis.CacheTTL, zlog)
	}

	merchant := cfg.SMTP.AdminNotify
	if merchant == "" {
		merchant = cfg.Admin.Email
	}

	validator := utils.NewImageValidator()
	router := routes.NewRouter(routes.Deps{
		Config:    cfg,
		Log:       zlog,
		Catalog:   services.NewCatalogService(products, blobs, validator, zlog),
		Quotes:    services.NewQuoteService(mailer.NewSMTPTransport(cfg.SMTP, zlog), merchant, zlog),
		Auth:      services.NewAuthService(users, cfg.Admin, cfg.Auth, zlog),
		Validator: validator,
		Metrics:   middleware.NewMetrics(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

// openRedis returns nil when no url is configured or redis is unreachable; the
// catalog then runs uncached.
func openRedis(ctx context.Context, url string, zlog *zap.Logger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		zlog.Warn("invalid REDIS_URL, catalog cache disabled", zap.Error(err))
		return nil
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Warn("redis unreachable, catalog cache disabled", zap.Error(err))
		_ = client.Close()
		return nil
	}
	zlog.Info("connected to redis")
	return client
}
