package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/conserv-tt/conserv-backend/cart"
	"github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/db"
	"github.com/conserv-tt/conserv-backend/handlers"
	"github.com/conserv-tt/conserv-backend/internal/ai"
	"github.com/conserv-tt/conserv-backend/internal/storage"
	"github.com/conserv-tt/conserv-backend/internal/store"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/conserv-tt/conserv-backend/middleware"
	"github.com/conserv-tt/conserv-backend/pricing"
	"github.com/conserv-tt/conserv-backend/router"
	"github.com/conserv-tt/conserv-backend/services"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	dbClient := db.NewDatabaseClient(pool)
	receiptDB := db.NewReceiptDB(dbClient)
	purchaseDB := db.NewPurchaseDB(dbClient)
	expenseDB := db.NewExpenseDB(dbClient)

	redisOptions := &redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}
	if cfg.Redis.UseTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOptions)
	defer func() { _ = redisClient.Close() }()

	cartStore := cart.NewRedisStore(redisClient)

	// Object storage falls back to process memory when no bucket is set,
	// which keeps local development working without AWS credentials.
	var fileStore store.FileStore
	if cfg.Upload.Bucket != "" {
		s3Store, err := storage.NewS3FileStore(ctx, cfg.Upload)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		fileStore = s3Store
	} else {
		log.Warn("No upload bucket configured, storing uploads in memory")
		fileStore = storage.NewMemoryFileStore()
	}

	adviser, err := ai.NewGeminiAdviser(ctx, cfg.AI, cfg.Currency)
	if err != nil {
		log.Fatalf("Failed to initialize AI adviser: %v", err)
	}
	defer func() { _ = adviser.Close() }()

	catalog := pricing.Load(cfg.Pricing)
	if catalog.Err != nil {
		log.Warnw("Price catalog loaded with errors", "error", catalog.Err)
	} else {
		log.Infow("Price catalog loaded", "keys", len(catalog.Prices))
	}

	uploadService := services.NewUploadService(fileStore, cfg.Upload)
	cartService := services.NewCartService(cartStore)
	whatsappService := services.NewWhatsAppService(cfg.WhatsApp, cfg.Currency)
	receiptService := services.NewReceiptService(receiptDB, cartStore, whatsappService)
	purchaseService := services.NewPurchaseService(purchaseDB, adviser, uploadService, cfg.Currency)
	expenseService := services.NewExpenseService(expenseDB, adviser, uploadService)
	estimatorService := services.NewEstimatorService(adviser, catalog, uploadService)
	deliveryService := services.NewDeliveryService(cfg.Delivery)

	r := router.SetupRouter(router.Dependencies{
		Config:           cfg,
		CartHandler:      handlers.NewCartHandler(cartService),
		ReceiptHandler:   handlers.NewReceiptHandler(receiptService, cfg.Currency),
		PurchaseHandler:  handlers.NewPurchaseHandler(purchaseService),
		ExpenseHandler:   handlers.NewExpenseHandler(expenseService),
		EstimatorHandler: handlers.NewEstimatorHandler(estimatorService),
		UploadHandler:    handlers.NewUploadHandler(uploadService),
		DeliveryHandler:  handlers.NewDeliveryHandler(deliveryService),
		HealthHandler:    handlers.NewHealthHandler(catalog, cfg),
		Metrics:          middleware.NewHTTPMetrics(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
}
