// Package main is the entry point for the Faturah API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"faturah/internal/domain"
	"faturah/internal/domain/auth"
	"faturah/internal/domain/catalogs/customer"
	"faturah/internal/domain/catalogs/product"
	"faturah/internal/domain/catalogs/unit"
	"faturah/internal/domain/documents"
	"faturah/internal/infrastructure/cache"
	v1 "faturah/internal/infrastructure/http/v1"
	"faturah/internal/infrastructure/numerator"
	"faturah/internal/infrastructure/pdf"
	"faturah/internal/infrastructure/storage/postgres"
	"faturah/internal/infrastructure/storage/postgres/auth_repo"
	"faturah/internal/infrastructure/storage/postgres/catalog_repo"
	"faturah/internal/infrastructure/storage/postgres/document_repo"
	"faturah/pkg/logger"
)

func main() {
	// .env is a local-development convenience; absence is not an error.
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting faturah server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- JWT / Auth ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))

	authService := auth.NewService(
		auth_repo.NewUserRepo(txManager),
		auth_repo.NewTokenRepo(txManager),
		txManager,
		jwtService,
		auth.DefaultServiceConfig(),
	)

	// --- Numbering ---
	numeratorService := numerator.New(pool)

	seqSettings := documents.DefaultSequenceSettings()
	if startAt := getEnvInt64("SEQ_INVOICE_START", 0); startAt > 0 {
		seqSettings.InvoiceStartAt = startAt
	}

	// --- Audit ---
	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Caching ---
	listCache := cache.NewListCache(getEnvDuration("LIST_CACHE_TTL", time.Minute))

	// --- Services ---
	documentService := documents.NewService(
		document_repo.NewDocumentRepo(txManager),
		numeratorService,
		txManager,
		postgres.NewDocumentAuditTrail(auditService),
		listCache,
		seqSettings,
	)

	customerService := domain.NewCatalogService[*customer.Customer](
		catalog_repo.NewCustomerRepo(txManager), txManager, "customer")
	productService := domain.NewCatalogService[*product.Product](
		catalog_repo.NewProductRepo(txManager), txManager, "product")
	unitService := domain.NewCatalogService[*unit.Unit](
		catalog_repo.NewUnitRepo(txManager), txManager, "unit")

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		Version:         getEnv("APP_VERSION", "dev"),
		AuthService:     authService,
		DocumentService: documentService,
		CustomerService: customerService,
		ProductService:  productService,
		UnitService:     unitService,
		Renderer:        pdf.NewRenderer(getEnv("COMPANY_NAME", "")),
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		var result int64
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
