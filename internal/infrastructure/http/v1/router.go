package v1

import (
	"github.com/gin-gonic/gin"

	"faturah/internal/domain"
	"faturah/internal/domain/auth"
	"faturah/internal/domain/catalogs/customer"
	"faturah/internal/domain/catalogs/product"
	"faturah/internal/domain/catalogs/unit"
	"faturah/internal/domain/documents"
	"faturah/internal/infrastructure/http/v1/handlers"
	"faturah/internal/infrastructure/http/v1/middleware"
	"faturah/internal/infrastructure/pdf"
	"faturah/internal/infrastructure/storage/postgres"
	"faturah/pkg/logger"
)

// RouterConfig holds the wired services the HTTP surface exposes.
type RouterConfig struct {
	// Pool is the shared database pool (health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Version is the build version reported by /health/info
	Version string

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// DocumentService serves all three document kinds
	DocumentService *documents.Service

	// Catalog services
	CustomerService *domain.CatalogService[*customer.Customer]
	ProductService  *domain.CatalogService[*product.Product]
	UnitService     *domain.CatalogService[*unit.Unit]

	// Renderer produces printable PDFs
	Renderer *pdf.Renderer
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		registerAuthRoutes(apiV1, cfg)

		// Protected endpoints: the JWT carries the account type, so one
		// middleware both authenticates and resolves the tenant scope.
		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.AuthService.JWT()))

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	publicAuth := rg.Group("/auth")

	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.AuthService.JWT()))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers master-data endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	RegisterCatalogRoutes(catalogs.Group("/customers"),
		handlers.NewCustomerHandler(baseHandler, cfg.CustomerService))
	RegisterCatalogRoutes(catalogs.Group("/products"),
		handlers.NewProductHandler(baseHandler, cfg.ProductService))
	RegisterCatalogRoutes(catalogs.Group("/units"),
		handlers.NewUnitHandler(baseHandler, cfg.UnitService))
}

// registerDocumentRoutes registers the three document kinds.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	mount := func(path string, kind documents.Kind) {
		handler := handlers.NewDocumentHandler(
			baseHandler, cfg.DocumentService, cfg.CustomerService, cfg.Renderer, kind)
		RegisterDocumentRoutes(docsGroup.Group(path), handler)
	}

	mount("/quotations", documents.KindQuotation)
	mount("/proforma-invoices", documents.KindProformaInvoice)
	mount("/invoices", documents.KindInvoice)
}
