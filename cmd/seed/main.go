// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	appctx "faturah/internal/core/context"
	"faturah/internal/core/tenant"
	"faturah/internal/core/types"
	"faturah/internal/domain"
	"faturah/internal/domain/auth"
	"faturah/internal/domain/catalogs/customer"
	"faturah/internal/domain/catalogs/product"
	"faturah/internal/domain/catalogs/unit"
	"faturah/internal/domain/documents"
	"faturah/internal/infrastructure/numerator"
	"faturah/internal/infrastructure/storage/postgres"
	"faturah/internal/infrastructure/storage/postgres/auth_repo"
	"faturah/internal/infrastructure/storage/postgres/catalog_repo"
	"faturah/internal/infrastructure/storage/postgres/document_repo"
	"faturah/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	userRepo := auth_repo.NewUserRepo(txManager)

	// One account of each type; users are their own tenants.
	orgUser, err := seedUser(ctx, userRepo, "demo-org@faturah.dev", appctx.AccountOrganization, log)
	if err != nil {
		log.Fatalw("failed to seed organization user", "error", err)
	}
	indUser, err := seedUser(ctx, userRepo, "demo-individual@faturah.dev", appctx.AccountIndividual, log)
	if err != nil {
		log.Fatalw("failed to seed individual user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedTenantData(ctx, pool, txManager, orgUser, log); err != nil {
			log.Fatalw("failed to seed organization demo data", "error", err)
		}
		if err := seedTenantData(ctx, pool, txManager, indUser, log); err != nil {
			log.Fatalw("failed to seed individual demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedUser(ctx context.Context, repo *auth_repo.UserRepo, email string, accountType appctx.AccountType, log *logger.Logger) (*auth.User, error) {
	if existing, err := repo.GetByEmail(ctx, email); err == nil {
		log.Infow("user already exists", "email", email, "user_id", existing.ID)
		return existing, nil
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "Demo1234!"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := auth.NewUser(email, string(hash), accountType)
	user.Name = "Demo " + string(accountType)
	if err := repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", email, err)
	}

	log.Infow("user created", "email", email, "account_type", accountType, "user_id", user.ID)
	return user, nil
}

// seedTenantData creates master data and one sample document per kind
// inside the given user's tenant scope.
func seedTenantData(ctx context.Context, pool *postgres.Pool, txManager *postgres.TxManager, user *auth.User, log *logger.Logger) error {
	scope, err := tenant.Resolve(&appctx.UserContext{
		UserID:      user.ID.String(),
		Email:       user.Email,
		AccountType: user.AccountType,
	})
	if err != nil {
		return err
	}
	ctx = tenant.WithScope(ctx, scope)
	ctx = appctx.WithUser(ctx, &appctx.UserContext{
		UserID:      user.ID.String(),
		Email:       user.Email,
		AccountType: user.AccountType,
	})

	unitService := domain.NewCatalogService[*unit.Unit](
		catalog_repo.NewUnitRepo(txManager), txManager, "unit")
	productService := domain.NewCatalogService[*product.Product](
		catalog_repo.NewProductRepo(txManager), txManager, "product")
	customerService := domain.NewCatalogService[*customer.Customer](
		catalog_repo.NewCustomerRepo(txManager), txManager, "customer")

	pcs := unit.New(scope, "Piece", "pcs")
	if err := unitService.Create(ctx, pcs); err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	hour := unit.New(scope, "Hour", "h")
	if err := unitService.Create(ctx, hour); err != nil {
		return fmt.Errorf("create unit: %w", err)
	}

	consulting := product.New(scope, "Consulting")
	consulting.SKU = "SRV-001"
	consulting.SalePrice = types.MustMoney("150.00")
	consulting.UnitID = &hour.ID
	if err := productService.Create(ctx, consulting); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	license := product.New(scope, "Software license")
	license.SKU = "LIC-001"
	license.SalePrice = types.MustMoney("499.00")
	license.UnitID = &pcs.ID
	if err := productService.Create(ctx, license); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	acme := customer.New(scope, "Acme Trading LLC")
	acme.Email = "billing@acme.example"
	acme.VATNumber = "310123456700003"
	if err := customerService.Create(ctx, acme); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}

	documentService := documents.NewService(
		document_repo.NewDocumentRepo(txManager),
		numerator.New(pool),
		txManager,
		nil,
		nil,
		documents.DefaultSequenceSettings(),
	)

	for _, kind := range documents.Kinds {
		doc := documents.New(scope, kind)
		doc.CustomerID = &acme.ID
		doc.AddLine(documents.LineItem{
			ProductID:   &consulting.ID,
			Description: consulting.Name,
			Quantity:    decimal.NewFromInt(8),
			UnitPrice:   consulting.SalePrice,
			VATPercent:  consulting.VATPercent,
		})
		if err := documentService.Create(ctx, doc); err != nil {
			return fmt.Errorf("create %s: %w", kind, err)
		}
		log.Infow("document created", "kind", kind, "reference", doc.ReferenceID)
	}

	log.Infow("tenant demo data seeded", "scope", scope.Key())
	return nil
}
