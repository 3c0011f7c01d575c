package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"invoicebox/internal/caching"
	"invoicebox/internal/config"
	"invoicebox/internal/export"
	"invoicebox/internal/handlers"
	"invoicebox/internal/middleware"
	"invoicebox/internal/models"
	"invoicebox/internal/repositories"
	"invoicebox/internal/services"
	"invoicebox/internal/storage"
	"invoicebox/pkg/database"
)

const version = "1.0.0"

func main() {
	configPath := os.Getenv("INVOICEBOX_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	sessions := caching.NewRedisSessionStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Object storage is only needed when export archiving is configured.
	var objectStore storage.ObjectStore
	if cfg.Export.ArchiveBucket != "" {
		objectStore, err = storage.NewMinioStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		if err := objectStore.EnsureBucketExists(context.Background(), cfg.Export.ArchiveBucket); err != nil {
			log.Fatalf("Failed to prepare archive bucket: %v", err)
		}
	}

	// Create repositories
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Create services
	invoiceSvc := services.NewInvoiceService(invoiceRepo)

	if err := seedAdminUser(context.Background(), userRepo, cfg.Admin); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	company := export.Company{
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
	}
	excelExporter := export.NewExcelExporter(company)
	pdfExporter := export.NewPDFExporter(company, export.LayoutPolicy(cfg.Export.PDFLayout))

	// Create handlers
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	authHandlers := handlers.NewAuthHandlers(userRepo, sessions, sessionTTL)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, excelExporter, pdfExporter, objectStore, cfg.Export.ArchiveBucket)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// Login is the only application route outside the session guard.
	e.POST("/login", authHandlers.Login)

	protected := e.Group("")
	protected.Use(middleware.SessionGuard(sessions))

	protected.POST("/logout", authHandlers.Logout)
	protected.GET("/", invoiceHandlers.ListInvoices)
	protected.POST("/invoice/new", invoiceHandlers.CreateInvoice)
	protected.GET("/invoice/:id/view", invoiceHandlers.GetInvoice)
	protected.POST("/invoice/:id/edit", invoiceHandlers.UpdateInvoice)
	protected.POST("/invoice/:id/delete", invoiceHandlers.DeleteInvoice)
	protected.GET("/invoice/:id/excel", invoiceHandlers.ExportExcel)
	protected.GET("/invoice/:id/pdf", invoiceHandlers.ExportPDF)

	log.Printf("invoicebox v%s starting on port %d (pdf layout: %s)", version, cfg.HTTP.Port, pdfExporter.Layout())

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.HTTP.Port)))
}

// seedAdminUser creates the configured admin login when it does not exist yet,
// so a fresh deployment can sign in.
func seedAdminUser(ctx context.Context, userRepo repositories.UserRepository, admin config.AdminConfig) error {
	if admin.Username == "" || admin.Password == "" {
		return nil
	}

	existing, err := userRepo.GetByUsername(ctx, admin.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     admin.Username,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now().UTC(),
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return err
	}

	log.Printf("Default user %q created", admin.Username)
	return nil
}
