package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"finance-backend/internal/auth"
	"finance-backend/internal/cache"
	"finance-backend/internal/classifier"
	"finance-backend/internal/config"
	"finance-backend/internal/database"
	"finance-backend/internal/db"
	"finance-backend/internal/handlers"
	"finance-backend/internal/health"
	h "finance-backend/internal/http"
	"finance-backend/internal/middleware"
	"finance-backend/internal/repositories"
	"finance-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - statements fall back to recompute)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (statement caching disabled)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	// This automatically creates all required tables on startup
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	txnRepo := repositories.NewTransactionRepository(pool)
	accountRepo := repositories.NewAccountRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	contractorRepo := repositories.NewContractorRepository(pool)
	inventoryRepo := repositories.NewInventoryRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	statementRepo := repositories.NewStatementRepository(pool)

	// Initialize the transaction classifier (optional - batch categorization
	// returns 503 when no API key is configured)
	var cls classifier.Classifier
	if cfg.OpenAI.APIKey != "" {
		cls = classifier.NewOpenAIClassifier(cfg.OpenAI.APIKey)
		log.Println("[Classifier] OpenAI classifier enabled")
	} else {
		log.Println("[Classifier] OPENAI_API_KEY not set, batch categorization disabled")
	}

	// Initialize services
	ledgerService := services.NewLedgerService(txnRepo, accountRepo, categoryRepo)
	accountService := services.NewAccountService(accountRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	contractorService := services.NewContractorService(contractorRepo)
	inventoryService := services.NewInventoryService(inventoryRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, inventoryRepo, paymentRepo)
	categorizationService := services.NewCategorizationService(txnRepo, categoryRepo, cls)
	statementService := services.NewStatementService(statementRepo, accountRepo)
	exportService := services.NewExportService(statementService)
	invoicePDFService := services.NewInvoicePDFService(invoiceRepo, cfg.Org.Name)
	razorpayService := services.NewRazorpayService(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.WebhookSecret,
		invoiceRepo,
		paymentRepo,
	)
	if razorpayService.Enabled() {
		log.Println("[Razorpay] Online payment collection enabled")
	} else {
		log.Println("[Razorpay] Keys not configured, online payment collection disabled")
	}

	// Start host metrics collector (CPU/memory/disk gauges for /metrics)
	metricsCollector := services.NewMetricsCollector(30 * time.Second)
	metricsCollector.Start()
	defer metricsCollector.Stop()

	// Initialize handlers
	transactionHandler := handlers.NewTransactionHandler(ledgerService, categorizationService)
	accountHandler := handlers.NewAccountHandler(accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	contractorHandler := handlers.NewContractorHandler(contractorService, invoiceService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, invoicePDFService)
	statementHandler := handlers.NewStatementHandler(statementService, exportService)
	razorpayHandler := handlers.NewRazorpayHandler(razorpayService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		transactionHandler,
		accountHandler,
		categoryHandler,
		contractorHandler,
		inventoryHandler,
		invoiceHandler,
		statementHandler,
		razorpayHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery, request logging and metrics middleware
	handler := middleware.PanicRecovery(middleware.APILogging(middleware.MetricsMiddleware(corsMiddleware(router))))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
