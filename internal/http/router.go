package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finance-backend/internal/handlers"
	"finance-backend/internal/middleware"
)

func NewRouter(
	transactionHandler *handlers.TransactionHandler,
	accountHandler *handlers.AccountHandler,
	categoryHandler *handlers.CategoryHandler,
	contractorHandler *handlers.ContractorHandler,
	inventoryHandler *handlers.InventoryHandler,
	invoiceHandler *handlers.InvoiceHandler,
	statementHandler *handlers.StatementHandler,
	razorpayHandler *handlers.RazorpayHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Gateway webhook authenticates with its HMAC signature, not a JWT
	r.HandleFunc("/webhooks/razorpay", razorpayHandler.Webhook).Methods("POST")

	// Protected API routes - Ledger
	txnAPI := r.PathPrefix("/api/transactions").Subrouter()
	txnAPI.Use(authMiddleware.Authenticate)
	txnAPI.HandleFunc("", transactionHandler.Create).Methods("POST")
	txnAPI.HandleFunc("", transactionHandler.List).Methods("GET")
	txnAPI.HandleFunc("/categorize", transactionHandler.CategorizeBatch).Methods("POST")
	txnAPI.HandleFunc("/{id}", transactionHandler.Get).Methods("GET")
	txnAPI.HandleFunc("/{id}", transactionHandler.Update).Methods("PATCH")
	txnAPI.HandleFunc("/{id}/links", transactionHandler.Link).Methods("PUT")
	txnAPI.HandleFunc("/{id}/reconcile", transactionHandler.Reconcile).Methods("POST")
	txnAPI.HandleFunc("/{id}/category", transactionHandler.Categorize).Methods("PUT")

	// Protected API routes - Accounts
	accountsAPI := r.PathPrefix("/api/accounts").Subrouter()
	accountsAPI.Use(authMiddleware.Authenticate)
	accountsAPI.HandleFunc("", accountHandler.Create).Methods("POST")
	accountsAPI.HandleFunc("", accountHandler.List).Methods("GET")
	accountsAPI.HandleFunc("/balances", accountHandler.Balances).Methods("GET")
	accountsAPI.HandleFunc("/{id}", accountHandler.Get).Methods("GET")
	accountsAPI.HandleFunc("/{id}", accountHandler.Deactivate).Methods("DELETE")

	// Protected API routes - Categories
	categoriesAPI := r.PathPrefix("/api/categories").Subrouter()
	categoriesAPI.Use(authMiddleware.Authenticate)
	categoriesAPI.HandleFunc("", categoryHandler.Create).Methods("POST")
	categoriesAPI.HandleFunc("", categoryHandler.List).Methods("GET")

	// Protected API routes - Contractors
	contractorsAPI := r.PathPrefix("/api/contractors").Subrouter()
	contractorsAPI.Use(authMiddleware.Authenticate)
	contractorsAPI.HandleFunc("", contractorHandler.Create).Methods("POST")
	contractorsAPI.HandleFunc("", contractorHandler.List).Methods("GET")
	contractorsAPI.HandleFunc("/{id}/payables", contractorHandler.RecordPayable).Methods("POST")

	// Protected API routes - Inventory
	itemsAPI := r.PathPrefix("/api/items").Subrouter()
	itemsAPI.Use(authMiddleware.Authenticate)
	itemsAPI.HandleFunc("", inventoryHandler.CreateItem).Methods("POST")
	itemsAPI.HandleFunc("", inventoryHandler.ListItems).Methods("GET")
	itemsAPI.HandleFunc("/low-stock", inventoryHandler.LowStock).Methods("GET")
	itemsAPI.HandleFunc("/sales-summary", inventoryHandler.SalesSummary).Methods("GET")
	itemsAPI.HandleFunc("/{id}", inventoryHandler.GetItem).Methods("GET")
	itemsAPI.HandleFunc("/{id}/movements", inventoryHandler.RecordMovement).Methods("POST")
	itemsAPI.HandleFunc("/{id}/movements", inventoryHandler.ListMovements).Methods("GET")

	// Protected API routes - Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("", invoiceHandler.Create).Methods("POST")
	invoicesAPI.HandleFunc("", invoiceHandler.List).Methods("GET")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Get).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/send", invoiceHandler.Send).Methods("POST")
	invoicesAPI.HandleFunc("/{id}/payments", invoiceHandler.Pay).Methods("POST")
	invoicesAPI.HandleFunc("/{id}/payments", invoiceHandler.Payments).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/void", invoiceHandler.Void).Methods("POST")
	invoicesAPI.HandleFunc("/{id}/pdf", invoiceHandler.DownloadPDF).Methods("GET")
	invoicesAPI.HandleFunc("/{id}/payment-order", razorpayHandler.CreateOrder).Methods("POST")

	// Protected API routes - Statements and analytics
	statementsAPI := r.PathPrefix("/api/statements").Subrouter()
	statementsAPI.Use(authMiddleware.Authenticate)
	statementsAPI.HandleFunc("/pnl", statementHandler.ProfitAndLoss).Methods("GET")
	statementsAPI.HandleFunc("/balance-sheet", statementHandler.BalanceSheet).Methods("GET")
	statementsAPI.HandleFunc("/aging", statementHandler.Aging).Methods("GET")
	statementsAPI.HandleFunc("/trends", statementHandler.Trends).Methods("GET")
	statementsAPI.HandleFunc("/forecast", statementHandler.Forecast).Methods("GET")
	statementsAPI.HandleFunc("/anomalies", statementHandler.Anomalies).Methods("GET")
	statementsAPI.HandleFunc("/insights", statementHandler.Insights).Methods("GET")
	statementsAPI.HandleFunc("/export", statementHandler.ExportXLSX).Methods("GET")

	return r
}
