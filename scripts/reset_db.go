package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("⚠️  WARNING: This will DELETE ALL LEDGER DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all transactions and payments")
	fmt.Println("  - Delete all invoices and line items")
	fmt.Println("  - Delete all inventory items and stock movements")
	fmt.Println("  - Delete all accounts, categories and contractors")
	fmt.Println("  - Reset all ID sequences")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	// Load environment variables
	godotenv.Load()

	// Database connection
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "finance_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("🔄 Resetting database...")

	ctx := context.Background()

	// Start transaction
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v\n", err)
	}
	defer tx.Rollback(ctx)

	// Disable foreign key checks
	_, err = tx.Exec(ctx, "SET session_replication_role = 'replica'")
	if err != nil {
		log.Fatalf("Failed to disable foreign key checks: %v\n", err)
	}

	// Truncate all tables
	tables := []string{
		"online_payment_orders",
		"payments",
		"invoice_line_items",
		"invoices",
		"stock_movements",
		"inventory_items",
		"transactions",
		"categories",
		"contractors",
		"accounts",
		"organizations",
	}

	for _, table := range tables {
		_, err = tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			log.Fatalf("Failed to truncate %s: %v\n", table, err)
		}
		fmt.Printf("  ✓ Cleared %s\n", table)
	}

	// Re-enable foreign key checks
	_, err = tx.Exec(ctx, "SET session_replication_role = 'origin'")
	if err != nil {
		log.Fatalf("Failed to enable foreign key checks: %v\n", err)
	}

	// Reset sequences
	sequences := []string{
		"organizations_id_seq",
		"accounts_id_seq",
		"contractors_id_seq",
		"categories_id_seq",
		"transactions_id_seq",
		"inventory_items_id_seq",
		"invoices_id_seq",
		"invoice_line_items_id_seq",
		"stock_movements_id_seq",
		"payments_id_seq",
		"online_payment_orders_id_seq",
	}

	for _, seq := range sequences {
		_, err = tx.Exec(ctx, fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH 1", seq))
		if err != nil {
			log.Printf("Warning: Failed to reset sequence %s: %v\n", seq, err)
		}
	}
	fmt.Println("  ✓ Reset ID sequences")

	// Create a demo organization for testing
	var orgID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO organizations (name, created_at)
		VALUES ($1, NOW())
		RETURNING id`,
		"Demo Organization",
	).Scan(&orgID)
	if err != nil {
		log.Fatalf("Failed to create demo organization: %v\n", err)
	}
	fmt.Println("  ✓ Created demo organization")

	// Create default categories
	categories := []struct {
		name     string
		ctype    string
		isDirect bool
	}{
		{"Sales", "income", false},
		{"Other Income", "income", false},
		{"Cost of Goods Sold", "expense", true},
		{"Salaries", "expense", false},
		{"Rent", "expense", false},
		{"Utilities", "expense", false},
	}

	for _, c := range categories {
		_, err = tx.Exec(ctx, `
			INSERT INTO categories (organization_id, name, category_type, is_direct, created_at)
			VALUES ($1, $2, $3, $4, NOW())`,
			orgID, c.name, c.ctype, c.isDirect,
		)
		if err != nil {
			log.Printf("Warning: Failed to create category %s: %v\n", c.name, err)
		}
	}
	fmt.Println("  ✓ Created default categories")

	// Commit transaction
	err = tx.Commit(ctx)
	if err != nil {
		log.Fatalf("Failed to commit transaction: %v\n", err)
	}

	fmt.Println()
	fmt.Println("✅ Database reset successful!")
	fmt.Println()
	fmt.Printf("Demo organization id: %d\n", orgID)
	fmt.Println()
	fmt.Println("Database is now ready for testing!")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
