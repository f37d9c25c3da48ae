package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			category_id VARCHAR(100) NOT NULL,
			on_sale BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS bundles (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price DECIMAL(10, 2) NOT NULL,
			category_id VARCHAR(100) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS coupons (
			id UUID PRIMARY KEY,
			code VARCHAR(50) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			discount_type VARCHAR(20) NOT NULL,
			discount_value DECIMAL(10, 2) NOT NULL,
			min_order_value DECIMAL(10, 2) NOT NULL DEFAULT 0,
			max_discount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP,
			status VARCHAR(20) NOT NULL,
			usage_limit INTEGER NOT NULL DEFAULT 0,
			usage_count INTEGER NOT NULL DEFAULT 0,
			usage_per_user INTEGER NOT NULL DEFAULT 1,
			coupon_type VARCHAR(30) NOT NULL,
			eligible_product_ids TEXT[],
			eligible_category_ids TEXT[],
			bogo_buy_quantity INTEGER NOT NULL DEFAULT 0,
			bogo_get_quantity INTEGER NOT NULL DEFAULT 0,
			bogo_discount_percent DECIMAL(5, 2) NOT NULL DEFAULT 0,
			max_discount_items INTEGER NOT NULL DEFAULT 0,
			first_order_only BOOLEAN NOT NULL DEFAULT FALSE,
			exclude_sale_items BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code ON coupons (UPPER(code));

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			coupon_code VARCHAR(50),
			subtotal DECIMAL(12, 2) NOT NULL,
			discount BIGINT NOT NULL DEFAULT 0,
			payment_status VARCHAR(20) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			item_type VARCHAR(10) NOT NULL,
			catalog_id VARCHAR(50) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price DECIMAL(10, 2) NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

		CREATE TABLE IF NOT EXISTS coupon_redemptions (
			id UUID PRIMARY KEY,
			coupon_id UUID NOT NULL REFERENCES coupons(id),
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			user_id UUID NOT NULL,
			discount BIGINT NOT NULL,
			redeemed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_redemptions_coupon_user ON coupon_redemptions(coupon_id, user_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCatalogue inserts test products and bundles into the database.
func SeedCatalogue(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       string
		name     string
		price    float64
		category string
		onSale   bool
	}{
		{"P001", "Wireless Mouse", 50.00, "electronics", false},
		{"P002", "Mechanical Keyboard", 80.00, "electronics", true},
		{"P003", "Desk Lamp", 120.00, "furniture", false},
		{"P004", "Monitor Stand", 30.00, "furniture", false},
		{"P005", "USB-C Hub", 90.00, "electronics", false},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, price, category_id, on_sale) VALUES ($1, $2, $3, $4, $5)",
			p.id, p.name, p.price, p.category, p.onSale,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}

	bundles := []struct {
		id       string
		name     string
		price    float64
		category string
	}{
		{"B001", "Home Office Bundle", 200.00, "furniture"},
		{"B002", "Gamer Bundle", 350.00, "electronics"},
	}

	for _, b := range bundles {
		_, err := pool.Exec(ctx,
			"INSERT INTO bundles (id, name, price, category_id) VALUES ($1, $2, $3, $4)",
			b.id, b.name, b.price, b.category,
		)
		if err != nil {
			t.Fatalf("failed to seed bundle %s: %v", b.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"coupon_redemptions", "order_items", "orders", "coupons", "products", "bundles"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
