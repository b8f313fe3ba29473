package integration

import (
	"context"
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
			name_ar VARCHAR(255) NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			image VARCHAR(500) NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL DEFAULT '',
			subcategory VARCHAR(100) NOT NULL DEFAULT '',
			colors JSONB,
			is_new_arrival BOOLEAN NOT NULL DEFAULT FALSE,
			is_top_seller BOOLEAN NOT NULL DEFAULT FALSE,
			is_on_sale BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			user_id VARCHAR(100) NOT NULL,
			product_id VARCHAR(50) NOT NULL REFERENCES products(id),
			variant_key VARCHAR(100) NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price DECIMAL(10, 2) NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			name_ar VARCHAR(255) NOT NULL DEFAULT '',
			image VARCHAR(500) NOT NULL DEFAULT '',
			added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, product_id, variant_key)
		);

		CREATE TABLE IF NOT EXISTS promotions (
			code VARCHAR(50) PRIMARY KEY,
			type VARCHAR(20) NOT NULL,
			value DECIMAL(10, 2) NOT NULL,
			max_discount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			expires_at TIMESTAMP NOT NULL,
			first_order_only BOOLEAN NOT NULL DEFAULT FALSE,
			usage_count INTEGER NOT NULL DEFAULT 0,
			usage_limit INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id VARCHAR(100) NOT NULL,
			subtotal DECIMAL(10, 2) NOT NULL,
			discount DECIMAL(10, 2) NOT NULL DEFAULT 0,
			delivery_fee DECIMAL(10, 2) NOT NULL DEFAULT 0,
			total DECIMAL(10, 2) NOT NULL,
			promo_code VARCHAR(50),
			payment_method VARCHAR(30) NOT NULL,
			payment_ref VARCHAR(100),
			status VARCHAR(30) NOT NULL,
			address_name VARCHAR(255) NOT NULL,
			address_phone VARCHAR(50) NOT NULL,
			address_region VARCHAR(100) NOT NULL,
			address_city VARCHAR(100) NOT NULL,
			address_street VARCHAR(255) NOT NULL,
			address_details VARCHAR(500) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL,
			variant_key VARCHAR(100) NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price DECIMAL(10, 2) NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			name_ar VARCHAR(255) NOT NULL DEFAULT '',
			image VARCHAR(500) NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS profiles (
			user_id VARCHAR(100) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL,
			region VARCHAR(100) NOT NULL,
			city VARCHAR(100) NOT NULL,
			street VARCHAR(255) NOT NULL,
			details VARCHAR(500) NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_cart_items_user_id ON cart_items(user_id);
		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// CleanupDB truncates all tables between tests.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`TRUNCATE TABLE order_items, orders, cart_items, promotions, profiles, products CASCADE`)
	if err != nil {
		t.Fatalf("failed to clean up database: %v", err)
	}
}

// SeedProducts inserts a small bilingual catalogue.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, name, name_ar, price, stock, category, colors) VALUES
			('SCARF-001', 'Classic Chiffon', 'شيفون كلاسيك', 150.00, 3,
				'chiffon', '[{"key":"black","name":"Black","nameAr":"أسود"},{"key":"beige","name":"Beige","nameAr":"بيج"}]'),
			('SCARF-002', 'Pleated Crepe', 'كريب بليسيه', 99.50, 10, 'crepe', NULL),
			('SCARF-003', 'Silk Twill Square', 'حرير تويل مربع', 320.00, 1, 'silk', NULL)
	`)
	if err != nil {
		t.Fatalf("failed to seed products: %v", err)
	}
}

// SeedPromotion inserts one promotion row.
func SeedPromotion(t *testing.T, pool *pgxpool.Pool, code string, usageCount, usageLimit int) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO promotions (code, type, value, max_discount, active, expires_at, first_order_only, usage_count, usage_limit)
		VALUES ($1, 'percentage', 10, 50, TRUE, NOW() + INTERVAL '30 days', FALSE, $2, $3)
	`, code, usageCount, usageLimit)
	if err != nil {
		t.Fatalf("failed to seed promotion: %v", err)
	}
}

// ProductStock reads a product's live stock counter.
func ProductStock(t *testing.T, pool *pgxpool.Pool, productID string) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(),
		`SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	if err != nil {
		t.Fatalf("failed to read stock for %s: %v", productID, err)
	}
	return stock
}
