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
		CREATE TABLE IF NOT EXISTS listing_variants (
			variant_id VARCHAR(50) PRIMARY KEY,
			listing_id VARCHAR(50) NOT NULL,
			sku VARCHAR(100) NOT NULL,
			display_name VARCHAR(255) NOT NULL,
			available_quantity INTEGER NOT NULL CHECK (available_quantity >= 0),
			retail_price DECIMAL(10, 2),
			offer_price DECIMAL(10, 2) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS offer_items (
			id VARCHAR(50) PRIMARY KEY,
			offer_id VARCHAR(50) NOT NULL,
			variant_id VARCHAR(50) NOT NULL,
			sku VARCHAR(100) NOT NULL,
			display_name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity >= 0),
			unit_price DECIMAL(10, 2) NOT NULL,
			retail_price DECIMAL(10, 2),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_listing_variants_listing_id ON listing_variants(listing_id);
		CREATE INDEX IF NOT EXISTS idx_offer_items_offer_id ON offer_items(offer_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCatalog inserts a two-variant listing and one buyer offer against it.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	variants := []struct {
		variantID string
		listingID string
		sku       string
		name      string
		available int
		retail    *float64
		offer     float64
	}{
		{"V001", "L001", "SKU-RED-M", "Red Shirt M", 50, ptr(4.00), 2.00},
		{"V002", "L001", "SKU-BLUE-L", "Blue Shirt L", 20, ptr(6.00), 3.00},
		{"V003", "L002", "SKU-HAT", "Green Hat", 10, nil, 1.50},
	}

	for _, v := range variants {
		_, err := pool.Exec(ctx,
			`INSERT INTO listing_variants (variant_id, listing_id, sku, display_name, available_quantity, retail_price, offer_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			v.variantID, v.listingID, v.sku, v.name, v.available, v.retail, v.offer,
		)
		if err != nil {
			t.Fatalf("failed to seed variant %s: %v", v.variantID, err)
		}
	}

	items := []struct {
		id        string
		offerID   string
		variantID string
		sku       string
		name      string
		quantity  int
		unitPrice float64
		retail    *float64
	}{
		{"OI001", "OFFER1", "V001", "SKU-RED-M", "Red Shirt M", 10, 2.00, ptr(4.00)},
		{"OI002", "OFFER1", "V002", "SKU-BLUE-L", "Blue Shirt L", 5, 3.00, ptr(6.00)},
		{"OI003", "OFFER1", "V999", "SKU-GONE", "Delisted Thing", 2, 1.00, nil},
	}

	for _, item := range items {
		_, err := pool.Exec(ctx,
			`INSERT INTO offer_items (id, offer_id, variant_id, sku, display_name, quantity, unit_price, retail_price)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.id, item.offerID, item.variantID, item.sku, item.name, item.quantity, item.unitPrice, item.retail,
		)
		if err != nil {
			t.Fatalf("failed to seed offer item %s: %v", item.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"offer_items", "listing_variants"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

func ptr(v float64) *float64 { return &v }
