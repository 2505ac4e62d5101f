package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Combined portfolio table
		CREATE TABLE combined_portfolio (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			cpm_id VARCHAR(64) NOT NULL UNIQUE,
			status VARCHAR(10) NOT NULL DEFAULT 'active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Asset portfolio table
		CREATE TABLE asset_portfolio (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			cpm_id VARCHAR(64) NOT NULL,
			pair VARCHAR(20) NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(cpm_id) REFERENCES combined_portfolio(cpm_id) ON DELETE CASCADE
		);

		-- Market price series
		CREATE TABLE price_point (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			pair VARCHAR(20) NOT NULL,
			timestamp_utc VARCHAR(35) NOT NULL,
			price TEXT NOT NULL
		);

		-- Portfolio event series
		CREATE TABLE portfolio_event (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			asset_portfolio_id VARCHAR(36) NOT NULL,
			pair VARCHAR(20) NOT NULL,
			timestamp_utc VARCHAR(35) NOT NULL,
			event VARCHAR(10) NOT NULL,
			quantity TEXT NOT NULL,
			value TEXT NOT NULL,
			order_id VARCHAR(64),
			FOREIGN KEY(asset_portfolio_id) REFERENCES asset_portfolio(id) ON DELETE CASCADE
		);

		-- Daily summary series
		CREATE TABLE daily_summary (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			cpm_id VARCHAR(64) NOT NULL,
			asset_portfolio_id VARCHAR(36) NOT NULL,
			pair VARCHAR(20) NOT NULL,
			day VARCHAR(10) NOT NULL,
			aum TEXT NOT NULL,
			avg_cost TEXT NOT NULL,
			realized_value TEXT NOT NULL,
			unrealized_value TEXT,
			calculated_at DATETIME DEFAULT CURRENT_TIMESTAMP NOT NULL,
			FOREIGN KEY(asset_portfolio_id) REFERENCES asset_portfolio(id) ON DELETE CASCADE,
			CONSTRAINT uq_summary_portfolio_day UNIQUE (asset_portfolio_id, day)
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS ix_asset_portfolio_cpm_id ON asset_portfolio(cpm_id);
		CREATE INDEX IF NOT EXISTS ix_price_point_pair_timestamp ON price_point(pair, timestamp_utc);
		CREATE INDEX IF NOT EXISTS ix_portfolio_event_portfolio_timestamp ON portfolio_event(asset_portfolio_id, timestamp_utc);
		CREATE INDEX IF NOT EXISTS ix_daily_summary_portfolio_day ON daily_summary(asset_portfolio_id, day);
		CREATE INDEX IF NOT EXISTS ix_daily_summary_cpm_id ON daily_summary(cpm_id);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables in dependency order.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	tables := []string{
		"daily_summary",
		"portfolio_event",
		"price_point",
		"asset_portfolio",
		"combined_portfolio",
	}

	for _, table := range tables {
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}
