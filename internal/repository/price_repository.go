package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
)

// PriceRepository provides data access methods for the price_point series.
// Prices are append-only: the feed writes them and the valuation path reads
// them back filtered by pair and cutoff.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// WritePrice appends one market price observation.
func (r *PriceRepository) WritePrice(p model.PricePoint) error {
	query := `
		INSERT INTO price_point (id, pair, timestamp_utc, price)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		uuid.NewString(),
		p.Pair,
		FormatTimestamp(p.TimestampUTC),
		p.Price.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert price_point: %w", err)
	}
	return nil
}

// GetPricesUpTo retrieves every price observation for a pair at or before
// cutoffUTC, ordered by timestamp ascending (insertion order breaks ties).
// Rows whose stored timestamp or price cannot be parsed are dropped with a
// logged warning rather than failing the whole read.
func (r *PriceRepository) GetPricesUpTo(pair string, cutoffUTC time.Time) ([]model.PricePoint, error) {
	query := `
		SELECT pair, timestamp_utc, price
		FROM price_point
		WHERE pair = ? AND timestamp_utc <= ?
		ORDER BY timestamp_utc ASC, rowid ASC
	`
	rows, err := r.db.Query(query, pair, FormatTimestamp(cutoffUTC))
	if err != nil {
		return nil, fmt.Errorf("failed to query price_point table: %w", err)
	}
	defer rows.Close()

	prices := []model.PricePoint{}
	for rows.Next() {
		var p model.PricePoint
		var tsStr, priceStr string

		if err := rows.Scan(&p.Pair, &tsStr, &priceStr); err != nil {
			return nil, fmt.Errorf("failed to scan price_point results: %w", err)
		}

		p.TimestampUTC, err = ParseTimestamp(tsStr)
		if err != nil {
			log.Printf("Dropping price_point with unparseable timestamp for pair %s: %v", pair, err)
			continue
		}

		p.Price, err = ParseDecimal(priceStr)
		if err != nil {
			log.Printf("Dropping price_point with unparseable price for pair %s at %s: %v", pair, tsStr, err)
			continue
		}

		prices = append(prices, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price_point table: %w", err)
	}

	return prices, nil
}
