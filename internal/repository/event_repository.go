package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
)

// EventRepository provides data access methods for the portfolio_event series.
// Events are append-only trade records; the valuation path reads them back in
// timestamp order with ingestion order breaking ties.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository with the provided database connection.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// WriteEvent appends one portfolio event.
func (r *EventRepository) WriteEvent(e model.PortfolioEvent) error {
	query := `
		INSERT INTO portfolio_event (id, asset_portfolio_id, pair, timestamp_utc, event, quantity, value, order_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	var orderID any
	if e.OrderID != "" {
		orderID = e.OrderID
	}

	_, err := r.db.Exec(query,
		uuid.NewString(),
		e.AssetPortfolioID,
		e.Pair,
		FormatTimestamp(e.TimestampUTC),
		e.Event,
		e.Quantity.String(),
		e.Value.String(),
		orderID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio_event: %w", err)
	}
	return nil
}

// GetEventsUpTo retrieves every event for an asset portfolio at or before
// cutoffUTC, ordered by timestamp ascending with rowid (ingestion order)
// breaking ties. Rows with unparseable timestamps are dropped with a logged
// warning; rows with unparseable numeric fields keep the parseable fields and
// zero the rest, so the record still marks activity on its day.
func (r *EventRepository) GetEventsUpTo(assetPortfolioID string, cutoffUTC time.Time) ([]model.PortfolioEvent, error) {
	query := `
		SELECT asset_portfolio_id, pair, timestamp_utc, event, quantity, value, order_id
		FROM portfolio_event
		WHERE asset_portfolio_id = ? AND timestamp_utc <= ?
		ORDER BY timestamp_utc ASC, rowid ASC
	`
	rows, err := r.db.Query(query, assetPortfolioID, FormatTimestamp(cutoffUTC))
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_event table: %w", err)
	}
	defer rows.Close()

	events := []model.PortfolioEvent{}
	for rows.Next() {
		var e model.PortfolioEvent
		var tsStr, quantityStr, valueStr string
		var orderID sql.NullString

		if err := rows.Scan(&e.AssetPortfolioID, &e.Pair, &tsStr, &e.Event, &quantityStr, &valueStr, &orderID); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_event results: %w", err)
		}

		e.TimestampUTC, err = ParseTimestamp(tsStr)
		if err != nil {
			log.Printf("Dropping portfolio_event with unparseable timestamp for portfolio %s: %v", assetPortfolioID, err)
			continue
		}

		e.Quantity, err = ParseDecimal(quantityStr)
		if err != nil {
			log.Printf("Treating unparseable quantity as zero for portfolio %s at %s: %v", assetPortfolioID, tsStr, err)
		}

		e.Value, err = ParseDecimal(valueStr)
		if err != nil {
			log.Printf("Treating unparseable value as zero for portfolio %s at %s: %v", assetPortfolioID, tsStr, err)
		}

		if orderID.Valid {
			e.OrderID = orderID.String
		}

		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_event table: %w", err)
	}

	return events, nil
}
