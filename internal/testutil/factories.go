package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/repository"
)

// CombinedPortfolioBuilder provides a fluent interface for creating test
// combined portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	combined := testutil.NewCombinedPortfolio().Build(t, db)
//
//	// Customized portfolio
//	combined := testutil.NewCombinedPortfolio().
//	    WithCpmID(cpmID).
//	    Closed().
//	    Build(t, db)
type CombinedPortfolioBuilder struct {
	ID     string
	CpmID  string
	Status model.PortfolioStatus
}

// NewCombinedPortfolio creates a CombinedPortfolioBuilder with sensible defaults.
func NewCombinedPortfolio() *CombinedPortfolioBuilder {
	return &CombinedPortfolioBuilder{
		ID:     MakeID(),
		CpmID:  MakeID(),
		Status: model.PortfolioStatusActive,
	}
}

// WithID sets a custom ID.
func (b *CombinedPortfolioBuilder) WithID(id string) *CombinedPortfolioBuilder {
	b.ID = id
	return b
}

// WithCpmID sets a custom owner ID.
func (b *CombinedPortfolioBuilder) WithCpmID(cpmID string) *CombinedPortfolioBuilder {
	b.CpmID = cpmID
	return b
}

// Closed marks the portfolio as closed.
func (b *CombinedPortfolioBuilder) Closed() *CombinedPortfolioBuilder {
	b.Status = model.PortfolioStatusClosed
	return b
}

// Build inserts the combined portfolio and returns the model.
func (b *CombinedPortfolioBuilder) Build(t *testing.T, db *sql.DB) model.CombinedPortfolio {
	t.Helper()

	query := `
		INSERT INTO combined_portfolio (id, cpm_id, status)
		VALUES (?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.CpmID, string(b.Status))
	if err != nil {
		t.Fatalf("Failed to create test combined portfolio: %v", err)
	}

	return model.CombinedPortfolio{
		ID:     b.ID,
		CpmID:  b.CpmID,
		Status: b.Status,
	}
}

// AssetPortfolioBuilder provides a fluent interface for creating test asset
// portfolios. Build creates the owning combined portfolio automatically when
// one does not exist yet.
type AssetPortfolioBuilder struct {
	ID     string
	CpmID  string
	Pair   string
	Status model.PortfolioStatus
}

// NewAssetPortfolio creates an AssetPortfolioBuilder with sensible defaults.
func NewAssetPortfolio() *AssetPortfolioBuilder {
	return &AssetPortfolioBuilder{
		ID:     MakeID(),
		CpmID:  MakeID(),
		Pair:   "BTC-USDT",
		Status: model.PortfolioStatusActive,
	}
}

// WithID sets a custom ID.
func (b *AssetPortfolioBuilder) WithID(id string) *AssetPortfolioBuilder {
	b.ID = id
	return b
}

// WithCpmID sets a custom owner ID.
func (b *AssetPortfolioBuilder) WithCpmID(cpmID string) *AssetPortfolioBuilder {
	b.CpmID = cpmID
	return b
}

// WithPair sets a custom trading pair.
func (b *AssetPortfolioBuilder) WithPair(pair string) *AssetPortfolioBuilder {
	b.Pair = pair
	return b
}

// Closed marks the portfolio as closed.
func (b *AssetPortfolioBuilder) Closed() *AssetPortfolioBuilder {
	b.Status = model.PortfolioStatusClosed
	return b
}

// Build inserts the asset portfolio and returns the model.
func (b *AssetPortfolioBuilder) Build(t *testing.T, db *sql.DB) model.AssetPortfolio {
	t.Helper()

	// The schema requires an owning combined portfolio per cpm_id.
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM combined_portfolio WHERE cpm_id = ?", b.CpmID).Scan(&exists)
	if err != nil {
		t.Fatalf("Failed to check combined portfolio: %v", err)
	}
	if exists == 0 {
		NewCombinedPortfolio().WithCpmID(b.CpmID).Build(t, db)
	}

	query := `
		INSERT INTO asset_portfolio (id, cpm_id, pair, status)
		VALUES (?, ?, ?, ?)
	`

	_, err = db.Exec(query, b.ID, b.CpmID, b.Pair, string(b.Status))
	if err != nil {
		t.Fatalf("Failed to create test asset portfolio: %v", err)
	}

	return model.AssetPortfolio{
		ID:     b.ID,
		CpmID:  b.CpmID,
		Pair:   b.Pair,
		Status: b.Status,
	}
}

// PricePointBuilder provides a fluent interface for creating test price points.
type PricePointBuilder struct {
	ID           string
	Pair         string
	TimestampUTC time.Time
	Price        decimal.Decimal
}

// NewPricePoint creates a PricePointBuilder with sensible defaults.
func NewPricePoint() *PricePointBuilder {
	return &PricePointBuilder{
		ID:           MakeID(),
		Pair:         "BTC-USDT",
		TimestampUTC: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		Price:        decimal.NewFromInt(100),
	}
}

// WithPair sets a custom trading pair.
func (b *PricePointBuilder) WithPair(pair string) *PricePointBuilder {
	b.Pair = pair
	return b
}

// WithTimestamp sets a custom UTC timestamp.
func (b *PricePointBuilder) WithTimestamp(ts time.Time) *PricePointBuilder {
	b.TimestampUTC = ts
	return b
}

// WithPrice sets a custom price.
func (b *PricePointBuilder) WithPrice(price decimal.Decimal) *PricePointBuilder {
	b.Price = price
	return b
}

// Build inserts the price point and returns the model.
func (b *PricePointBuilder) Build(t *testing.T, db *sql.DB) model.PricePoint {
	t.Helper()

	query := `
		INSERT INTO price_point (id, pair, timestamp_utc, price)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Pair, repository.FormatTimestamp(b.TimestampUTC), b.Price.String())
	if err != nil {
		t.Fatalf("Failed to create test price point: %v", err)
	}

	return model.PricePoint{
		Pair:         b.Pair,
		TimestampUTC: b.TimestampUTC.UTC(),
		Price:        b.Price,
	}
}

// PortfolioEventBuilder provides a fluent interface for creating test
// portfolio events.
type PortfolioEventBuilder struct {
	ID               string
	AssetPortfolioID string
	Pair             string
	TimestampUTC     time.Time
	Event            model.EventType
	Quantity         decimal.Decimal
	Value            decimal.Decimal
	OrderID          string
}

// NewPortfolioEvent creates a PortfolioEventBuilder with sensible defaults.
// A buy of 1 unit for a total of 100.
func NewPortfolioEvent(assetPortfolioID string) *PortfolioEventBuilder {
	return &PortfolioEventBuilder{
		ID:               MakeID(),
		AssetPortfolioID: assetPortfolioID,
		Pair:             "BTC-USDT",
		TimestampUTC:     time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		Event:            model.EventBuy,
		Quantity:         decimal.NewFromInt(1),
		Value:            decimal.NewFromInt(100),
	}
}

// WithPair sets a custom trading pair.
func (b *PortfolioEventBuilder) WithPair(pair string) *PortfolioEventBuilder {
	b.Pair = pair
	return b
}

// WithTimestamp sets a custom UTC timestamp.
func (b *PortfolioEventBuilder) WithTimestamp(ts time.Time) *PortfolioEventBuilder {
	b.TimestampUTC = ts
	return b
}

// WithEvent sets a custom event type.
func (b *PortfolioEventBuilder) WithEvent(event model.EventType) *PortfolioEventBuilder {
	b.Event = event
	return b
}

// WithQuantity sets a custom quantity.
func (b *PortfolioEventBuilder) WithQuantity(quantity decimal.Decimal) *PortfolioEventBuilder {
	b.Quantity = quantity
	return b
}

// WithValue sets a custom total notional value.
func (b *PortfolioEventBuilder) WithValue(value decimal.Decimal) *PortfolioEventBuilder {
	b.Value = value
	return b
}

// WithOrderID sets a custom order reference.
func (b *PortfolioEventBuilder) WithOrderID(orderID string) *PortfolioEventBuilder {
	b.OrderID = orderID
	return b
}

// Build inserts the portfolio event and returns the model.
func (b *PortfolioEventBuilder) Build(t *testing.T, db *sql.DB) model.PortfolioEvent {
	t.Helper()

	query := `
		INSERT INTO portfolio_event (id, asset_portfolio_id, pair, timestamp_utc, event, quantity, value, order_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var orderID interface{}
	if b.OrderID != "" {
		orderID = b.OrderID
	}

	_, err := db.Exec(query,
		b.ID,
		b.AssetPortfolioID,
		b.Pair,
		repository.FormatTimestamp(b.TimestampUTC),
		string(b.Event),
		b.Quantity.String(),
		b.Value.String(),
		orderID,
	)
	if err != nil {
		t.Fatalf("Failed to create test portfolio event: %v", err)
	}

	return model.PortfolioEvent{
		AssetPortfolioID: b.AssetPortfolioID,
		Pair:             b.Pair,
		TimestampUTC:     b.TimestampUTC.UTC(),
		Event:            b.Event,
		Quantity:         b.Quantity,
		Value:            b.Value,
		OrderID:          b.OrderID,
	}
}
