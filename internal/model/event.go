package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/localday"
)

// EventType classifies a portfolio event. Only buy and sell carry accounting
// semantics in the valuation engine; the remaining kinds are recorded but
// treated as explicit no-ops until a treatment is decided.
type EventType string

// Wire-visible event type values.
const (
	EventBuy        EventType = "buy"
	EventSell       EventType = "sell"
	EventConvert    EventType = "convert"
	EventSend       EventType = "send"
	EventReceive    EventType = "receive"
	EventReward     EventType = "reward"
	EventAdjustment EventType = "adjustment"
)

// ValidEventTypes enumerates every accepted event type value.
var ValidEventTypes = map[EventType]bool{
	EventBuy:        true,
	EventSell:       true,
	EventConvert:    true,
	EventSend:       true,
	EventReceive:    true,
	EventReward:     true,
	EventAdjustment: true,
}

// PortfolioEvent is a single append-only trade record for an asset portfolio.
// Value is the total notional of the event (total paid or received), not a
// unit price. LocalDay is derived from TimestampUTC in the configured
// timezone when the record is assembled for calculation.
type PortfolioEvent struct {
	AssetPortfolioID string          `json:"assetPortfolioID"`
	Pair             string          `json:"pair"`
	TimestampUTC     time.Time       `json:"datetime_utc"`
	LocalDay         localday.Day    `json:"-"`
	Event            EventType       `json:"event"`
	Quantity         decimal.Decimal `json:"quantity"`
	Value            decimal.Decimal `json:"value"`
	OrderID          string          `json:"orderID,omitempty"`
}
