package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/localday"
)

// PricePoint is one market price observation for a pair. Points are
// append-only and carry no uniqueness constraint: several points may share an
// instant, and only the latest point at or before a cutoff matters for
// valuation. LocalDay is derived from TimestampUTC during assembly.
type PricePoint struct {
	Pair         string          `json:"pair"`
	TimestampUTC time.Time       `json:"datetime_utc"`
	LocalDay     localday.Day    `json:"-"`
	Price        decimal.Decimal `json:"price"`
}
