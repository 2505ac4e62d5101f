package model

import (
	"github.com/shopspring/decimal"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/localday"
)

// DailySummary is one day's computed portfolio state. It is a derived record:
// the generation run deletes and rewrites the full sequence for a portfolio,
// so a stored summary is never patched in place.
//
// UnrealizedValue is absent (Valid == false) when the portfolio holds nothing
// on that day or no market price has ever been observed; zero is a legitimate
// price and is kept distinct from "no price known".
type DailySummary struct {
	CpmID            string              `json:"cpmID"`
	AssetPortfolioID string              `json:"assetPortfolioID"`
	Pair             string              `json:"pair"`
	Day              localday.Day        `json:"date"`
	AUM              decimal.Decimal     `json:"aum"`
	AvgCost          decimal.Decimal     `json:"avgCost"`
	RealizedValue    decimal.Decimal     `json:"realizedValue"`
	UnrealizedValue  decimal.NullDecimal `json:"unrealizedValue"`
}

// PortfolioSummaryResult is one portfolio's slice of the query response.
// Error is set instead of Summaries when the portfolio could not be resolved
// for the requesting user; other portfolios in the same request still return.
type PortfolioSummaryResult struct {
	CpmID            string          `json:"cpmID"`
	AssetPortfolioID string          `json:"assetPortfolioID"`
	Pair             string          `json:"pair,omitempty"`
	Status           PortfolioStatus `json:"status,omitempty"`
	StartDay         localday.Day    `json:"startDate"`
	EndDay           localday.Day    `json:"endDate"`
	Summaries        []DailySummary  `json:"portfolio,omitempty"`
	Error            string          `json:"error,omitempty"`
}
