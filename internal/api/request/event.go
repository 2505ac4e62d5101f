package request

import "github.com/shopspring/decimal"

// RecordEventRequest records one portfolio event. TotalValue is the total
// notional of the event (total paid or received), not a unit price.
type RecordEventRequest struct {
	AssetPortfolioID string          `json:"assetPortfolioID"`
	OrderID          string          `json:"orderID,omitempty"`
	Pair             string          `json:"pair"`
	DatetimeUTC      string          `json:"datetime_utc"`
	Event            string          `json:"event"`
	Quantity         decimal.Decimal `json:"quantity"`
	TotalValue       decimal.Decimal `json:"totalValue"`
}
