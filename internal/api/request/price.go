package request

import "github.com/shopspring/decimal"

// RecordPriceRequest records one market price observation.
// DatetimeUTC is an RFC 3339 timestamp; the price feed stamps in UTC.
type RecordPriceRequest struct {
	Pair        string          `json:"pair"`
	DatetimeUTC string          `json:"datetime_utc"`
	Price       decimal.Decimal `json:"price"`
}
