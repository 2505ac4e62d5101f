package validation

import (
	"strings"
	"time"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/request"
)

// ValidateRecordPrice validates a price recording request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - pair: Must be non-empty
//   - datetime_utc: Must be an RFC 3339 timestamp
//   - price: Must be non-negative
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateRecordPrice(req request.RecordPriceRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Pair) == "" {
		errors["pair"] = "pair is required"
	}

	if strings.TrimSpace(req.DatetimeUTC) == "" {
		errors["datetime_utc"] = "datetime_utc is required"
	} else if _, err := time.Parse(time.RFC3339, req.DatetimeUTC); err != nil {
		errors["datetime_utc"] = err.Error()
	}

	if req.Price.IsNegative() {
		errors["price"] = "price must be non-negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
