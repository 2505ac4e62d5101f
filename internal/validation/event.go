package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/request"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
)

// ValidateRecordEvent validates an event recording request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - assetPortfolioID: Must be a valid UUID
//   - pair: Must be non-empty
//   - datetime_utc: Must be an RFC 3339 timestamp
//   - event: Must be a known event type
//   - quantity: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateRecordEvent(req request.RecordEventRequest) error {
	if err := ValidateUUID(req.AssetPortfolioID); err != nil {
		return err
	}

	errors := make(map[string]string)

	if strings.TrimSpace(req.Pair) == "" {
		errors["pair"] = "pair is required"
	}

	if strings.TrimSpace(req.DatetimeUTC) == "" {
		errors["datetime_utc"] = "datetime_utc is required"
	} else if _, err := time.Parse(time.RFC3339, req.DatetimeUTC); err != nil {
		errors["datetime_utc"] = err.Error()
	}

	if strings.TrimSpace(req.Event) == "" {
		errors["event"] = "event is required"
	} else if !model.ValidEventTypes[model.EventType(req.Event)] {
		errors["event"] = fmt.Sprintf("invalid event: %s", req.Event)
	}

	if !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
