package validation

import (
	"strings"
	"time"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/request"
)

// ValidateQuery validates a summary query request.
// Checks the owner ID, the asset portfolio IDs, and the UTC time range.
// The range is inclusive and start must not be after end.
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateQuery(req request.QueryRequest) error {
	if err := ValidateUUID(req.CpmID); err != nil {
		return err
	}
	if err := ValidateUUIDs(req.AssetPortfolioIDs); err != nil {
		return err
	}

	errors := make(map[string]string)

	var start, end time.Time
	var startErr, endErr error

	if strings.TrimSpace(req.StartDatetimeUTC) == "" {
		errors["start_datetime_utc"] = "start_datetime_utc is required"
	} else if start, startErr = time.Parse(time.RFC3339, req.StartDatetimeUTC); startErr != nil {
		errors["start_datetime_utc"] = startErr.Error()
	}

	if strings.TrimSpace(req.EndDatetimeUTC) == "" {
		errors["end_datetime_utc"] = "end_datetime_utc is required"
	} else if end, endErr = time.Parse(time.RFC3339, req.EndDatetimeUTC); endErr != nil {
		errors["end_datetime_utc"] = endErr.Error()
	}

	if len(errors) == 0 && start.After(end) {
		errors["start_datetime_utc"] = "start must not be after end"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
