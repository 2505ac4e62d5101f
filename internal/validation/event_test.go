package validation_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/request"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/validation"
)

func validEventRequest() request.RecordEventRequest {
	return request.RecordEventRequest{
		AssetPortfolioID: "550e8400-e29b-41d4-a716-446655440000",
		Pair:             "BTC-USDT",
		DatetimeUTC:      "2024-01-15T12:00:00Z",
		Event:            "buy",
		Quantity:         decimal.NewFromInt(10),
		TotalValue:       decimal.NewFromInt(1000),
	}
}

func TestValidateRecordEvent(t *testing.T) {
	t.Run("accepts a valid request", func(t *testing.T) {
		if err := validation.ValidateRecordEvent(validEventRequest()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*request.RecordEventRequest)
		}{
			{"non-UUID portfolio ID", func(r *request.RecordEventRequest) { r.AssetPortfolioID = "nope" }},
			{"empty pair", func(r *request.RecordEventRequest) { r.Pair = " " }},
			{"bad timestamp", func(r *request.RecordEventRequest) { r.DatetimeUTC = "2024-01-15" }},
			{"unknown event type", func(r *request.RecordEventRequest) { r.Event = "short" }},
			{"zero quantity", func(r *request.RecordEventRequest) { r.Quantity = decimal.Zero }},
			{"negative quantity", func(r *request.RecordEventRequest) { r.Quantity = decimal.NewFromInt(-1) }},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validEventRequest()
				tc.mutate(&req)
				if err := validation.ValidateRecordEvent(req); err == nil {
					t.Error("Expected validation error, got nil")
				}
			})
		}
	})
}

func TestValidateQuery(t *testing.T) {
	valid := request.QueryRequest{
		CpmID:             "550e8400-e29b-41d4-a716-446655440000",
		AssetPortfolioIDs: []string{"650e8400-e29b-41d4-a716-446655440000"},
		StartDatetimeUTC:  "2024-01-15T00:00:00Z",
		EndDatetimeUTC:    "2024-01-17T00:00:00Z",
	}

	t.Run("accepts a valid request", func(t *testing.T) {
		if err := validation.ValidateQuery(valid); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		req := valid
		req.StartDatetimeUTC, req.EndDatetimeUTC = req.EndDatetimeUTC, req.StartDatetimeUTC
		if err := validation.ValidateQuery(req); err == nil {
			t.Error("Expected validation error, got nil")
		}
	})

	t.Run("accepts an equal start and end", func(t *testing.T) {
		req := valid
		req.EndDatetimeUTC = req.StartDatetimeUTC
		if err := validation.ValidateQuery(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("rejects an empty portfolio list", func(t *testing.T) {
		req := valid
		req.AssetPortfolioIDs = nil
		if err := validation.ValidateQuery(req); err == nil {
			t.Error("Expected validation error, got nil")
		}
	})
}
