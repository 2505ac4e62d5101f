package handlers

import (
	"net/http"
	"time"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/request"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/response"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/apperrors"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/service"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/validation"
)

// MarketDataHandler handles HTTP requests for the raw data ingest endpoints:
// market prices and portfolio events.
type MarketDataHandler struct {
	marketDataService *service.MarketDataService
}

// NewMarketDataHandler creates a new MarketDataHandler with the provided service dependency.
func NewMarketDataHandler(marketDataService *service.MarketDataService) *MarketDataHandler {
	return &MarketDataHandler{
		marketDataService: marketDataService,
	}
}

// RecordPrice handles POST requests to append one market price observation.
//
// Endpoint: POST /api/price
// Request Body: RecordPriceRequest
// Response: 201 Created with the stored price point
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the write fails
func (h *MarketDataHandler) RecordPrice(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RecordPriceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRecordPrice(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	timestamp, err := time.Parse(time.RFC3339, req.DatetimeUTC)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	point := model.PricePoint{
		Pair:         req.Pair,
		TimestampUTC: timestamp.UTC(),
		Price:        req.Price,
	}
	if err := h.marketDataService.RecordPrice(point); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRecordPrice.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, point)
}

// RecordEvent handles POST requests to append one portfolio event.
//
// Endpoint: POST /api/event
// Request Body: RecordEventRequest
// Response: 201 Created with the stored event
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the write fails
func (h *MarketDataHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RecordEventRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRecordEvent(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	timestamp, err := time.Parse(time.RFC3339, req.DatetimeUTC)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	event := model.PortfolioEvent{
		AssetPortfolioID: req.AssetPortfolioID,
		Pair:             req.Pair,
		TimestampUTC:     timestamp.UTC(),
		Event:            model.EventType(req.Event),
		Quantity:         req.Quantity,
		Value:            req.TotalValue,
		OrderID:          req.OrderID,
	}
	if err := h.marketDataService.RecordEvent(event); err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRecordEvent.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, event)
}
