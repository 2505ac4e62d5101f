package handlers

import (
	"net/http"
	"time"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/request"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/response"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/apperrors"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/service"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/validation"
)

// SummaryHandler handles HTTP requests for summary generation and retrieval.
type SummaryHandler struct {
	generationService *service.GenerationService
	summaryService    *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler with the provided service dependencies.
func NewSummaryHandler(
	generationService *service.GenerationService,
	summaryService *service.SummaryService,
) *SummaryHandler {
	return &SummaryHandler{
		generationService: generationService,
		summaryService:    summaryService,
	}
}

// Generate handles POST requests to trigger background summary generation
// for a batch of asset portfolios. The response reports which IDs were
// accepted for processing; the work itself runs in the background.
//
// Endpoint: POST /api/portfolio/generate
// Request Body: GenerateRequest
// Response: 202 Accepted with GenerateResult
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if portfolio metadata cannot be resolved
func (h *SummaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.GenerateRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateGenerate(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.generationService.Generate(req.AssetPortfolioIDs)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToResolveMetadata.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusAccepted, result)
}

// Query handles POST requests to retrieve stored daily summaries for a batch
// of asset portfolios within an inclusive UTC time range. Per-portfolio
// failures are reported inside the result items, not as a request failure.
//
// Endpoint: POST /api/portfolio/query
// Request Body: QueryRequest
// Response: 200 OK with array of PortfolioSummaryResult
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if portfolio metadata cannot be resolved
func (h *SummaryHandler) Query(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.QueryRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateQuery(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	startUTC, err := time.Parse(time.RFC3339, req.StartDatetimeUTC)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	endUTC, err := time.Parse(time.RFC3339, req.EndDatetimeUTC)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	results, err := h.summaryService.QuerySummaries(req.CpmID, req.AssetPortfolioIDs, startUTC.UTC(), endUTC.UTC())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSummaries.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, results)
}
