package handlers

import (
	"errors"
	"net/http"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/request"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/response"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/apperrors"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/service"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/validation"
)

// PortfolioHandler handles HTTP requests for portfolio metadata endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the portfolioService.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// List handles POST requests to retrieve every portfolio a user owns,
// grouped by trading pair.
//
// Endpoint: POST /api/portfolio/list
// Request Body: ListPortfoliosRequest
// Response: 200 OK with PortfolioListing
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ListPortfoliosRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateListPortfolios(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	listing, err := h.portfolioService.ListPortfolios(req.CpmID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolios.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, listing)
}

// CombinedPortfolioResponse represents a created combined portfolio
type CombinedPortfolioResponse struct {
	ID     string `json:"combinedPortfolioID"`
	CpmID  string `json:"cpmID"`
	Status string `json:"status"`
}

// CreateCombined handles POST requests to create the combined portfolio for
// a user. Creation is idempotent: a second call returns the existing one.
//
// Endpoint: POST /api/portfolio/combined
// Request Body: CreateCombinedPortfolioRequest
// Response: 201 Created with CombinedPortfolioResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *PortfolioHandler) CreateCombined(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateCombinedPortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateCombinedPortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreateCombinedPortfolio(req.CpmID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreatePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, CombinedPortfolioResponse{
		ID:     portfolio.ID,
		CpmID:  portfolio.CpmID,
		Status: string(portfolio.Status),
	})
}

// AssetPortfolioResponse represents one created asset portfolio
type AssetPortfolioResponse struct {
	ID     string `json:"assetPortfolioID"`
	Pair   string `json:"pair"`
	Status string `json:"status"`
}

// CreateAsset handles POST requests to create one asset portfolio per
// requested pair. The user must already have a combined portfolio.
//
// Endpoint: POST /api/portfolio/asset
// Request Body: CreateAssetPortfolioRequest
// Response: 201 Created with array of AssetPortfolioResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if the user has no combined portfolio
// Error: 500 Internal Server Error if creation fails
func (h *PortfolioHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAssetPortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAssetPortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolios, err := h.portfolioService.CreateAssetPortfolios(req.CpmID, req.Pairs)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingCombinedPortfolio) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrMissingCombinedPortfolio.Error(), "create the combined portfolio first")
			return
		}

		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreatePortfolio.Error(), err.Error())
		return
	}

	created := make([]AssetPortfolioResponse, len(portfolios))
	for i, p := range portfolios {
		created[i] = AssetPortfolioResponse{
			ID:     p.ID,
			Pair:   p.Pair,
			Status: string(p.Status),
		}
	}

	response.RespondJSON(w, http.StatusCreated, created)
}
