package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/apperrors"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/repository"
)

// PortfolioService handles portfolio metadata management: creating the
// combined portfolio for a user, creating asset portfolios under it, and
// listing what a user owns.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(portfolioRepo *repository.PortfolioRepository) *PortfolioService {
	return &PortfolioService{portfolioRepo: portfolioRepo}
}

// PortfolioListing is a user's portfolios grouped for the list endpoint.
type PortfolioListing struct {
	CpmID             string                          `json:"cpmID"`
	CombinedPortfolio *model.PortfolioInfo            `json:"combinedPortfolio"`
	AssetPortfolios   map[string][]model.PortfolioInfo `json:"assetPortfolio"`
}

// CreateCombinedPortfolio creates the combined portfolio for a user.
// Idempotent: if one already exists its ID is returned unchanged.
func (s *PortfolioService) CreateCombinedPortfolio(cpmID string) (model.CombinedPortfolio, error) {
	existing, err := s.portfolioRepo.GetCombinedPortfolio(cpmID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrCombinedPortfolioNotFound) {
		return model.CombinedPortfolio{}, fmt.Errorf("failed to check existing combined portfolio: %w", err)
	}

	portfolio := model.CombinedPortfolio{
		ID:     uuid.NewString(),
		CpmID:  cpmID,
		Status: model.PortfolioStatusActive,
	}
	if err := s.portfolioRepo.CreateCombinedPortfolio(portfolio); err != nil {
		return model.CombinedPortfolio{}, err
	}

	return portfolio, nil
}

// CreateAssetPortfolios creates one active asset portfolio per requested pair
// for the user. The user must have a combined portfolio first; without one
// apperrors.ErrMissingCombinedPortfolio is returned.
func (s *PortfolioService) CreateAssetPortfolios(cpmID string, pairs []string) ([]model.AssetPortfolio, error) {
	if _, err := s.portfolioRepo.GetCombinedPortfolio(cpmID); err != nil {
		if errors.Is(err, apperrors.ErrCombinedPortfolioNotFound) {
			return nil, apperrors.ErrMissingCombinedPortfolio
		}
		return nil, fmt.Errorf("failed to check combined portfolio: %w", err)
	}

	created := make([]model.AssetPortfolio, 0, len(pairs))
	for _, pair := range pairs {
		portfolio := model.AssetPortfolio{
			ID:     uuid.NewString(),
			CpmID:  cpmID,
			Pair:   pair,
			Status: model.PortfolioStatusActive,
		}
		if err := s.portfolioRepo.CreateAssetPortfolio(portfolio); err != nil {
			return nil, fmt.Errorf("failed to create asset portfolio for pair %s: %w", pair, err)
		}
		created = append(created, portfolio)
	}

	return created, nil
}

// ListPortfolios retrieves a user's combined portfolio and asset portfolios
// grouped by pair. A user with no combined portfolio gets a nil combined
// entry, not an error.
func (s *PortfolioService) ListPortfolios(cpmID string) (PortfolioListing, error) {
	listing := PortfolioListing{
		CpmID:           cpmID,
		AssetPortfolios: make(map[string][]model.PortfolioInfo),
	}

	combined, err := s.portfolioRepo.GetCombinedPortfolio(cpmID)
	if err == nil {
		listing.CombinedPortfolio = &model.PortfolioInfo{ID: combined.ID, Status: combined.Status}
	} else if !errors.Is(err, apperrors.ErrCombinedPortfolioNotFound) {
		return PortfolioListing{}, fmt.Errorf("failed to retrieve combined portfolio: %w", err)
	}

	assets, err := s.portfolioRepo.GetAssetPortfoliosByCpmID(cpmID)
	if err != nil {
		return PortfolioListing{}, fmt.Errorf("failed to retrieve asset portfolios: %w", err)
	}

	for _, asset := range assets {
		listing.AssetPortfolios[asset.Pair] = append(listing.AssetPortfolios[asset.Pair], model.PortfolioInfo{
			ID:     asset.ID,
			Status: asset.Status,
		})
	}

	return listing, nil
}
