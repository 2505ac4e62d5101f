package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/apperrors"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/localday"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/repository"
)

// SummaryService owns the stored daily_summary series: the idempotent
// replace step of a generation run, and the read path behind the query
// endpoint.
type SummaryService struct {
	summaryRepo   *repository.SummaryRepository
	portfolioRepo *repository.PortfolioRepository
	location      *time.Location
}

// NewSummaryService creates a new SummaryService with the provided dependencies.
func NewSummaryService(
	summaryRepo *repository.SummaryRepository,
	portfolioRepo *repository.PortfolioRepository,
	location *time.Location,
) *SummaryService {
	return &SummaryService{
		summaryRepo:   summaryRepo,
		portfolioRepo: portfolioRepo,
		location:      location,
	}
}

// Replace deletes every stored summary for the portfolio and writes the newly
// computed sequence, so repeated runs against unchanged inputs converge to
// the same stored state.
//
// The two steps are separate statements: a delete failure aborts before
// anything is written (stale-but-consistent data is preferred over a partial
// mix), while a write failure can leave the range empty or partial; the next
// successful run repairs it. Callers serialize runs per portfolio, see
// GenerationService.
func (s *SummaryService) Replace(assetPortfolioID string, summaries []model.DailySummary) error {
	if err := s.summaryRepo.DeleteByPortfolio(assetPortfolioID); err != nil {
		return fmt.Errorf("aborting before write, failed to delete old summaries for %s: %w", assetPortfolioID, err)
	}

	if err := s.summaryRepo.WriteSummaries(summaries); err != nil {
		return fmt.Errorf("failed to write %d summaries for %s: %w", len(summaries), assetPortfolioID, err)
	}

	return nil
}

// QuerySummaries retrieves stored summaries for each requested portfolio,
// filtered to the local days covered by the UTC range. Portfolios that do not
// exist or belong to another user are reported per-item instead of failing
// the whole request.
func (s *SummaryService) QuerySummaries(cpmID string, assetPortfolioIDs []string, startUTC, endUTC time.Time) ([]model.PortfolioSummaryResult, error) {
	startDay := localday.FromTime(startUTC, s.location)
	endDay := localday.FromTime(endUTC, s.location)

	results := []model.PortfolioSummaryResult{}
	for _, id := range assetPortfolioIDs {
		result := model.PortfolioSummaryResult{
			CpmID:            cpmID,
			AssetPortfolioID: id,
			StartDay:         startDay,
			EndDay:           endDay,
		}

		portfolio, err := s.portfolioRepo.GetAssetPortfolio(id)
		switch {
		case errors.Is(err, apperrors.ErrAssetPortfolioNotFound):
			result.Error = "portfolio not found"
			results = append(results, result)
			continue
		case err != nil:
			return nil, fmt.Errorf("failed to resolve portfolio %s: %w", id, err)
		case portfolio.CpmID != cpmID:
			result.Error = "portfolio not found for this user"
			results = append(results, result)
			continue
		}

		result.Pair = portfolio.Pair
		result.Status = portfolio.Status

		summaries, err := s.summaryRepo.GetSummaries(id, startDay, endDay)
		if err != nil {
			log.Printf("Error querying summaries for portfolio %s: %v", id, err)
			result.Error = "error retrieving summary data"
			results = append(results, result)
			continue
		}

		result.Summaries = summaries
		results = append(results, result)
	}

	return results, nil
}
