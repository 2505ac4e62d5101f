package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/repository"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/service"
)

// TestLocation returns the valuation timezone used across the test suite.
func TestLocation(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Fatalf("Failed to load test timezone: %v", err)
	}
	return loc
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)

	return service.NewPortfolioService(portfolioRepo)
}

func NewTestMarketDataService(t *testing.T, db *sql.DB) *service.MarketDataService {
	t.Helper()

	priceRepo := repository.NewPriceRepository(db)
	eventRepo := repository.NewEventRepository(db)

	return service.NewMarketDataService(priceRepo, eventRepo)
}

func NewTestRawDataService(t *testing.T, db *sql.DB) *service.RawDataService {
	t.Helper()

	priceRepo := repository.NewPriceRepository(db)
	eventRepo := repository.NewEventRepository(db)

	return service.NewRawDataService(priceRepo, eventRepo, TestLocation(t))
}

func NewTestSummaryService(t *testing.T, db *sql.DB) *service.SummaryService {
	t.Helper()

	summaryRepo := repository.NewSummaryRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)

	return service.NewSummaryService(summaryRepo, portfolioRepo, TestLocation(t))
}

func NewTestGenerationService(t *testing.T, db *sql.DB) *service.GenerationService {
	t.Helper()

	portfolioRepo := repository.NewPortfolioRepository(db)

	return service.NewGenerationService(
		portfolioRepo,
		NewTestRawDataService(t, db),
		service.NewValuationEngine(TestLocation(t)),
		NewTestSummaryService(t, db),
		TestLocation(t),
		2,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}
