package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/localday"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/testutil"
)

func makeSummaries(portfolio model.AssetPortfolio, days ...string) []model.DailySummary {
	summaries := make([]model.DailySummary, len(days))
	for i, day := range days {
		summaries[i] = model.DailySummary{
			CpmID:            portfolio.CpmID,
			AssetPortfolioID: portfolio.ID,
			Pair:             portfolio.Pair,
			Day:              localday.MustParse(day),
			AUM:              decimal.NewFromInt(10),
			AvgCost:          decimal.NewFromInt(100),
			RealizedValue:    decimal.Zero,
		}
	}
	return summaries
}

// TestSummaryService_Replace tests the delete-then-write persistence step.
//
// WHY: Stored summaries are derived data, replaced wholesale on every run.
// Rewriting must remove rows the new computation no longer produces, and
// repeated runs with the same input must converge to the same stored state.
func TestSummaryService_Replace(t *testing.T) {
	t.Run("replaces the entire stored range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSummaryService(t, db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		wide := makeSummaries(portfolio, "2024-01-15", "2024-01-16", "2024-01-17")
		if err := svc.Replace(portfolio.ID, wide); err != nil {
			t.Fatalf("First replace failed: %v", err)
		}
		testutil.AssertRowCount(t, db, "daily_summary", 3)

		// A narrower recomputation must not leave stale trailing days behind.
		narrow := makeSummaries(portfolio, "2024-01-15", "2024-01-16")
		if err := svc.Replace(portfolio.ID, narrow); err != nil {
			t.Fatalf("Second replace failed: %v", err)
		}
		testutil.AssertRowCount(t, db, "daily_summary", 2)
	})

	t.Run("is idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSummaryService(t, db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		summaries := makeSummaries(portfolio, "2024-01-15", "2024-01-16")
		for i := 0; i < 3; i++ {
			if err := svc.Replace(portfolio.ID, summaries); err != nil {
				t.Fatalf("Replace run %d failed: %v", i+1, err)
			}
		}
		testutil.AssertRowCount(t, db, "daily_summary", 2)
	})

	t.Run("only touches the target portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSummaryService(t, db)
		first := testutil.NewAssetPortfolio().Build(t, db)
		second := testutil.NewAssetPortfolio().Build(t, db)

		if err := svc.Replace(first.ID, makeSummaries(first, "2024-01-15")); err != nil {
			t.Fatalf("Replace for first portfolio failed: %v", err)
		}
		if err := svc.Replace(second.ID, makeSummaries(second, "2024-01-15", "2024-01-16")); err != nil {
			t.Fatalf("Replace for second portfolio failed: %v", err)
		}

		// Replacing the first again must leave the second's rows alone.
		if err := svc.Replace(first.ID, makeSummaries(first, "2024-01-16")); err != nil {
			t.Fatalf("Second replace for first portfolio failed: %v", err)
		}
		testutil.AssertRowCount(t, db, "daily_summary", 3)
	})
}

// TestSummaryService_QuerySummaries tests the read path.
//
// WHY: The query endpoint serves batches and must degrade per item: unknown
// portfolios and portfolios of other users are reported inside their result
// entry while valid entries still return data.
func TestSummaryService_QuerySummaries(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)

	t.Run("returns stored summaries within the range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSummaryService(t, db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		stored := makeSummaries(portfolio, "2024-01-14", "2024-01-15", "2024-01-16", "2024-01-17", "2024-01-18")
		if err := svc.Replace(portfolio.ID, stored); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}

		results, err := svc.QuerySummaries(portfolio.CpmID, []string{portfolio.ID}, start, end)
		if err != nil {
			t.Fatalf("QuerySummaries failed: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}

		result := results[0]
		if result.Error != "" {
			t.Fatalf("Expected no per-item error, got %q", result.Error)
		}
		// 2024-01-15 00:00 UTC is already 01-15 in Manila; 01-17 00:00 UTC is
		// 01-17 08:00 local, so three local days fall inside the range.
		if len(result.Summaries) != 3 {
			t.Errorf("Expected 3 summaries in range, got %d", len(result.Summaries))
		}
	})

	t.Run("reports unknown portfolios per item", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSummaryService(t, db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		if err := svc.Replace(portfolio.ID, makeSummaries(portfolio, "2024-01-15")); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}

		unknown := testutil.MakeID()
		results, err := svc.QuerySummaries(portfolio.CpmID, []string{portfolio.ID, unknown}, start, end)
		if err != nil {
			t.Fatalf("QuerySummaries failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}

		if results[0].Error != "" {
			t.Errorf("Expected valid entry to succeed, got error %q", results[0].Error)
		}
		if results[1].Error == "" {
			t.Error("Expected per-item error for unknown portfolio")
		}
	})

	t.Run("rejects portfolios of other users per item", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSummaryService(t, db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		otherUser := testutil.MakeID()
		testutil.NewCombinedPortfolio().WithCpmID(otherUser).Build(t, db)

		results, err := svc.QuerySummaries(otherUser, []string{portfolio.ID}, start, end)
		if err != nil {
			t.Fatalf("QuerySummaries failed: %v", err)
		}
		if len(results) != 1 || results[0].Error == "" {
			t.Error("Expected per-item error for another user's portfolio")
		}
		if len(results[0].Summaries) != 0 {
			t.Error("Expected no summary data for another user's portfolio")
		}
	})
}
