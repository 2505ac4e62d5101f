package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/testutil"
)

// TestGenerationService_Generate tests batch dispatch resolution.
//
// WHY: The generate endpoint answers synchronously with which portfolios were
// accepted for background work. Unknown and closed portfolios must be
// rejected individually without failing the rest of the batch.
func TestGenerationService_Generate(t *testing.T) {
	t.Run("accepts active portfolios and rejects the rest", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)

		active := testutil.NewAssetPortfolio().Build(t, db)
		closed := testutil.NewAssetPortfolio().Closed().Build(t, db)
		unknown := testutil.MakeID()

		result, err := svc.Generate([]string{active.ID, closed.ID, unknown})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		svc.Wait()

		if len(result.Accepted) != 1 || result.Accepted[0] != active.ID {
			t.Errorf("Expected only the active portfolio accepted, got %v", result.Accepted)
		}
		if len(result.Rejected) != 2 {
			t.Fatalf("Expected 2 rejections, got %d", len(result.Rejected))
		}

		reasons := map[string]string{}
		for _, rejected := range result.Rejected {
			reasons[rejected.AssetPortfolioID] = rejected.Reason
		}
		if reasons[closed.ID] != "not active" {
			t.Errorf("Expected closed portfolio rejected as not active, got %q", reasons[closed.ID])
		}
		if reasons[unknown] != "not found" {
			t.Errorf("Expected unknown portfolio rejected as not found, got %q", reasons[unknown])
		}
	})

	t.Run("empty batch accepts nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)

		result, err := svc.Generate([]string{})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(result.Accepted) != 0 || len(result.Rejected) != 0 {
			t.Errorf("Expected empty result, got %+v", result)
		}
	})
}

// TestGenerationService_RecomputePortfolio tests the full pipeline.
//
// WHY: One recomputation assembles raw data, runs the engine, and rewrites
// the stored range. This exercises the whole chain against a real database,
// including the dense padding through the current day.
func TestGenerationService_RecomputePortfolio(t *testing.T) {
	t.Run("writes one summary per day through today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		summarySvc := testutil.NewTestSummaryService(t, db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		eventTime := time.Now().UTC().Add(-time.Hour)
		testutil.NewPortfolioEvent(portfolio.ID).
			WithTimestamp(eventTime).
			WithQuantity(decimal.NewFromInt(10)).
			WithValue(decimal.NewFromInt(1000)).
			Build(t, db)
		testutil.NewPricePoint().
			WithTimestamp(eventTime).
			WithPrice(decimal.NewFromInt(110)).
			Build(t, db)

		if err := svc.RecomputePortfolio(portfolio); err != nil {
			t.Fatalf("RecomputePortfolio failed: %v", err)
		}

		count := testutil.CountRows(t, db, "daily_summary")
		if count < 1 {
			t.Fatal("Expected at least one stored summary")
		}

		results, err := summarySvc.QuerySummaries(
			portfolio.CpmID,
			[]string{portfolio.ID},
			eventTime.Add(-24*time.Hour),
			time.Now().UTC().Add(24*time.Hour),
		)
		if err != nil {
			t.Fatalf("QuerySummaries failed: %v", err)
		}
		summaries := results[0].Summaries
		if len(summaries) != count {
			t.Fatalf("Expected %d summaries back, got %d", count, len(summaries))
		}

		first := summaries[0]
		if !first.AUM.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Expected aum 10, got %s", first.AUM)
		}
		if !first.AvgCost.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected avgCost 100, got %s", first.AvgCost)
		}
		if !first.UnrealizedValue.Valid || !first.UnrealizedValue.Decimal.Equal(decimal.NewFromInt(1100)) {
			t.Errorf("Expected unrealizedValue 1100, got %+v", first.UnrealizedValue)
		}
	})

	t.Run("recomputation replaces prior results", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		eventTime := time.Now().UTC().Add(-time.Hour)
		testutil.NewPortfolioEvent(portfolio.ID).WithTimestamp(eventTime).Build(t, db)

		if err := svc.RecomputePortfolio(portfolio); err != nil {
			t.Fatalf("First recompute failed: %v", err)
		}
		firstCount := testutil.CountRows(t, db, "daily_summary")

		if err := svc.RecomputePortfolio(portfolio); err != nil {
			t.Fatalf("Second recompute failed: %v", err)
		}
		secondCount := testutil.CountRows(t, db, "daily_summary")

		if firstCount != secondCount {
			t.Errorf("Expected stable row count across recomputes, got %d then %d", firstCount, secondCount)
		}
	})

	t.Run("no raw data writes nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		if err := svc.RecomputePortfolio(portfolio); err != nil {
			t.Fatalf("RecomputePortfolio failed: %v", err)
		}
		testutil.AssertRowCount(t, db, "daily_summary", 0)
	})

	t.Run("ignores other pairs' prices and other portfolios' events", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestGenerationService(t, db)
		portfolio := testutil.NewAssetPortfolio().WithPair("BTC-USDT").Build(t, db)
		other := testutil.NewAssetPortfolio().WithPair("ETH-USDT").Build(t, db)

		eventTime := time.Now().UTC().Add(-time.Hour)
		testutil.NewPortfolioEvent(other.ID).WithPair("ETH-USDT").WithTimestamp(eventTime).Build(t, db)
		testutil.NewPricePoint().WithPair("ETH-USDT").WithTimestamp(eventTime).Build(t, db)

		if err := svc.RecomputePortfolio(portfolio); err != nil {
			t.Fatalf("RecomputePortfolio failed: %v", err)
		}
		testutil.AssertRowCount(t, db, "daily_summary", 0)
	})
}

// TestGenerationService_RecomputeAllActive tests the scheduled entry point.
//
// WHY: The nightly job recomputes every active portfolio and skips closed
// ones; the cron wiring depends on this doing the right filtering.
func TestGenerationService_RecomputeAllActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestGenerationService(t, db)

	active := testutil.NewAssetPortfolio().Build(t, db)
	closed := testutil.NewAssetPortfolio().Closed().Build(t, db)

	eventTime := time.Now().UTC().Add(-time.Hour)
	testutil.NewPortfolioEvent(active.ID).WithTimestamp(eventTime).Build(t, db)
	testutil.NewPortfolioEvent(closed.ID).WithTimestamp(eventTime).Build(t, db)

	if err := svc.RecomputeAllActive(); err != nil {
		t.Fatalf("RecomputeAllActive failed: %v", err)
	}
	svc.Wait()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM daily_summary WHERE asset_portfolio_id = ?", closed.ID).Scan(&count)
	if err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no summaries for closed portfolio, got %d", count)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM daily_summary WHERE asset_portfolio_id = ?", active.ID).Scan(&count)
	if err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count < 1 {
		t.Error("Expected summaries for active portfolio")
	}
}
