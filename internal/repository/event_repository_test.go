package repository_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/repository"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/testutil"
)

// TestEventRepository_GetEventsUpTo tests the read path of the event series.
//
// WHY: The valuation engine depends on events arriving in timestamp order
// with ingestion order breaking ties, and on the cutoff being inclusive.
// Getting either wrong silently changes accounting results.
func TestEventRepository_GetEventsUpTo(t *testing.T) {
	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("orders by timestamp then ingestion order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewEventRepository(db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		// Written out of chronological order, plus two sharing an instant.
		testutil.NewPortfolioEvent(portfolio.ID).WithTimestamp(base.Add(time.Hour)).WithOrderID("third").Build(t, db)
		testutil.NewPortfolioEvent(portfolio.ID).WithTimestamp(base).WithOrderID("first").Build(t, db)
		testutil.NewPortfolioEvent(portfolio.ID).WithTimestamp(base.Add(time.Hour)).WithOrderID("fourth").Build(t, db)
		testutil.NewPortfolioEvent(portfolio.ID).WithTimestamp(base.Add(time.Minute)).WithOrderID("second").Build(t, db)

		events, err := repo.GetEventsUpTo(portfolio.ID, base.Add(2*time.Hour))
		if err != nil {
			t.Fatalf("GetEventsUpTo failed: %v", err)
		}

		got := make([]string, len(events))
		for i, e := range events {
			got[i] = e.OrderID
		}
		want := []string{"first", "second", "third", "fourth"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Expected order %v, got %v", want, got)
			}
		}
	})

	t.Run("cutoff is inclusive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewEventRepository(db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		testutil.NewPortfolioEvent(portfolio.ID).WithTimestamp(base).Build(t, db)
		testutil.NewPortfolioEvent(portfolio.ID).WithTimestamp(base.Add(time.Second)).Build(t, db)

		events, err := repo.GetEventsUpTo(portfolio.ID, base)
		if err != nil {
			t.Fatalf("GetEventsUpTo failed: %v", err)
		}
		if len(events) != 1 {
			t.Errorf("Expected 1 event at or before cutoff, got %d", len(events))
		}
	})

	t.Run("filters by portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewEventRepository(db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)
		other := testutil.NewAssetPortfolio().Build(t, db)

		testutil.NewPortfolioEvent(portfolio.ID).WithTimestamp(base).Build(t, db)
		testutil.NewPortfolioEvent(other.ID).WithTimestamp(base).Build(t, db)

		events, err := repo.GetEventsUpTo(portfolio.ID, base.Add(time.Hour))
		if err != nil {
			t.Fatalf("GetEventsUpTo failed: %v", err)
		}
		if len(events) != 1 {
			t.Errorf("Expected 1 event for the portfolio, got %d", len(events))
		}
	})

	t.Run("drops rows with unparseable timestamps", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewEventRepository(db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		testutil.NewPortfolioEvent(portfolio.ID).WithTimestamp(base).Build(t, db)
		_, err := db.Exec(
			`INSERT INTO portfolio_event (id, asset_portfolio_id, pair, timestamp_utc, event, quantity, value)
			 VALUES (?, ?, 'BTC-USDT', 'not-a-timestamp', 'buy', '1', '100')`,
			testutil.MakeID(), portfolio.ID,
		)
		if err != nil {
			t.Fatalf("Failed to insert corrupt row: %v", err)
		}

		events, err := repo.GetEventsUpTo(portfolio.ID, base.Add(time.Hour))
		if err != nil {
			t.Fatalf("GetEventsUpTo failed: %v", err)
		}
		if len(events) != 1 {
			t.Errorf("Expected corrupt row dropped, got %d events", len(events))
		}
	})

	t.Run("zeroes unparseable numeric fields but keeps the record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewEventRepository(db)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		_, err := db.Exec(
			`INSERT INTO portfolio_event (id, asset_portfolio_id, pair, timestamp_utc, event, quantity, value)
			 VALUES (?, ?, 'BTC-USDT', ?, 'buy', 'garbage', '100')`,
			testutil.MakeID(), portfolio.ID, repository.FormatTimestamp(base),
		)
		if err != nil {
			t.Fatalf("Failed to insert corrupt row: %v", err)
		}

		events, err := repo.GetEventsUpTo(portfolio.ID, base.Add(time.Hour))
		if err != nil {
			t.Fatalf("GetEventsUpTo failed: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("Expected record kept, got %d events", len(events))
		}
		if !events[0].Quantity.IsZero() {
			t.Errorf("Expected unparseable quantity zeroed, got %s", events[0].Quantity)
		}
		if !events[0].Value.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected parseable value kept, got %s", events[0].Value)
		}
	})
}

// TestEventRepository_WriteEvent tests the append path round trip.
//
// WHY: Decimal fields are stored as text to stay exact; the round trip must
// preserve values and the optional order reference.
func TestEventRepository_WriteEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewEventRepository(db)
	portfolio := testutil.NewAssetPortfolio().Build(t, db)

	written := model.PortfolioEvent{
		AssetPortfolioID: portfolio.ID,
		Pair:             "BTC-USDT",
		TimestampUTC:     time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		Event:            model.EventSell,
		Quantity:         decimal.RequireFromString("0.00000001"),
		Value:            decimal.RequireFromString("480.5"),
	}
	if err := repo.WriteEvent(written); err != nil {
		t.Fatalf("WriteEvent failed: %v", err)
	}

	events, err := repo.GetEventsUpTo(portfolio.ID, written.TimestampUTC)
	if err != nil {
		t.Fatalf("GetEventsUpTo failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}

	got := events[0]
	if got.Event != model.EventSell {
		t.Errorf("Expected event sell, got %s", got.Event)
	}
	if !got.Quantity.Equal(written.Quantity) {
		t.Errorf("Expected quantity %s, got %s", written.Quantity, got.Quantity)
	}
	if !got.Value.Equal(written.Value) {
		t.Errorf("Expected value %s, got %s", written.Value, got.Value)
	}
	if got.OrderID != "" {
		t.Errorf("Expected empty orderID, got %q", got.OrderID)
	}
	if !got.TimestampUTC.Equal(written.TimestampUTC) {
		t.Errorf("Expected timestamp %s, got %s", written.TimestampUTC, got.TimestampUTC)
	}
}
