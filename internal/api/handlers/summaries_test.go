package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/service"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/testutil"
)

func setupSummaryHandler(t *testing.T) (*SummaryHandler, *service.GenerationService, *sql.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	generationService := testutil.NewTestGenerationService(t, db)
	summaryService := testutil.NewTestSummaryService(t, db)
	return NewSummaryHandler(generationService, summaryService), generationService, db
}

func TestSummaryHandler_Generate(t *testing.T) {
	t.Run("accepts active portfolios and reports rejections", func(t *testing.T) {
		handler, generationService, db := setupSummaryHandler(t)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)
		unknown := testutil.MakeID()

		body := jsonBody(t, map[string]interface{}{
			"assetPortfolioID": []string{portfolio.ID, unknown},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/generate", body)
		w := httptest.NewRecorder()

		handler.Generate(w, req)
		generationService.Wait()

		if w.Code != http.StatusAccepted {
			t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
		}

		var result service.GenerateResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&result)

		if len(result.Accepted) != 1 || result.Accepted[0] != portfolio.ID {
			t.Errorf("Expected one accepted portfolio, got %v", result.Accepted)
		}
		if len(result.Rejected) != 1 || result.Rejected[0].AssetPortfolioID != unknown {
			t.Errorf("Expected one rejected portfolio, got %v", result.Rejected)
		}
	})

	t.Run("rejects non-UUID portfolio IDs", func(t *testing.T) {
		handler, _, _ := setupSummaryHandler(t)

		body := jsonBody(t, map[string]interface{}{
			"assetPortfolioID": []string{"not-a-uuid"},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/generate", body)
		w := httptest.NewRecorder()

		handler.Generate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		handler, _, _ := setupSummaryHandler(t)

		body := jsonBody(t, map[string]interface{}{
			"assetPortfolioID": []string{},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/generate", body)
		w := httptest.NewRecorder()

		handler.Generate(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestSummaryHandler_Query(t *testing.T) {
	t.Run("returns stored summaries for the range", func(t *testing.T) {
		handler, generationService, db := setupSummaryHandler(t)
		portfolio := testutil.NewAssetPortfolio().Build(t, db)

		eventTime := time.Now().UTC().Add(-time.Hour)
		testutil.NewPortfolioEvent(portfolio.ID).WithTimestamp(eventTime).Build(t, db)
		if err := generationService.RecomputePortfolio(portfolio); err != nil {
			t.Fatalf("RecomputePortfolio failed: %v", err)
		}

		body := jsonBody(t, map[string]interface{}{
			"cpmID":              portfolio.CpmID,
			"assetPortfolioID":   []string{portfolio.ID},
			"start_datetime_utc": eventTime.Add(-24 * time.Hour).Format(time.RFC3339),
			"end_datetime_utc":   time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/query", body)
		w := httptest.NewRecorder()

		handler.Query(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var results []model.PortfolioSummaryResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&results)

		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
		if results[0].Error != "" {
			t.Fatalf("Expected no per-item error, got %q", results[0].Error)
		}
		if len(results[0].Summaries) < 1 {
			t.Error("Expected at least one summary in range")
		}
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		handler, _, _ := setupSummaryHandler(t)

		body := jsonBody(t, map[string]interface{}{
			"cpmID":              testutil.MakeID(),
			"assetPortfolioID":   []string{testutil.MakeID()},
			"start_datetime_utc": "2024-01-17T00:00:00Z",
			"end_datetime_utc":   "2024-01-15T00:00:00Z",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/query", body)
		w := httptest.NewRecorder()

		handler.Query(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
