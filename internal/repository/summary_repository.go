package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/localday"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
)

// SummaryRepository provides data access methods for the daily_summary series.
// Summaries are derived data: generation deletes a portfolio's full range and
// rewrites it, so this repository exposes delete-by-portfolio and batch write
// rather than row-level updates.
type SummaryRepository struct {
	db *sql.DB
}

// NewSummaryRepository creates a new SummaryRepository with the provided database connection.
func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// DeleteByPortfolio removes every stored summary for the asset portfolio,
// across the full historical range.
func (r *SummaryRepository) DeleteByPortfolio(assetPortfolioID string) error {
	query := `DELETE FROM daily_summary WHERE asset_portfolio_id = ?`
	if _, err := r.db.Exec(query, assetPortfolioID); err != nil {
		return fmt.Errorf("failed to delete daily_summary rows: %w", err)
	}
	return nil
}

// WriteSummaries inserts the full recomputed summary sequence for a portfolio.
// The batch is written in a single transaction so a mid-write failure does not
// leave a torn prefix; the delete that precedes it is a separate statement.
func (r *SummaryRepository) WriteSummaries(summaries []model.DailySummary) error {
	if len(summaries) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin daily_summary write: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.Prepare(`
		INSERT INTO daily_summary (id, cpm_id, asset_portfolio_id, pair, day, aum, avg_cost, realized_value, unrealized_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare daily_summary insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range summaries {
		var unrealized any
		if s.UnrealizedValue.Valid {
			unrealized = s.UnrealizedValue.Decimal.String()
		}

		_, err := stmt.Exec(
			uuid.NewString(),
			s.CpmID,
			s.AssetPortfolioID,
			s.Pair,
			s.Day.String(),
			s.AUM.String(),
			s.AvgCost.String(),
			s.RealizedValue.String(),
			unrealized,
		)
		if err != nil {
			return fmt.Errorf("failed to insert daily_summary for %s: %w", s.Day, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit daily_summary write: %w", err)
	}

	return nil
}

// GetSummaries retrieves stored summaries for a portfolio between two local
// days inclusive, ordered by day ascending.
func (r *SummaryRepository) GetSummaries(assetPortfolioID string, startDay, endDay localday.Day) ([]model.DailySummary, error) {
	query := `
		SELECT cpm_id, asset_portfolio_id, pair, day, aum, avg_cost, realized_value, unrealized_value
		FROM daily_summary
		WHERE asset_portfolio_id = ? AND day >= ? AND day <= ?
		ORDER BY day ASC
	`
	rows, err := r.db.Query(query, assetPortfolioID, startDay.String(), endDay.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query daily_summary table: %w", err)
	}
	defer rows.Close()

	summaries := []model.DailySummary{}
	for rows.Next() {
		var s model.DailySummary
		var dayStr, aumStr, avgCostStr, realizedStr string
		var unrealizedStr sql.NullString

		err := rows.Scan(
			&s.CpmID,
			&s.AssetPortfolioID,
			&s.Pair,
			&dayStr,
			&aumStr,
			&avgCostStr,
			&realizedStr,
			&unrealizedStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily_summary results: %w", err)
		}

		s.Day, err = localday.Parse(dayStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse day: %w", err)
		}
		s.AUM, err = ParseDecimal(aumStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse aum: %w", err)
		}
		s.AvgCost, err = ParseDecimal(avgCostStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse avg_cost: %w", err)
		}
		s.RealizedValue, err = ParseDecimal(realizedStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse realized_value: %w", err)
		}

		if unrealizedStr.Valid {
			d, err := ParseDecimal(unrealizedStr.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse unrealized_value: %w", err)
			}
			s.UnrealizedValue = decimal.NullDecimal{Decimal: d, Valid: true}
		}

		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily_summary table: %w", err)
	}

	return summaries, nil
}

// CountByPortfolio returns the number of stored summary rows for a portfolio.
func (r *SummaryRepository) CountByPortfolio(assetPortfolioID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM daily_summary WHERE asset_portfolio_id = ?`, assetPortfolioID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count daily_summary rows: %w", err)
	}
	return count, nil
}
