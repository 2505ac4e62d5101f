package repository

import (
	"database/sql"
	"fmt"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/apperrors"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
)

// PortfolioRepository provides data access methods for the combined_portfolio
// and asset_portfolio metadata tables. The valuation path only reads from it;
// writes happen through the portfolio management endpoints.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetCombinedPortfolio retrieves a user's combined portfolio.
// Returns apperrors.ErrCombinedPortfolioNotFound if the user has none.
func (r *PortfolioRepository) GetCombinedPortfolio(cpmID string) (model.CombinedPortfolio, error) {
	query := `
		SELECT id, cpm_id, status
		FROM combined_portfolio
		WHERE cpm_id = ?
	`
	var p model.CombinedPortfolio

	err := r.db.QueryRow(query, cpmID).Scan(&p.ID, &p.CpmID, &p.Status)
	if err == sql.ErrNoRows {
		return model.CombinedPortfolio{}, apperrors.ErrCombinedPortfolioNotFound
	}
	if err != nil {
		return model.CombinedPortfolio{}, fmt.Errorf("failed to query combined_portfolio: %w", err)
	}

	return p, nil
}

// CreateCombinedPortfolio inserts a new combined portfolio row for a user.
func (r *PortfolioRepository) CreateCombinedPortfolio(p model.CombinedPortfolio) error {
	query := `
		INSERT INTO combined_portfolio (id, cpm_id, status)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.Exec(query, p.ID, p.CpmID, p.Status); err != nil {
		return fmt.Errorf("failed to insert combined_portfolio: %w", err)
	}
	return nil
}

// GetAssetPortfolio retrieves a single asset portfolio by ID.
// Returns apperrors.ErrAssetPortfolioNotFound if no row matches.
func (r *PortfolioRepository) GetAssetPortfolio(assetPortfolioID string) (model.AssetPortfolio, error) {
	query := `
		SELECT id, cpm_id, pair, status
		FROM asset_portfolio
		WHERE id = ?
	`
	var p model.AssetPortfolio

	err := r.db.QueryRow(query, assetPortfolioID).Scan(&p.ID, &p.CpmID, &p.Pair, &p.Status)
	if err == sql.ErrNoRows {
		return model.AssetPortfolio{}, apperrors.ErrAssetPortfolioNotFound
	}
	if err != nil {
		return model.AssetPortfolio{}, fmt.Errorf("failed to query asset_portfolio: %w", err)
	}

	return p, nil
}

// GetAssetPortfoliosByCpmID retrieves every asset portfolio owned by a user.
// Returns an empty slice when the user has none.
func (r *PortfolioRepository) GetAssetPortfoliosByCpmID(cpmID string) ([]model.AssetPortfolio, error) {
	query := `
		SELECT id, cpm_id, pair, status
		FROM asset_portfolio
		WHERE cpm_id = ?
		ORDER BY pair, id
	`
	rows, err := r.db.Query(query, cpmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset_portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.AssetPortfolio{}
	for rows.Next() {
		var p model.AssetPortfolio
		if err := rows.Scan(&p.ID, &p.CpmID, &p.Pair, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan asset_portfolio results: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset_portfolio table: %w", err)
	}

	return portfolios, nil
}

// GetActiveAssetPortfolios retrieves all asset portfolios with active status,
// across all users. The scheduled recompute uses this to enumerate its work.
func (r *PortfolioRepository) GetActiveAssetPortfolios() ([]model.AssetPortfolio, error) {
	query := `
		SELECT id, cpm_id, pair, status
		FROM asset_portfolio
		WHERE status = ?
		ORDER BY id
	`
	rows, err := r.db.Query(query, model.PortfolioStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset_portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.AssetPortfolio{}
	for rows.Next() {
		var p model.AssetPortfolio
		if err := rows.Scan(&p.ID, &p.CpmID, &p.Pair, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan asset_portfolio results: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset_portfolio table: %w", err)
	}

	return portfolios, nil
}

// CreateAssetPortfolio inserts a new asset portfolio row.
func (r *PortfolioRepository) CreateAssetPortfolio(p model.AssetPortfolio) error {
	query := `
		INSERT INTO asset_portfolio (id, cpm_id, pair, status)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, p.ID, p.CpmID, p.Pair, p.Status); err != nil {
		return fmt.Errorf("failed to insert asset_portfolio: %w", err)
	}
	return nil
}
