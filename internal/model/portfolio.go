package model

// PortfolioStatus is the lifecycle state of a portfolio.
type PortfolioStatus string

// Valid portfolio statuses. Closed portfolios are kept for history but are
// skipped by summary generation.
const (
	PortfolioStatusActive PortfolioStatus = "active"
	PortfolioStatusClosed PortfolioStatus = "closed"
)

// CombinedPortfolio is the top-level portfolio container for a user (cpmID).
// A user has at most one combined portfolio; asset portfolios hang off it.
type CombinedPortfolio struct {
	ID     string          `json:"id"`
	CpmID  string          `json:"cpmID"`
	Status PortfolioStatus `json:"status"`
}

// AssetPortfolio tracks a single tradable pair for a user. It is the unit of
// summary generation: every recomputation request names asset portfolio IDs.
type AssetPortfolio struct {
	ID     string          `json:"id"`
	CpmID  string          `json:"cpmID"`
	Pair   string          `json:"pair"`
	Status PortfolioStatus `json:"status"`
}

// PortfolioInfo is the compact portfolio representation returned by listings.
type PortfolioInfo struct {
	ID     string          `json:"id"`
	Status PortfolioStatus `json:"status"`
}
