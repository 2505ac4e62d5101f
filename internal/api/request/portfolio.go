package request

// ListPortfoliosRequest asks for all portfolios owned by a user.
type ListPortfoliosRequest struct {
	CpmID string `json:"cpmID"`
}

// CreateCombinedPortfolioRequest creates the combined portfolio for a user.
type CreateCombinedPortfolioRequest struct {
	CpmID string `json:"cpmID"`
}

// CreateAssetPortfolioRequest creates one asset portfolio per listed pair.
type CreateAssetPortfolioRequest struct {
	CpmID string   `json:"cpmID"`
	Pairs []string `json:"assetPortfolio"`
}

// GenerateRequest triggers background summary generation for the listed
// asset portfolios.
type GenerateRequest struct {
	AssetPortfolioIDs []string `json:"assetPortfolioID"`
}

// QueryRequest retrieves stored daily summaries for the listed asset
// portfolios within an inclusive UTC time range.
type QueryRequest struct {
	CpmID             string   `json:"cpmID"`
	AssetPortfolioIDs []string `json:"assetPortfolioID"`
	StartDatetimeUTC  string   `json:"start_datetime_utc"`
	EndDatetimeUTC    string   `json:"end_datetime_utc"`
}
