package validation

import (
	"strings"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/request"
)

// ValidateListPortfolios validates a portfolio listing request.
func ValidateListPortfolios(req request.ListPortfoliosRequest) error {
	return ValidateUUID(req.CpmID)
}

// ValidateCreateCombinedPortfolio validates a combined portfolio creation request.
func ValidateCreateCombinedPortfolio(req request.CreateCombinedPortfolioRequest) error {
	return ValidateUUID(req.CpmID)
}

// ValidateCreateAssetPortfolio validates an asset portfolio creation request.
// Checks the owner ID and requires at least one non-empty trading pair.
func ValidateCreateAssetPortfolio(req request.CreateAssetPortfolioRequest) error {
	if err := ValidateUUID(req.CpmID); err != nil {
		return err
	}

	errors := make(map[string]string)

	if len(req.Pairs) == 0 {
		errors["assetPortfolio"] = "at least one pair is required"
	}
	for _, pair := range req.Pairs {
		if strings.TrimSpace(pair) == "" {
			errors["assetPortfolio"] = "pair cannot be empty"
		} else if len(pair) > 50 {
			errors["assetPortfolio"] = "pair must be 50 characters or less"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateGenerate validates a summary generation request.
func ValidateGenerate(req request.GenerateRequest) error {
	return ValidateUUIDs(req.AssetPortfolioIDs)
}
