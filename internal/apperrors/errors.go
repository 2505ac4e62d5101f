// Package apperrors defines the sentinel errors shared across repositories,
// services, and handlers. Callers branch on these with errors.Is rather than
// matching message strings.
package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrCombinedPortfolioNotFound indicates that a user has no combined portfolio yet.
	ErrCombinedPortfolioNotFound = errors.New("combined portfolio not found")

	// ErrAssetPortfolioNotFound indicates that an asset portfolio with the given ID does not exist.
	ErrAssetPortfolioNotFound = errors.New("asset portfolio not found")

	// ErrPortfolioClosed indicates that an operation was requested against a closed portfolio.
	ErrPortfolioClosed = errors.New("asset portfolio is closed")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrMissingCombinedPortfolio indicates that asset portfolios were requested
	// for a user who has not created a combined portfolio first.
	ErrMissingCombinedPortfolio = errors.New("missing combined portfolio")

	// ErrUnsupportedEventType indicates an event type outside the accepted enumeration.
	ErrUnsupportedEventType = errors.New("unsupported event type")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. They are returned to API clients as stable messages while
// the underlying cause is carried in the error details.
var (
	ErrFailedToRetrievePortfolios = errors.New("failed to retrieve portfolios")
	ErrFailedToCreatePortfolio    = errors.New("failed to create portfolio")
	ErrFailedToRecordPrice        = errors.New("failed to record price")
	ErrFailedToRecordEvent        = errors.New("failed to record event")
	ErrFailedToRetrieveSummaries  = errors.New("failed to retrieve portfolio summaries")
	ErrFailedToResolveMetadata    = errors.New("failed to resolve portfolio metadata")
)

// Data quality conditions surfaced by the valuation engine. These are not
// failures: the run continues, but the condition is reported distinctly so
// the gap in the input data stays visible.
var (
	// ErrOversell indicates a sell event exceeded the held quantity and was
	// clamped to the available inventory.
	ErrOversell = errors.New("sell quantity exceeds held quantity")
)
