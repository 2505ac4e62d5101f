package service

import (
	"fmt"
	"time"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/localday"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/repository"
)

// RawDataService assembles the inputs of a valuation run: every price
// observation for the pair and every event for the portfolio up to a cutoff,
// each re-indexed with the local calendar day its timestamp falls on.
// It is read-only; a query failure is fatal for the portfolio's run and is
// propagated to the caller unretried.
type RawDataService struct {
	priceRepo *repository.PriceRepository
	eventRepo *repository.EventRepository
	location  *time.Location
}

// NewRawDataService creates a new RawDataService with the provided dependencies.
func NewRawDataService(
	priceRepo *repository.PriceRepository,
	eventRepo *repository.EventRepository,
	location *time.Location,
) *RawDataService {
	return &RawDataService{
		priceRepo: priceRepo,
		eventRepo: eventRepo,
		location:  location,
	}
}

// RawData holds the two assembled sequences for one portfolio. Both are
// ordered by TimestampUTC ascending (ingestion order breaks ties) and carry a
// derived LocalDay on every record.
type RawData struct {
	Prices []model.PricePoint
	Events []model.PortfolioEvent
}

// Empty reports whether there is nothing to compute: no prices and no events.
// An empty result means the portfolio has no work to do, not an error.
func (d RawData) Empty() bool {
	return len(d.Prices) == 0 && len(d.Events) == 0
}

// FirstDay returns the earliest local day across both sequences.
// Call only when Empty() is false.
func (d RawData) FirstDay() localday.Day {
	switch {
	case len(d.Prices) == 0:
		return d.Events[0].LocalDay
	case len(d.Events) == 0:
		return d.Prices[0].LocalDay
	default:
		return localday.Min(d.Prices[0].LocalDay, d.Events[0].LocalDay)
	}
}

// LastDay returns the latest local day across both sequences.
// Call only when Empty() is false.
func (d RawData) LastDay() localday.Day {
	switch {
	case len(d.Prices) == 0:
		return d.Events[len(d.Events)-1].LocalDay
	case len(d.Events) == 0:
		return d.Prices[len(d.Prices)-1].LocalDay
	default:
		return localday.Max(d.Prices[len(d.Prices)-1].LocalDay, d.Events[len(d.Events)-1].LocalDay)
	}
}

// Load fetches prices and events for the portfolio/pair at or before
// cutoffUTC and derives the local day of each record. Records whose stored
// timestamp could not be parsed were already dropped by the repositories.
func (s *RawDataService) Load(assetPortfolioID, pair string, cutoffUTC time.Time) (RawData, error) {
	prices, err := s.priceRepo.GetPricesUpTo(pair, cutoffUTC)
	if err != nil {
		return RawData{}, fmt.Errorf("failed to load prices for pair %s: %w", pair, err)
	}

	events, err := s.eventRepo.GetEventsUpTo(assetPortfolioID, cutoffUTC)
	if err != nil {
		return RawData{}, fmt.Errorf("failed to load events for portfolio %s: %w", assetPortfolioID, err)
	}

	for i := range prices {
		prices[i].LocalDay = localday.FromTime(prices[i].TimestampUTC, s.location)
	}
	for i := range events {
		events[i].LocalDay = localday.FromTime(events[i].TimestampUTC, s.location)
	}

	return RawData{Prices: prices, Events: events}, nil
}
