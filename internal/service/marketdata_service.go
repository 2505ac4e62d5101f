package service

import (
	"fmt"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/repository"
)

// MarketDataService handles the ingest side of the time-series data: price
// observations from the market feed and portfolio events from trading.
// Both series are append-only; this service never updates or deletes.
type MarketDataService struct {
	priceRepo *repository.PriceRepository
	eventRepo *repository.EventRepository
}

// NewMarketDataService creates a new MarketDataService with the provided dependencies.
func NewMarketDataService(
	priceRepo *repository.PriceRepository,
	eventRepo *repository.EventRepository,
) *MarketDataService {
	return &MarketDataService{
		priceRepo: priceRepo,
		eventRepo: eventRepo,
	}
}

// RecordPrice appends one market price observation.
func (s *MarketDataService) RecordPrice(point model.PricePoint) error {
	if err := s.priceRepo.WritePrice(point); err != nil {
		return fmt.Errorf("failed to record price for pair %s: %w", point.Pair, err)
	}
	return nil
}

// RecordEvent appends one portfolio event.
func (s *MarketDataService) RecordEvent(event model.PortfolioEvent) error {
	if err := s.eventRepo.WriteEvent(event); err != nil {
		return fmt.Errorf("failed to record event for portfolio %s: %w", event.AssetPortfolioID, err)
	}
	return nil
}
