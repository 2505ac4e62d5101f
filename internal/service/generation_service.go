package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/apperrors"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/model"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/repository"
)

// RejectedPortfolio names a requested portfolio that was not dispatched and why.
type RejectedPortfolio struct {
	AssetPortfolioID string `json:"assetPortfolioID"`
	Reason           string `json:"reason"`
}

// GenerateResult is the synchronous answer to a generation request: which IDs
// were accepted for background processing and which were rejected at lookup
// time. It says nothing about the outcome of the background work itself.
type GenerateResult struct {
	Accepted []string            `json:"accepted"`
	Rejected []RejectedPortfolio `json:"rejected"`
}

// GenerationService is the trigger boundary for summary generation. It
// resolves portfolio metadata, dispatches one background recomputation per
// accepted portfolio, and runs the assemble-compute-replace pipeline.
//
// Two disciplines shape the dispatch:
//   - runs for the same portfolio are serialized with a per-ID mutex, so the
//     persister's delete-then-write never interleaves with itself;
//   - total concurrency is capped with a weighted semaphore so a large
//     request cannot monopolize the store.
//
// Once dispatched a run executes to completion or failure; there is no
// cancellation and no automatic retry.
type GenerationService struct {
	portfolioRepo  *repository.PortfolioRepository
	rawDataService *RawDataService
	engine         *ValuationEngine
	summaryService *SummaryService
	location       *time.Location

	sem *semaphore.Weighted
	wg  sync.WaitGroup

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGenerationService creates a new GenerationService with the provided
// dependencies. maxConcurrent bounds how many recomputations run at once.
func NewGenerationService(
	portfolioRepo *repository.PortfolioRepository,
	rawDataService *RawDataService,
	engine *ValuationEngine,
	summaryService *SummaryService,
	location *time.Location,
	maxConcurrent int64,
) *GenerationService {
	return &GenerationService{
		portfolioRepo:  portfolioRepo,
		rawDataService: rawDataService,
		engine:         engine,
		summaryService: summaryService,
		location:       location,
		sem:            semaphore.NewWeighted(maxConcurrent),
		locks:          make(map[string]*sync.Mutex),
	}
}

// Generate resolves each requested assetPortfolioID and dispatches a
// background recomputation for every active one. Unknown and closed IDs are
// reported in the result; they do not stop the rest of the batch. A metadata
// store failure fails the whole request, since no ID can be trusted.
func (s *GenerationService) Generate(assetPortfolioIDs []string) (GenerateResult, error) {
	result := GenerateResult{Accepted: []string{}, Rejected: []RejectedPortfolio{}}

	for _, id := range assetPortfolioIDs {
		portfolio, err := s.portfolioRepo.GetAssetPortfolio(id)
		if errors.Is(err, apperrors.ErrAssetPortfolioNotFound) {
			result.Rejected = append(result.Rejected, RejectedPortfolio{AssetPortfolioID: id, Reason: "not found"})
			continue
		}
		if err != nil {
			return GenerateResult{}, fmt.Errorf("failed to resolve portfolio %s: %w", id, err)
		}
		if portfolio.Status != model.PortfolioStatusActive {
			result.Rejected = append(result.Rejected, RejectedPortfolio{AssetPortfolioID: id, Reason: "not active"})
			continue
		}

		result.Accepted = append(result.Accepted, id)
		s.dispatch(portfolio)
	}

	return result, nil
}

// RecomputeAllActive dispatches a recomputation for every active asset
// portfolio. The nightly schedule calls this shortly after local midnight.
func (s *GenerationService) RecomputeAllActive() error {
	portfolios, err := s.portfolioRepo.GetActiveAssetPortfolios()
	if err != nil {
		return fmt.Errorf("failed to list active portfolios: %w", err)
	}

	log.Printf("Scheduled recompute: dispatching %d active portfolios", len(portfolios))
	for _, portfolio := range portfolios {
		s.dispatch(portfolio)
	}
	return nil
}

// dispatch launches one background recomputation. Failures are logged with
// portfolio context; they never propagate to the caller, who has already
// received the synchronous accept.
func (s *GenerationService) dispatch(portfolio model.AssetPortfolio) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := s.sem.Acquire(context.Background(), 1); err != nil {
			log.Printf("[generate %s/%s] Failed to acquire worker slot: %v", portfolio.ID, portfolio.Pair, err)
			return
		}
		defer s.sem.Release(1)

		if err := s.RecomputePortfolio(portfolio); err != nil {
			log.Printf("[generate %s/%s] Recomputation failed: %v", portfolio.ID, portfolio.Pair, err)
		}
	}()
}

// RecomputePortfolio runs the full pipeline for one portfolio synchronously:
// assemble raw data, compute the daily sequence, replace the stored range.
// Concurrent calls for the same portfolio are serialized.
func (s *GenerationService) RecomputePortfolio(portfolio model.AssetPortfolio) error {
	lock := s.portfolioLock(portfolio.ID)
	lock.Lock()
	defer lock.Unlock()

	started := time.Now()
	log.Printf("[generate %s/%s] Starting calculation", portfolio.ID, portfolio.Pair)

	// Fetch through the end of today so late-arriving records with future
	// timestamps do not leak into this run.
	cutoff := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)

	data, err := s.rawDataService.Load(portfolio.ID, portfolio.Pair, cutoff)
	if err != nil {
		return err
	}

	if data.Empty() {
		log.Printf("[generate %s/%s] No raw data, nothing to do", portfolio.ID, portfolio.Pair)
		return nil
	}

	summaries, warnings := s.engine.ComputeDailySummaries(portfolio, data)
	for _, warning := range warnings {
		log.Printf("[generate %s/%s] Data quality: %s", portfolio.ID, portfolio.Pair, warning)
	}

	if err := s.summaryService.Replace(portfolio.ID, summaries); err != nil {
		return err
	}

	log.Printf("[generate %s/%s] Wrote %d summaries in %s", portfolio.ID, portfolio.Pair, len(summaries), time.Since(started))
	return nil
}

// Wait blocks until all dispatched recomputations have finished.
// Used by graceful shutdown and by tests.
func (s *GenerationService) Wait() {
	s.wg.Wait()
}

// portfolioLock returns the mutex serializing runs for one portfolio,
// creating it on first use. Lock entries are never removed; the set of
// portfolios is small and long-lived.
func (s *GenerationService) portfolioLock(assetPortfolioID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[assetPortfolioID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[assetPortfolioID] = lock
	}
	return lock
}
