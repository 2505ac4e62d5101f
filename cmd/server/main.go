package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/api"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/config"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/database"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/repository"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	eventRepo := repository.NewEventRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(portfolioRepo)
	marketDataService := service.NewMarketDataService(priceRepo, eventRepo)
	rawDataService := service.NewRawDataService(priceRepo, eventRepo, cfg.Valuation.Location)
	engine := service.NewValuationEngine(cfg.Valuation.Location)
	summaryService := service.NewSummaryService(summaryRepo, portfolioRepo, cfg.Valuation.Location)
	generationService := service.NewGenerationService(
		portfolioRepo,
		rawDataService,
		engine,
		summaryService,
		cfg.Valuation.Location,
		cfg.Valuation.MaxConcurrent,
	)

	// Nightly recompute of every active portfolio, scheduled in the
	// valuation timezone so it fires just after the local day boundary.
	scheduler := cron.New(cron.WithLocation(cfg.Valuation.Location))
	if cfg.Valuation.EnableSchedule {
		_, err := scheduler.AddFunc(cfg.Valuation.RecomputeCron, func() {
			if err := generationService.RecomputeAllActive(); err != nil {
				log.Printf("Scheduled recompute failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Failed to schedule recompute job: %v", err)
		}
		scheduler.Start()
		log.Printf("Scheduled nightly recompute: %q in %s", cfg.Valuation.RecomputeCron, cfg.Valuation.Timezone)
	}

	// Create router
	router := api.NewRouter(systemService, portfolioService, marketDataService, generationService, summaryService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Stop the scheduler and let in-flight generation runs finish so the
	// delete-then-write replace step is never cut off mid-way.
	<-scheduler.Stop().Done()
	generationService.Wait()

	log.Println("Server exited")
}
