package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cpm-labs/portfolio-tracker-backend/internal/api/handlers"
	custommiddleware "github.com/cpm-labs/portfolio-tracker-backend/internal/api/middleware"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/config"
	"github.com/cpm-labs/portfolio-tracker-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	portfolioService *service.PortfolioService,
	marketDataService *service.MarketDataService,
	generationService *service.GenerationService,
	summaryService *service.SummaryService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
			summaryHandler := handlers.NewSummaryHandler(generationService, summaryService)
			r.Post("/list", portfolioHandler.List)
			r.Post("/combined", portfolioHandler.CreateCombined)
			r.Post("/asset", portfolioHandler.CreateAsset)
			r.Post("/generate", summaryHandler.Generate)
			r.Post("/query", summaryHandler.Query)
		})

		marketDataHandler := handlers.NewMarketDataHandler(marketDataService)
		r.Post("/price", marketDataHandler.RecordPrice)
		r.Post("/event", marketDataHandler.RecordEvent)
	})

	return r
}
