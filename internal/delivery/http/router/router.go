package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/brand-ingest/internal/delivery/http/handler"
	"github.com/user/brand-ingest/internal/delivery/http/middleware"
)

// New builds the API router. Page fetches can take a while, so the request
// timeout is set well above the page load timeout.
func New(h *handler.Handler, logger *zap.Logger, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimw.Timeout(timeout))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)

		r.Post("/index", h.HandleSubmitIndex)
		r.Get("/index/status", h.HandleGetIndexStatus)

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", h.HandleListBrands)
			r.Post("/scrape", h.HandleScrapeBrand)
			r.Post("/save", h.HandleSaveBrand)
			r.Post("/{recordID}/catalog", h.HandleCreateCatalog)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/scrape", h.HandleScrapeProduct)
			r.Get("/sessions/{id}", h.HandleGetProductSession)
		})
	})

	return r
}
