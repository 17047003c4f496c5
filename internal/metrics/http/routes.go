package metricshttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers finance metrics endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/finance/metrics", h.handleDashboard)
	r.Post("/finance/metrics/invalidate", h.handleInvalidate)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/finance/metrics/export.csv", h.handleCSV)
	})
}
