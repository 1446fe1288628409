package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handlers struct {
	Catalog   *CatalogHandler
	Financing *FinancingHandler
	History   *HistoryHandler
}

// NewRouter wires every page. Routes that reach the catalog API go through
// the rate limiter.
func NewRouter(h Handlers, limiter *RateLimiter, log *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(log))

	limited := func(fn http.HandlerFunc) http.Handler {
		return limiter.Limit(fn)
	}

	r.HandleFunc("/", h.Catalog.Home).Methods(http.MethodGet)
	r.Handle("/brands", limited(h.Catalog.Brands)).Methods(http.MethodPost)
	r.Handle("/models", limited(h.Catalog.Models)).Methods(http.MethodPost)
	r.Handle("/years", limited(h.Catalog.Years)).Methods(http.MethodPost)
	r.Handle("/price", limited(h.Catalog.Price)).Methods(http.MethodPost)

	r.HandleFunc("/financing", h.Financing.Form).Methods(http.MethodGet)
	r.HandleFunc("/financing", h.Financing.Calculate).Methods(http.MethodPost)

	r.HandleFunc("/history", h.History.List).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	return r
}
