package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/bistro-cli/internal/adapters/driven/rest"
	"github.com/custodia-labs/bistro-cli/internal/core/domain"
	"github.com/custodia-labs/bistro-cli/internal/core/ports/driven"
	"github.com/custodia-labs/bistro-cli/internal/logger"
)

// Option configures the router.
type Option func(*options)

type options struct {
	token   string
	limiter *rate.Limiter
}

// WithToken requires every request under the API prefix to carry
// "Authorization: Bearer <token>".
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithRateLimit answers 429 once the server-wide token bucket is empty.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewRouter returns a handler serving backend under rest.APIPrefix.
func NewRouter(backend driven.RestaurantBackend, opts ...Option) http.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	h := &handler{backend: backend}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests)

	r.Route(rest.APIPrefix, func(r chi.Router) {
		if o.limiter != nil {
			r.Use(limit(o.limiter))
		}
		if o.token != "" {
			r.Use(requireToken(o.token))
		}
		r.Use(newIdempotency().middleware)

		r.Get("/health", h.health)

		r.Get("/tables", h.listTables)
		r.Get("/tables/{id}", h.getTable)
		r.Post("/tables/{id}/open", h.openTable)
		r.Put("/tables/{id}/status", h.setTableStatus)

		r.Get("/orders", h.listOrders)
		r.Post("/orders", h.placeOrder)
		r.Get("/orders/{id}", h.getOrder)
		r.Put("/orders/{id}/status", h.setOrderStatus)

		r.Get("/menu", h.listMenu)
		r.Put("/menu/{id}/availability", h.setAvailability)

		r.Get("/stock", h.listStock)
		r.Post("/stock/{id}/adjust", h.adjustStock)
	})

	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("httpapi: %s %s %d %s id=%s", r.Method, r.URL.Path, ww.Status(),
			time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
	})
}

func limit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				w.Header().Set("Retry-After", "1")
				respondError(w, r, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireToken(token string) func(http.Handler) http.Handler {
	want := "Bearer " + token
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(r.Header.Get("Authorization")) != want {
				respondError(w, r, domain.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
