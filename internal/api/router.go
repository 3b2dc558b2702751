package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/rebalancer/internal/api/handlers"
	"github.com/wonny/rebalancer/internal/scheduler"
	"github.com/wonny/rebalancer/internal/session"
	"github.com/wonny/rebalancer/pkg/logger"
)

// Deps bundles everything the router serves
type Deps struct {
	Rebalance *handlers.RebalanceHandler
	Session   *handlers.SessionHandler
	Assets    *handlers.AssetsHandler
	Store     session.Store
	Scheduler *scheduler.Scheduler // optional
	Limiter   Limiter              // optional
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(d Deps, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler(d, log)).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/rebalance", d.Rebalance.Calculate).Methods("POST")
	api.HandleFunc("/assets", d.Assets.GetCatalog).Methods("GET")

	api.HandleFunc("/sessions", d.Session.Create).Methods("POST")
	api.HandleFunc("/sessions/{id}", d.Session.Get).Methods("GET")
	api.HandleFunc("/sessions/{id}", d.Session.Delete).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/values/{asset}", d.Session.SetValue).Methods("PUT")
	api.HandleFunc("/sessions/{id}/values/{asset}/step", d.Session.Step).Methods("POST")
	api.HandleFunc("/sessions/{id}/allocation/{asset}", d.Session.SetAllocation).Methods("PUT")
	api.HandleFunc("/sessions/{id}/reset", d.Session.Reset).Methods("POST")
	api.HandleFunc("/sessions/{id}/report", d.Session.Report).Methods("GET")
	api.HandleFunc("/sessions/{id}/ws", d.Session.Live).Methods("GET")

	if d.Limiter != nil {
		api.Use(rateLimitMiddleware(d.Limiter, log))
	}

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(d Deps, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{
			"status":  "ok",
			"service": "rebalancer-api",
		}

		if d.Store != nil {
			n, err := d.Store.Count(r.Context())
			if err != nil {
				log.WithError(err).Warn("Session count failed")
				body["status"] = "degraded"
			} else {
				body["sessions"] = n
			}
		}
		if d.Scheduler != nil {
			body["jobs"] = d.Scheduler.Stats()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}
}

// rateLimitMiddleware rejects clients over their request budget
func rateLimitMiddleware(l Limiter, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			allowed, err := l.Allow(r.Context(), key)
			if err != nil {
				// fail open on limiter errors
				log.WithError(err).Warn("Rate limiter unavailable")
				allowed = true
			}
			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
