/*
server.go - HTTP router and middleware configuration

PURPOSE:

	Configures the HTTP router (chi), middleware stack, and route
	definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
 1. RequestID:  Unique ID per request for tracing
 2. Logger:     Structured request logging (zap)
 3. Recoverer:  Panic recovery (500 instead of crash)
 4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:

	/api/awards/*       Registry and ingestion
	/api/ingestions/*   Ingestion jobs
	/api/documents/*    Pay guide library and search
	/api/sessions/*     Calculator sessions
	/api/scenarios      Sample weeks

SECURITY NOTE:

	No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/fairpay/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/awards", func(r chi.Router) {
			r.Get("/", h.ListAwards)
			r.Post("/", h.UpsertAward)
			r.Post("/ingest", h.IngestAward)
			r.Get("/{code}", h.GetAward)
		})
		r.Get("/ingestions/{id}", h.GetIngestion)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", h.ListDocuments)
			r.Post("/search", h.SearchDocuments)
		})

		r.Post("/match", h.MatchAward)
		r.Post("/assistant", h.Ask)

		r.Post("/calculate", h.Calculate)
		r.Get("/calculations", h.ListCalculations)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Put("/award", h.SelectAward)
				r.Put("/classification", h.SelectClassification)
				r.Put("/shifts/{day}", h.SetShift)
				r.Post("/reset", h.ResetSession)
				r.Post("/scenario", h.LoadScenario)
				r.Get("/breakdown", h.GetBreakdown)
			})
		})

		r.Get("/scenarios", h.ListScenarios)
	})

	return r
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("elapsed", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
