package rest

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions configures the HTTP router
type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the chi router with every public and protected route
func NewRouter(h *Handler, verifier TokenVerifier, logger *zap.Logger, opts RouterOptions) chi.Router {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// ---- Global Middleware ----
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false, // must be false when using "*"
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		// ============================================================
		// Protected Endpoints (require auth)
		// ============================================================
		r.Group(func(pr chi.Router) {
			pr.Use(BearerAuth(verifier))

			pr.Get("/users", h.ListUsers)
			pr.Get("/transactions", h.ListTransactions)
			pr.Get("/transactions/all", h.ListAllTransactions)
			pr.Get("/transactions/{id}", h.GetTransaction)
			pr.Post("/transfer", h.Transfer)
			pr.Post("/admin/reset", h.ResetData)
		})
	})

	return r
}
