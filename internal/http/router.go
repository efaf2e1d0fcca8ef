package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Products       *ProductHandler
	Carts          *CartHandler
	Accounts       *AccountHandler
	Verifier       Verifier
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", cfg.Products.Categories)
		r.Get("/catalog/total", cfg.Products.Total)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Products.List)
			// "page" is reserved; that category is only reachable with ?category=
			r.Get("/page", cfg.Products.List)
			r.Get("/page/{page}", cfg.Products.List)
			r.Get("/{category}", cfg.Products.List)
			r.Get("/{category}/page/{page}", cfg.Products.List)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(SessionMiddleware)
			r.Get("/", cfg.Carts.GetCart)
			r.Delete("/", cfg.Carts.ClearCart)
			r.Get("/summary", cfg.Carts.Summary)
			r.Post("/items", cfg.Carts.AddItem)
			r.Delete("/items/{product_id}", cfg.Carts.RemoveItem)
		})

		r.Route("/account", func(r chi.Router) {
			r.Post("/login", cfg.Accounts.Login)
			r.With(RequireAuth(cfg.Verifier)).Get("/me", cfg.Accounts.Me)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
