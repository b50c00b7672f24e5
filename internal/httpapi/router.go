package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig bundles the handlers mounted on the API router.
type RouterConfig struct {
	Cart           *CartHandler
	Catalog        *CatalogHandler
	Policy         *PolicyHandler
	Checkout       *CheckoutHandler
	Orders         *OrdersHandler
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", cfg.Catalog.GetCatalog)
			r.Post("/refresh", cfg.Catalog.RefreshCatalog)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", cfg.Orders.ListOrders)
			r.Get("/{order_id}", cfg.Orders.GetOrder)
		})

		// Session-scoped routes
		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cfg.Cart.GetCart)
				r.Delete("/", cfg.Cart.ClearCart)
				r.Post("/items", cfg.Cart.AddItem)
				r.Put("/items/{item_id}", cfg.Cart.UpdateQuantity)
				r.Delete("/items/{item_id}", cfg.Cart.RemoveItem)
				r.Get("/totals", cfg.Cart.GetTotals)
				r.Put("/reservation", cfg.Cart.BindReservation)
				r.Delete("/reservation", cfg.Cart.ClearReservation)
			})

			r.Route("/pricing-policy", func(r chi.Router) {
				r.Get("/", cfg.Policy.GetPolicy)
				r.Put("/", cfg.Policy.PutPolicy)
			})

			r.Post("/checkout", cfg.Checkout.Checkout)
		})
	})

	return r
}
