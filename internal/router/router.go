package router

import (
	"net/http"

	"bundle-kart/internal/handler"
	"bundle-kart/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Dependencies carries everything the routing tree needs.
type Dependencies struct {
	CouponHandler  *handler.CouponHandler
	OrderHandler   *handler.OrderHandler
	ProductHandler *handler.ProductHandler
	APIKey         string
	Logger         zerolog.Logger
}

// New assembles the HTTP routing tree. Storefront routes (validation,
// checkout, catalogue) are open; administrative coupon routes sit behind
// API-key auth.
func New(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/coupons/validate", deps.CouponHandler.Validate)

		api.Route("/products", func(products chi.Router) {
			products.Get("/", deps.ProductHandler.GetAll)
			products.Get("/{id}", deps.ProductHandler.GetByID)
		})

		api.Route("/orders", func(orders chi.Router) {
			orders.Post("/", deps.OrderHandler.Create)
			orders.Get("/{id}", deps.OrderHandler.GetByID)
		})

		api.Route("/admin/coupons", func(admin chi.Router) {
			admin.Use(middleware.APIKeyAuth(deps.APIKey, deps.Logger))
			admin.Get("/", deps.CouponHandler.List)
			admin.Post("/", deps.CouponHandler.Create)
			admin.Put("/{id}", deps.CouponHandler.Update)
			admin.Delete("/{id}", deps.CouponHandler.Delete)
		})
	})

	return r
}
