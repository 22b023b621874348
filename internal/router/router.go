package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/auth"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/catalog"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/config"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/delivery"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/gateway"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/handler"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/metrics"
	mw "github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/middleware"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/orders"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/promo"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/settings"
	"github.com/IsaiasSinthesys03/Proyecto-Napoli-APPS/internal/ws"
)

// Deps bundles everything the HTTP surface needs. Services are constructed
// in main so the tracker and router share the same instances.
type Deps struct {
	Cfg    *config.Config
	Logger *zap.Logger

	Gateway gateway.Caller
	Hub     *ws.Hub

	Orders      *orders.Service
	Coordinator *delivery.Coordinator
	Drivers     *delivery.DriverService
	Metrics     *metrics.Service
	Catalog     *catalog.Service
	Promo       *promo.Service
	Settings    *settings.Service
}

// New creates a Chi router with all application routes wired up.
// Applies authentication, restaurant scoping, and rate limiting as needed.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(mw.RequestLogger(d.Logger))
	r.Use(mw.NewRateLimiter(d.Cfg.RateLimit, d.Cfg.RateBurst).Handler)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler := handler.NewAuthHandler(d.Gateway, d.Cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/restaurants/{rid}/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(d.Hub, d.Cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(d.Cfg.JWTSecret))

		r.Route("/restaurants/{rid}", func(r chi.Router) {
			r.Use(mw.RequireRestaurant)

			orderHandler := handler.NewOrderHandler(d.Orders, d.Coordinator)
			r.Route("/orders", orderHandler.RegisterRoutes)

			driverHandler := handler.NewDriverHandler(d.Drivers)
			r.Route("/drivers", driverHandler.RegisterRoutes)
			r.Route("/deliveries", driverHandler.RegisterTrackingRoutes)

			metricsHandler := handler.NewMetricsHandler(d.Metrics)
			r.Route("/metrics", metricsHandler.RegisterRoutes)

			categoryHandler := handler.NewCategoryHandler(d.Catalog)
			r.Route("/categories", categoryHandler.RegisterRoutes)

			productHandler := handler.NewProductHandler(d.Catalog)
			r.Route("/products", productHandler.RegisterRoutes)

			addonHandler := handler.NewAddonHandler(d.Catalog)
			r.Route("/addons", addonHandler.RegisterRoutes)

			promoHandler := handler.NewPromoHandler(d.Promo)
			r.Route("/promotions", promoHandler.RegisterRoutes)

			// Settings editing stays behind MANAGER or above.
			settingsHandler := handler.NewSettingsHandler(d.Settings)
			r.Route("/settings", func(r chi.Router) {
				r.Use(mw.RequireRole(auth.RoleAdmin, auth.RoleManager))
				settingsHandler.RegisterRoutes(r)
			})
		})
	})

	return r
}
