package routes

import (
	"net/http"
	"time"

	"github.com/baresto/baresto-api/app"
	"github.com/baresto/baresto-api/handlers"
	appmw "github.com/baresto/baresto-api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// One trusted origin by default, credentialed so the token cookie is sent
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	health := handlers.NewHealthHandler(deps.SQLDB(), deps.Config.Observability.ServiceName, deps.Config.Environment, deps.Logger)
	foods := handlers.NewFoodHandler(deps.Foods, deps.OwnershipGuard, deps.Config.Catalog, deps.Logger)
	orders := handlers.NewOrderHandler(deps.Orders, deps.OwnershipGuard, deps.Logger)

	r.Get("/", health.HandleRoot)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", health.HandleStatus)

		// Identity cookie
		r.Post("/auth/access-token", handlers.AccessTokenHandler(deps))
		r.Post("/logout", handlers.LogoutHandler(deps))

		// Catalog
		r.Get("/foodsCount", foods.HandleCount)
		r.Get("/allfoods", foods.HandleList)
		r.Get("/allfoods/{foodId}", foods.HandleGet)
		r.Post("/additem", foods.HandleAdd)

		// Orders
		r.Post("/userorders", orders.HandlePlace)
		r.Delete("/cancelorders/{id}", orders.HandleCancel)

		// Owner-scoped reads
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Get("/useritem", foods.HandleUserItems)
			r.Get("/usersorderitems", orders.HandleUserOrders)
			r.Get("/me", handlers.GetCurrentUserHandler())
		})
	})

	r.NotFound(handlers.NotFoundHandler())
	r.MethodNotAllowed(handlers.MethodNotAllowedHandler())

	return r
}
