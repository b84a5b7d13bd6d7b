package routes

import (
	"ham-kiosk/dashboard/internal/api"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies) {

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Get("/spots", api.GetSpotsHandler(deps))
		apiRouter.Get("/bands", api.GetBandsHandler(deps))
		apiRouter.Get("/solar", api.GetSolarHandler(deps))
		apiRouter.Get("/quote", api.GetQuoteHandler(deps))
		apiRouter.Get("/status", api.GetStatusHandler(deps))

		apiRouter.Get("/cards/{card}", api.GetCardHandler(deps))
		apiRouter.Post("/cards/{card}/page", api.CardPageHandler(deps))
		apiRouter.Post("/cards/{card}/retry", api.CardRetryHandler(deps))

		apiRouter.Post("/refresh/{source}", api.RefreshHandler(deps))
	})
}
