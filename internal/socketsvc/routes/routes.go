package routes

import (
	"github.com/go-chi/chi"

	"github.com/direcciones/card-services/internal/socketsvc/handlers"
)

func SetRoutes(r *chi.Mux, h *handlers.Handler) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/ws", h.HandleWebSocket)
		r.Get("/health", h.HealthHandler)
	})
}
