package handlers

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)

		// The verifier only parses the session token into the request
		// context. Each resolver enforces it itself so mutations can
		// answer with the envelope shape instead of a transport 401.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))

			r.Handle("/graphql", h.gql)
		})
	})
}
