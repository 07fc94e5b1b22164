package auth

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/accounts", h.handleRegister)
	r.Post("/sessions", h.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.gate)
		r.Get("/session", h.handleWhoami)
	})
}
