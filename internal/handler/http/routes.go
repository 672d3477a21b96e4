package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/token", h.login)
		// The refresh endpoint authenticates with the refresh token itself,
		// not with the access-token middleware.
		r.Post("/refresh-token", h.refresh)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/me", h.currentUser)
			r.Post("/logout", h.logout)
			r.Post("/logout-all", h.logoutAll)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/me", h.currentUser)
		r.Put("/me", h.updateMe)
		r.Get("/", h.listUsers)
		r.Get("/{userID}", h.getUser)
		r.Put("/{userID}", h.updateUser)
		r.Delete("/{userID}", h.deleteUser)
	})

	router.With(h.auth).Post("/chat", h.chat)

	return router
}
