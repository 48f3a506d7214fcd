package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// events, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, events http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/types", h.ListTypes)

	r.Route("/components", func(r chi.Router) {
		r.Get("/", h.ListComponents)
		r.Get("/{id}", h.GetComponent)
		r.Delete("/{id}", h.DeleteComponent)
	})

	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/", h.OpenSession)
		r.Delete("/", h.CancelSession)
		r.Put("/fields/{key}", h.SetField)
		r.Post("/submit", h.Submit)
		r.Get("/preview", h.Preview)
		r.Get("/form", h.Form)
	})

	if events != nil {
		r.Get("/events", events.ServeHTTP)
	}
	return r
}
