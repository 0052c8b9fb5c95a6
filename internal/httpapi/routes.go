package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DoyleJ11/volleyball-arena/internal/ws"
)

func SetupRoutes(a *API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(a.hub, a.log.Named("ws")))

	r.Route("/arenas", func(r chi.Router) {
		r.Post("/", a.CreateArena)
		r.Get("/", a.ListArenas)
		r.Get("/{code}", a.GetArena)
		r.Delete("/{code}", a.DeleteArena)
		r.Get("/{code}/episodes", a.ListEpisodes)
	})
	return r
}
