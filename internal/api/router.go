package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/userdesk/api/internal/api/handlers"
	mw "github.com/userdesk/api/internal/api/middleware"
)

type Dependencies struct {
	UsersHandler *handlers.UsersHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	hh := handlers.NewHealthHandler()
	r.Get("/", hh.Root)
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", dep.UsersHandler.List)
		ur.Post("/", dep.UsersHandler.Create)
		ur.Post("/login/", dep.UsersHandler.Login)
		ur.Patch("/password/{id}", dep.UsersHandler.PatchPassword)
		ur.Get("/{id}", dep.UsersHandler.Get)
		ur.Patch("/{id}", dep.UsersHandler.Patch)
		ur.Put("/{id}", dep.UsersHandler.Update)
		ur.Delete("/{id}", dep.UsersHandler.Delete)
	})

	return r
}
