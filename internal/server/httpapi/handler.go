// Package httpapi exposes the devserver's REST API: registration, login,
// storage token issuance, and media metadata CRUD with pagination. Every
// response uses the same {success, code, message, data} envelope.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/memoirapp/mediakit/internal/logging"
	"github.com/memoirapp/mediakit/internal/server/config"
	"github.com/memoirapp/mediakit/internal/server/repositories/media"
	"github.com/memoirapp/mediakit/internal/server/repositories/users"
	"github.com/memoirapp/mediakit/internal/server/stscreds"
)

type Handler struct {
	cfg    *config.Config
	log    logging.Logger
	users  users.Repository
	media  media.Repository
	issuer stscreds.Issuer
}

func NewHandler(cfg *config.Config, log logging.Logger, u users.Repository, m media.Repository, issuer stscreds.Issuer) *Handler {
	return &Handler{cfg: cfg, log: log, users: u, media: m, issuer: issuer}
}

// Router builds the chi mux. Auth endpoints are public; everything else
// requires a bearer token.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware)
			r.Get("/storage/token", h.storageToken)
			r.Post("/media", h.createMedia)
			r.Get("/media", h.listMedia)
			r.Delete("/media/{id}", h.deleteMedia)
		})
	})

	return r
}
