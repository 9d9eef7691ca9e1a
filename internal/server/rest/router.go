package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/dmitrijs2005/buildpanel/internal/common"
)

// newRouter wires every route of the API.
func newRouter(h *handlers, opts Options) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	r.Use(corsMiddleware.Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(h.logger))
	r.Use(middleware.Recoverer)

	limit := opts.RateLimitPerMinute
	if limit <= 0 {
		limit = 20
	}
	rateLimited := httprate.LimitByIP(limit, time.Minute)

	r.Get("/", h.root)
	r.Get("/health", h.health)

	if h.uploads != nil {
		r.Handle(common.UploadsURLPrefix+"*", http.StripPrefix(common.UploadsURLPrefix, h.uploads))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimited).Post("/login", h.login)
			r.With(h.requireAdmin).Get("/me", h.me)
			r.With(h.requireAdmin).Post("/logout", h.logout)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.listProjects)
			r.Get("/{id}", h.getProject)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/", h.createProject)
				r.Put("/{id}", h.updateProject)
				r.Delete("/{id}", h.deleteProject)
				r.Post("/{id}/images", h.uploadProjectImages)
				r.Delete("/{id}/images", h.removeProjectImage)
				r.Delete("/{id}/images/{imageName}", h.removeProjectImageByName)
			})
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", h.listActiveServices)
			r.With(h.requireAdmin).Get("/all", h.listAllServices)
			r.Get("/{id}", h.getService)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Post("/", h.createService)
				r.Put("/{id}", h.updateService)
				r.Delete("/{id}", h.deleteService)
			})
		})

		r.Route("/contacts", func(r chi.Router) {
			r.With(rateLimited).Post("/", h.submitContact)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)
				r.Get("/", h.listContacts)
				r.Get("/unread-count", h.unreadCount)
				r.Get("/{id}", h.getContact)
				r.Patch("/{id}/mark-as-read", h.markContactAsRead)
				r.Patch("/{id}/status", h.updateContactStatus)
				r.Delete("/{id}", h.deleteContact)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
