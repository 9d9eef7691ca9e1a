package rest

import (
	"net/http"

	"github.com/dmitrijs2005/buildpanel/internal/logging"
)

// handlers holds the dependencies shared by all HTTP handlers.
type handlers struct {
	auth          AuthService
	projects      ProjectService
	catalog       CatalogService
	contacts      ContactService
	uploads       http.Handler
	logger        logging.Logger
	maxUploadSize int64
}

func newHandlers(deps Deps, opts Options, logger logging.Logger) *handlers {
	return &handlers{
		auth:          deps.Auth,
		projects:      deps.Projects,
		catalog:       deps.Catalog,
		contacts:      deps.Contacts,
		uploads:       deps.Uploads,
		logger:        logger,
		maxUploadSize: opts.MaxUploadSize,
	}
}

func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "construction CMS API")
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
