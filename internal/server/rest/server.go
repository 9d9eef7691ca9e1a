// Package rest exposes the CMS over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/buildpanel/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Deps groups what the HTTP layer needs from the rest of the application.
type Deps struct {
	Auth     AuthService
	Projects ProjectService
	Catalog  CatalogService
	Contacts ContactService
	Uploads  http.Handler
}

// Options tunes the router.
type Options struct {
	CORSAllowedOrigins []string
	RateLimitPerMinute int
	MaxUploadSize      int64
}

type RESTServer struct {
	address string
	logger  logging.Logger
	handler http.Handler
}

func NewRESTServer(a string, l logging.Logger, deps Deps, opts Options) *RESTServer {
	logger := l.With("module", "rest_server")
	return &RESTServer{
		address: a,
		logger:  logger,
		handler: newRouter(newHandlers(deps, opts, logger), opts),
	}
}

// Handler returns the fully wired router.
func (s *RESTServer) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *RESTServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
