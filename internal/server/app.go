// Package server initializes and runs the CMS API: it opens the database,
// applies migrations, selects the image storage backend, wires services
// into the REST layer and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/buildpanel/internal/logging"
	"github.com/dmitrijs2005/buildpanel/internal/server/config"
	"github.com/dmitrijs2005/buildpanel/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/buildpanel/internal/server/rest"
	"github.com/dmitrijs2005/buildpanel/internal/server/services"
	"github.com/dmitrijs2005/buildpanel/internal/storage"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	storage        storage.Provider
	authService    *services.AuthService
	projectService *services.ProjectService
	catalogService *services.CatalogService
	contactService *services.ContactService
}

// openDB and newStorage are seams for tests.
var (
	openDB     = repomanager.OpenDB
	newStorage = storage.New
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newStorage(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		storage:        store,
		authService:    services.NewAuthService(db, rm, c, logger),
		projectService: services.NewProjectService(db, rm, store, c, logger),
		catalogService: services.NewCatalogService(db, rm),
		contactService: services.NewContactService(db, rm, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) newRESTServer() *rest.RESTServer {
	return rest.NewRESTServer(app.config.EndpointAddrHTTP, app.logger, rest.Deps{
		Auth:     app.authService,
		Projects: app.projectService,
		Catalog:  app.catalogService,
		Contacts: app.contactService,
		Uploads:  app.storage.Handler(),
	}, rest.Options{
		CORSAllowedOrigins: app.config.CORSAllowedOrigins,
		RateLimitPerMinute: app.config.RateLimitPerMinute,
		MaxUploadSize:      app.config.MaxUploadSize,
	})
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.newRESTServer().Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageProvider)

	app.initSignalHandler(cancelFunc)

	// files left over from deletes interrupted by a previous shutdown
	app.projectService.RetryPendingDeletions(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
