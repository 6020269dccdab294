package cli

import (
	"context"
	"fmt"
	"net/http"

	"bookshelf/internal/config"
	"bookshelf/internal/handler"
	"bookshelf/internal/hub"
	"bookshelf/internal/repository"
	"bookshelf/internal/repository/memory"
	"bookshelf/internal/repository/sqlite"
	"bookshelf/internal/service"
)

// Store is a repository store that can report its reachability
type Store interface {
	repository.Store
	Ping(ctx context.Context) error
}

// OpenStore opens the store named by a connection string
func OpenStore(dsn string) (Store, error) {
	parsed, err := repository.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	switch parsed.Driver {
	case repository.DriverMemory:
		return memory.New(), nil
	case repository.DriverSQLite:
		store, err := sqlite.New(parsed.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", parsed.Driver)
	}
}

// App wires services, the event stream and the HTTP router around a store
type App struct {
	Store     Store
	EventBus  *service.EventBus
	Hub       *hub.Hub
	Books     *service.BookService
	Students  *service.StudentService
	Posts     *service.PostService
	Catalogue *service.CatalogueService

	cfg *config.Config
}

// NewApp builds the application graph. The hub is created but not started.
func NewApp(cfg *config.Config, store Store) *App {
	bus := service.NewEventBus()
	return &App{
		Store:     store,
		EventBus:  bus,
		Hub:       hub.New(hub.WithKeepAlive(cfg.Events.KeepAlive.Duration())),
		Books:     service.NewBookService(store, bus),
		Students:  service.NewStudentService(store, bus),
		Posts:     service.NewPostService(store, bus),
		Catalogue: service.NewCatalogueService(store, bus),
		cfg:       cfg,
	}
}

// Handler returns the fully wrapped HTTP handler
func (a *App) Handler() http.Handler {
	svc := handler.Services{
		Books:     a.Books,
		Students:  a.Students,
		Posts:     a.Posts,
		Catalogue: a.Catalogue,
		Store:     a.Store,
	}
	if a.cfg.Events.StreamEnabled() {
		svc.Events = a.Hub
	}
	return handler.NewRouter(svc, corsConfig(a.cfg.CORS))
}

// StartEvents runs the hub and relays service events to it until ctx is
// cancelled
func (a *App) StartEvents(ctx context.Context) {
	if !a.cfg.Events.StreamEnabled() {
		return
	}
	go a.Hub.Run(ctx)
	go a.Hub.Relay(ctx, a.EventBus)
}

// corsConfig overlays the configured values on the handler defaults
func corsConfig(c config.CORSConfig) handler.CORSConfig {
	cors := handler.DefaultCORSConfig()
	if len(c.AllowedOrigins) > 0 {
		cors.AllowedOrigins = c.AllowedOrigins
	}
	if len(c.AllowedMethods) > 0 {
		cors.AllowedMethods = c.AllowedMethods
	}
	if len(c.AllowedHeaders) > 0 {
		cors.AllowedHeaders = c.AllowedHeaders
	}
	if c.MaxAge > 0 {
		cors.MaxAge = c.MaxAge.Duration()
	}
	cors.AllowCredentials = c.AllowCredentials
	return cors
}
