package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bookshelf/internal/config"
	"bookshelf/internal/watcher"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Addr  string
	Seed  string
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server until interrupted.

With --seed the store is replaced by the contents of a JSON or YAML
catalogue at startup; with --watch it is replaced again whenever the
file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch && opts.Seed == "" {
				return fmt.Errorf("--watch requires --seed")
			}

			cfg, path, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if opts.Addr != "" {
				cfg.Server.Addr = opts.Addr
			}
			if path != "" {
				log.Printf("Config loaded: %s", path)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
			}
			return runServer(ctx, cfg, opts, ln)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "catalogue file loaded at startup")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "reload the seed catalogue when it changes")

	return cmd
}

// runServer serves on ln until ctx is cancelled, then shuts down gracefully
func runServer(ctx context.Context, cfg *config.Config, opts *ServeOptions, ln net.Listener) error {
	log.Println("Starting Bookshelf server...")

	store, err := OpenStore(cfg.Database.URL)
	if err != nil {
		ln.Close()
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()
	log.Printf("Store opened: %s", cfg.Database.URL)

	app := NewApp(cfg, store)

	eventsCtx, cancelEvents := context.WithCancel(context.Background())
	defer cancelEvents()
	app.StartEvents(eventsCtx)

	if opts.Seed != "" {
		if err := seed(ctx, app, opts.Seed); err != nil {
			ln.Close()
			return err
		}
		if opts.Watch {
			w := watcher.New(opts.Seed, func(path string) {
				if err := seed(ctx, app, path); err != nil {
					log.Printf("Failed to reload seed: %v", err)
				}
			})
			go func() {
				if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("Seed watcher stopped: %v", err)
				}
			}()
		}
	}

	server := &http.Server{
		Handler:      app.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", ln.Addr())
		if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")

	// Close event streams first so Shutdown does not wait on them
	cancelEvents()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
		return err
	}

	log.Println("Server stopped")
	return nil
}

// seed replaces the store contents with the catalogue at path
func seed(ctx context.Context, app *App, path string) error {
	cat, err := readCatalogue(path, "")
	if err != nil {
		return err
	}
	if err := app.Catalogue.Replace(ctx, cat); err != nil {
		return err
	}
	log.Printf("Seeded %d records from %s", cat.Len(), path)
	return nil
}
