package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-storeadmin/internal/config"
	"github.com/goliatone/go-storeadmin/internal/server"
	"github.com/goliatone/go-storeadmin/internal/storage/sqlite"
	"github.com/goliatone/go-storeadmin/pkg/render"
)

const readHeaderTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the store API and the admin dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("listen", "", "listen address (default :3000)")
	return cmd
}

func (a *app) dashboard() (*render.Dashboard, error) {
	opts := []render.Option{
		render.WithCatalog(a.catalog),
		render.WithBrand(a.cfg.Brand),
		render.WithAPIBase(a.cfg.APIBase),
	}
	if a.cfg.Templates != "" {
		opts = append(opts, render.WithTemplates(os.DirFS(a.cfg.Templates)))
	}
	if t := a.cfg.Theme; t != (config.Theme{}) {
		themes := []*theme.Manifest{render.DefaultManifest()}
		if t.File != "" {
			data, err := os.ReadFile(t.File)
			if err != nil {
				return nil, fmt.Errorf("read theme: %w", err)
			}
			manifest, err := render.ParseManifest(data, t.File)
			if err != nil {
				return nil, err
			}
			// A theme file becomes the default unless another name is set.
			themes = append([]*theme.Manifest{manifest}, themes...)
		}
		themeCfg, err := render.SelectTheme(render.NewThemeSet(themes...), t.Name, t.Variant)
		if err != nil {
			return nil, err
		}
		opts = append(opts, render.WithTheme(themeCfg))
	}
	return render.New(opts...)
}

// serve runs the HTTP server until ctx ends, then drains connections for
// up to the configured shutdown timeout.
func (a *app) serve(ctx context.Context) error {
	store, err := sqlite.Open(a.cfg.Database,
		sqlite.WithCatalog(a.catalog),
		sqlite.WithLogger(a.logger.With().Str("component", "storage").Logger()),
	)
	if err != nil {
		return err
	}
	defer store.Close()

	pages, err := a.dashboard()
	if err != nil {
		return err
	}
	srv, err := server.New(store,
		server.WithCatalog(a.catalog),
		server.WithPages(pages),
		server.WithLogger(a.logger.With().Str("component", "server").Logger()),
		server.WithTracerProvider(a.tp),
	)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", a.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Listen, err)
	}
	httpServer := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info().Str("addr", listener.Addr().String()).Str("database", a.cfg.Database).Msg("serving dashboard")
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		a.logger.Info().Msg("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
