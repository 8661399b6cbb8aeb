package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"mdblog/app/config"
	"mdblog/app/content"
	"mdblog/app/controllers"
	"mdblog/app/logger"
	"mdblog/app/markdown"
	"mdblog/app/metrics"
	"mdblog/app/routes"
	"mdblog/public"
)

// App is the blog service: the router plus the listeners it is served on.
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	router  http.Handler
	metrics *metrics.Metrics
}

// NewApp wires the resolver, renderer and routes described by cfg.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}

	resolver, err := content.NewResolver(cfg.Content.Root)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	router := routes.SetupRoutes(routes.Dependencies{
		Resolver: resolver,
		Renderer: markdown.NewRenderer(),
		Options:  Options(cfg),
		Assets:   public.Assets,
		Logger:   log,
		Metrics:  m,
	})

	return &App{
		cfg:     cfg,
		log:     log.WithComponent("server"),
		router:  router,
		metrics: m,
	}, nil
}

// Options derives the controller options from the configuration.
func Options(cfg *config.Config) controllers.Options {
	return controllers.Options{
		DefaultPost:  cfg.Content.DefaultPost,
		NotFoundFile: cfg.Content.NotFoundFile,
		SiteTitle:    cfg.Site.Title,
	}
}

// Handler returns the blog router.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run listens on the configured addresses and serves until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
	}

	var metricsLn net.Listener
	if a.metrics != nil {
		metricsLn, err = net.Listen("tcp", a.cfg.Metrics.Addr)
		if err != nil {
			ln.Close()
			return fmt.Errorf("listen %s: %w", a.cfg.Metrics.Addr, err)
		}
	}

	return a.Serve(ctx, ln, metricsLn)
}

// Serve serves the blog on ln, and metrics on metricsLn when it is not nil,
// until ctx is done. It then shuts both servers down gracefully.
func (a *App) Serve(ctx context.Context, ln, metricsLn net.Listener) error {
	servers := []*http.Server{a.newServer(a.router)}
	listeners := []net.Listener{ln}

	if metricsLn != nil && a.metrics != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.metrics.Handler())
		servers = append(servers, a.newServer(mux))
		listeners = append(listeners, metricsLn)
	} else if metricsLn != nil {
		metricsLn.Close()
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range servers {
		srv, l := servers[i], listeners[i]
		g.Go(func() error {
			a.log.Infow("listening", "addr", l.Addr().String())
			if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", l.Addr(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.log.Infow("shutting down", "timeout", a.cfg.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func (a *App) newServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadTimeout:       a.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: a.cfg.Server.ReadTimeout,
		WriteTimeout:      a.cfg.Server.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}
}
