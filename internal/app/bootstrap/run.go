// internal/app/bootstrap/run.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/dalemusser/taskhub/internal/app/store/docstore"
	"github.com/dalemusser/taskhub/internal/app/system/metrics"
	"github.com/dalemusser/taskhub/internal/app/system/ratelimit"
	"github.com/dalemusser/taskhub/internal/app/system/watch"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run validates cfg, opens the collections on the OS filesystem and serves
// HTTP on cfg.HTTPAddr until ctx is cancelled.
func Run(ctx context.Context, cfg AppConfig, logger *zap.Logger) error {
	if err := ValidateConfig(cfg, logger); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	return Serve(ctx, cfg, afero.NewOsFs(), ln, logger)
}

// Serve runs the service on ln with collections stored on fsys. The file
// watcher and the rate limiter's pruning run next to the HTTP server when
// enabled; Serve returns once all of them have stopped.
func Serve(ctx context.Context, cfg AppConfig, fsys afero.Fs, ln net.Listener, logger *zap.Logger) error {
	var (
		svc  Services
		opts []docstore.Option
	)
	if cfg.MetricsEnabled {
		m, err := metrics.New()
		if err != nil {
			ln.Close()
			return err
		}
		svc.Metrics = m
		opts = append(opts, docstore.WithObserver(m))
	}
	if cfg.RateLimit > 0 {
		svc.Limiter = ratelimit.New(cfg.RateLimit, cfg.RateWindow)
	}

	deps, err := ConnectDB(cfg, fsys, logger, opts...)
	if err != nil {
		ln.Close()
		return err
	}
	if err := Startup(ctx, cfg, deps, logger); err != nil {
		ln.Close()
		return err
	}
	handler, err := BuildHandler(cfg, deps, svc, logger)
	if err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.WatchFiles {
		var rep watch.Reporter
		if svc.Metrics != nil {
			rep = svc.Metrics
		}
		w := watch.New(deps.Registry, logger.Named("watch"), rep, watch.Config{Debounce: cfg.WatchDebounce})
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	if svc.Limiter != nil {
		g.Go(func() error {
			svc.Limiter.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return Shutdown(sctx, srv, deps, logger)
	})

	return g.Wait()
}
