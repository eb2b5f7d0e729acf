// Package app wires the reconciler together: registry, asset cache,
// applier, render loop and the socket.io host boundary, all behind one App
// with a blocking Run.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/wavekit/wavegraph/internal/applier"
	"github.com/wavekit/wavegraph/internal/assets"
	"github.com/wavekit/wavegraph/internal/audio"
	"github.com/wavekit/wavegraph/internal/ctxlog"
	"github.com/wavekit/wavegraph/internal/registry"
	"github.com/wavekit/wavegraph/internal/server"
	"github.com/wavekit/wavegraph/internal/ticker"
	"github.com/wavekit/wavegraph/internal/wire"
)

// App owns the assembled components and their lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	reg     *registry.Registry
	cache   *assets.Cache
	applier *applier.Applier
	server  *server.Server
	ticker  *ticker.Ticker
}

// NewApp assembles a fully wired App. Passing no modules installs the
// built-in kind handlers; tests can substitute their own. Registration
// conflicts panic — that is a programmer error, recovered at the CLI
// boundary.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Node kind handlers registered.", "kinds", reg.Kinds())

	cache := assets.New(logger)

	var opts []applier.Option
	if cfg.SampleRate > 0 {
		rate := cfg.SampleRate
		opts = append(opts, applier.WithContextFactory(func() (*audio.Context, error) {
			return audio.NewContext(audio.WithSampleRate(rate))
		}))
	}
	ap := applier.New(logger, reg, cache, opts...)

	srv := server.New(logger, ap, cache)
	tick := ticker.New(cfg.TickInterval, ap.Now, srv.Tick)

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		reg:     reg,
		cache:   cache,
		applier: ap,
		server:  srv,
		ticker:  tick,
	}
}

// Applier exposes the applier, primarily for tests.
func (a *App) Applier() *applier.Applier { return a.applier }

// Run starts the render loop and serves the host boundary until ctx is
// cancelled. Stopping is permanent: the render loop never restarts.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.GraphFile != "" {
		if err := a.applyGraphFile(a.config.GraphFile); err != nil {
			return err
		}
	}
	if len(a.config.Assets) > 0 {
		a.logger.Info("Preloading declared assets.", "count", len(a.config.Assets))
		a.cache.Preload(a.config.Assets)
	}

	a.ticker.Start()
	defer func() {
		a.ticker.Stop()
		a.applier.Close()
	}()

	httpServer := &http.Server{
		Addr:        a.config.ListenAddr,
		Handler:     a.server.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		a.logger.Info("Shutting down.")
		a.ticker.Stop()
		a.server.Close()
		httpServer.Shutdown(context.Background())
	}()

	a.logger.Info("🎛️  Host boundary listening.", "address", a.config.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) applyGraphFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read graph file: %w", err)
	}
	g, err := wire.DecodeGraph(data)
	if err != nil {
		return fmt.Errorf("failed to decode graph file %s: %w", path, err)
	}
	a.logger.Info("Applying startup graph.", "path", path, "nodes", len(g))
	a.applier.Apply(g)
	return nil
}
