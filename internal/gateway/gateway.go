// Package gateway composes the dispatch engine with its supporting
// components: configuration, handler discovery, the audit log and the HTTP
// connector. It owns component lifecycle and the atomic rebuild of the
// routing/registry snapshot.
package gateway

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/eventgate-io/eventgate-go/internal/audit"
	"github.com/eventgate-io/eventgate-go/internal/config"
	"github.com/eventgate-io/eventgate-go/internal/discovery"
	"github.com/eventgate-io/eventgate-go/internal/dispatch"
	"github.com/eventgate-io/eventgate-go/internal/httpapi"
	"github.com/eventgate-io/eventgate-go/internal/registry"
	"github.com/eventgate-io/eventgate-go/pkg/handler"
	"github.com/eventgate-io/eventgate-go/pkg/routing"
)

// Gateway orchestrates the dispatch engine and its connectors.
type Gateway struct {
	mu     sync.Mutex
	cfg    *config.Config
	logger *zap.Logger

	discovery  discovery.Discovery
	dispatcher *dispatch.Dispatcher
	auditLog   *audit.Log
	httpServer *httpapi.Server

	started bool
	closed  bool
}

// New creates a gateway from configuration and a discovery source. The
// routing table and handler registry are not built until Start.
func New(cfg *config.Config, disc discovery.Discovery, logger *zap.Logger) (*Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if disc == nil {
		return nil, fmt.Errorf("discovery cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	auditLog := audit.NewLog(cfg.Audit.Capacity)
	g := &Gateway{
		cfg:        cfg,
		logger:     logger,
		discovery:  disc,
		auditLog:   auditLog,
		dispatcher: dispatch.New(nil, nil, logger, auditLog),
	}

	g.httpServer = httpapi.NewServer(g, httpapi.Config{
		Port:         cfg.Server.Port,
		SecretKey:    cfg.Auth.SecretKey,
		TokenTTL:     cfg.Auth.TokenTTL,
		NoAuth:       cfg.Auth.NoAuth,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, logger)

	return g, nil
}

// Start builds the first routing/registry snapshot and starts the HTTP
// connector. Idempotent.
func (g *Gateway) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return fmt.Errorf("cannot start closed gateway")
	}
	if g.started {
		return nil
	}

	if err := g.rebuildLocked(ctx); err != nil {
		return err
	}

	go func() {
		if err := g.httpServer.Start(); err != nil {
			g.logger.Error("http server stopped", zap.Error(err))
		}
	}()

	g.started = true
	return nil
}

// Rebuild re-runs discovery and routing construction and swaps the new
// snapshot in atomically. In-flight dispatches keep the snapshot they
// loaded; they never observe a partially built table.
func (g *Gateway) Rebuild(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return fmt.Errorf("cannot rebuild closed gateway")
	}
	return g.rebuildLocked(ctx)
}

func (g *Gateway) rebuildLocked(ctx context.Context) error {
	table, err := g.cfg.RoutingTable()
	if err != nil {
		return fmt.Errorf("failed to build routing table: %w", err)
	}

	candidates, err := g.discovery.Discover(ctx)
	if err != nil {
		return fmt.Errorf("handler discovery failed: %w", err)
	}

	reg, err := registry.Build(candidates, registry.Options{
		RejectCollisions: g.cfg.Registry.RejectCollisions,
		Logger:           g.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build handler registry: %w", err)
	}

	g.dispatcher.Swap(table, reg)
	return nil
}

// Stop gracefully shuts down the gateway.
func (g *Gateway) Stop(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started {
		return nil
	}

	if err := g.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop http server: %w", err)
	}
	g.started = false
	return nil
}

// Close releases resources. Safe to call multiple times.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}
	g.closed = true
	return g.auditLog.Close()
}

// Dispatch implements httpapi.Gateway by delegating to the dispatcher.
func (g *Gateway) Dispatch(ctx context.Context, transport string, attrs map[string]string, payload handler.Payload, mode dispatch.Mode) dispatch.Result {
	return g.dispatcher.Dispatch(ctx, transport, attrs, payload, mode)
}

// Handlers lists the registered handlers from the current snapshot.
func (g *Gateway) Handlers() []registry.Info {
	_, reg := g.dispatcher.Snapshot()
	return reg.ListAll()
}

// HandlerMetadata returns a handler's metadata by process name.
func (g *Gateway) HandlerMetadata(name string) (handler.Metadata, bool) {
	_, reg := g.dispatcher.Snapshot()
	h, ok := reg.Lookup(name)
	if !ok {
		return nil, false
	}
	return h.Metadata(), true
}

// Routings returns the current routing table in declaration order.
func (g *Gateway) Routings() []routing.Routing {
	table, _ := g.dispatcher.Snapshot()
	return table.Routings()
}

// RecentDispatches returns recent audit entries, newest first.
func (g *Gateway) RecentDispatches(limit int) ([]audit.Entry, error) {
	return g.auditLog.Recent(limit)
}

// DispatchCounts returns per-status dispatch totals.
func (g *Gateway) DispatchCounts() map[string]int64 {
	return g.auditLog.Counts()
}
