// Package server composes the REST and MCP transports into one process handler.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hylla/lyst/internal/adapters/server/common"
	"github.com/hylla/lyst/internal/adapters/server/httpapi"
	"github.com/hylla/lyst/internal/adapters/server/mcpapi"
)

// defaultBindAddress keeps serve mode on localhost unless configured otherwise.
const defaultBindAddress = "127.0.0.1:8080"

// defaultShutdownTimeout bounds graceful shutdown once cancellation starts.
const defaultShutdownTimeout = 5 * time.Second

// Config defines serve-mode endpoint configuration.
type Config struct {
	HTTPBind      string
	APIEndpoint   string
	MCPEndpoint   string
	ServerName    string
	ServerVersion string
}

// Dependencies defines app-facing adapters required by server transports.
type Dependencies struct {
	Checklist common.ChecklistService
}

// withDefaults fills unset fields and rejects endpoint collisions.
func (c Config) withDefaults() (Config, error) {
	c.HTTPBind = strings.TrimSpace(c.HTTPBind)
	if c.HTTPBind == "" {
		c.HTTPBind = defaultBindAddress
	}
	c.APIEndpoint = normalizeEndpoint(c.APIEndpoint, "/api/v1")
	c.MCPEndpoint = normalizeEndpoint(c.MCPEndpoint, "/mcp")
	if c.APIEndpoint == c.MCPEndpoint {
		return Config{}, errors.New("api and mcp endpoints must differ")
	}
	c.ServerName = strings.TrimSpace(c.ServerName)
	if c.ServerName == "" {
		c.ServerName = "lyst"
	}
	c.ServerVersion = strings.TrimSpace(c.ServerVersion)
	if c.ServerVersion == "" {
		c.ServerVersion = "dev"
	}
	return c, nil
}

// NewHandler composes health, REST, and MCP endpoints into one root mux and
// returns the defaulted configuration actually in effect.
func NewHandler(cfg Config, deps Dependencies) (http.Handler, Config, error) {
	if deps.Checklist == nil {
		return nil, Config{}, errors.New("checklist dependency is required")
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, Config{}, err
	}

	mcpHandler, err := mcpapi.NewHandler(
		mcpapi.Config{
			ServerName:    cfg.ServerName,
			ServerVersion: cfg.ServerVersion,
			EndpointPath:  cfg.MCPEndpoint,
		},
		deps.Checklist,
	)
	if err != nil {
		return nil, Config{}, fmt.Errorf("configure mcp handler: %w", err)
	}

	api := http.StripPrefix(cfg.APIEndpoint, httpapi.NewHandler(deps.Checklist))
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", serveHealth)
	mux.HandleFunc("/readyz", serveHealth)
	mux.Handle(cfg.MCPEndpoint, mcpHandler)
	mux.Handle(cfg.APIEndpoint, api)
	mux.Handle(cfg.APIEndpoint+"/", api)
	return mux, cfg, nil
}

// Run serves the composed handler until the context is cancelled or the
// listener fails. Cancellation drains in-flight requests before returning.
func Run(ctx context.Context, cfg Config, deps Dependencies) error {
	if ctx == nil {
		ctx = context.Background()
	}
	handler, cfg, err := NewHandler(cfg, deps)
	if err != nil {
		return fmt.Errorf("build server handler: %w", err)
	}
	srv := &http.Server{
		Addr:    cfg.HTTPBind,
		Handler: handler,
	}

	shutdownResult := make(chan error, 1)
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		shutdownResult <- srv.Shutdown(shutdownCtx)
	})
	defer stop()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	// Shutdown is the only closer of this server, so ErrServerClosed means
	// the AfterFunc fired; wait for the drain to finish.
	if err := <-shutdownResult; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

// normalizeEndpoint reduces one endpoint path to a single leading-slash form,
// falling back when nothing usable remains.
func normalizeEndpoint(path, fallback string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return fallback
	}
	return "/" + trimmed
}

// serveHealth answers liveness and readiness probes.
func serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}
