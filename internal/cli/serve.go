package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/abacus"
	httpAdapter "github.com/aretw0/abacus/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/abacus/pkg/adapters/mcp"
)

// ServeOptions configure the HTTP host.
type ServeOptions struct {
	Port string

	// MCPPort additionally serves MCP over SSE when positive.
	MCPPort int
}

// Serve runs the HTTP API (and optionally the MCP SSE endpoint) until ctx is
// cancelled, then shuts both down gracefully. Sessions are shared.
func Serve(ctx context.Context, app *App, opts ServeOptions) error {
	sessions := app.Calc.NewManager()

	httpOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(app.Logger),
		httpAdapter.WithMaxInputSize(app.Config.MaxInputSize),
		httpAdapter.WithVersion(abacus.Version),
	}
	if app.Config.Server.Metrics {
		httpOpts = append(httpOpts, httpAdapter.WithMetricsHandler(app.Metrics.Handler()))
	}

	srv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           httpAdapter.NewHandler(app.Calc, sessions, httpOpts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info("Starting abacus HTTP server", "address", srv.Addr, "metrics", app.Config.Server.Metrics)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
			return srv.Close()
		}
		app.Logger.Info("abacus HTTP server stopped gracefully")
		return nil
	})

	if opts.MCPPort > 0 {
		mcpServer := mcpAdapter.NewServer(app.Calc, sessions, abacus.Version,
			mcpAdapter.WithLogger(app.Logger),
			mcpAdapter.WithMaxInputSize(app.Config.MaxInputSize),
		)
		g.Go(func() error {
			return mcpServer.ServeSSE(gctx, opts.MCPPort)
		})
	}

	return g.Wait()
}
