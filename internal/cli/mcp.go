package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/abacus"
	mcpAdapter "github.com/aretw0/abacus/pkg/adapters/mcp"
)

// MCPOptions configure the MCP host.
type MCPOptions struct {
	Transport string
	Port      int
}

// ServeMCP runs the MCP server on the chosen transport.
func ServeMCP(ctx context.Context, app *App, opts MCPOptions) error {
	srv := mcpAdapter.NewServer(app.Calc, app.Calc.NewManager(), abacus.Version,
		mcpAdapter.WithLogger(app.Logger),
		mcpAdapter.WithMaxInputSize(app.Config.MaxInputSize),
	)

	switch strings.ToLower(opts.Transport) {
	case "stdio":
		app.Logger.Info("Starting abacus MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		app.Logger.Info("Starting abacus MCP Server (SSE)", "port", opts.Port)
		if err := srv.ServeSSE(ctx, opts.Port); err != nil {
			return err
		}
		app.Logger.Info("MCP Server stopped gracefully")
		return nil
	}
	return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
}
