package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/abacus/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the calculator HTTP API with in-memory sessions, a server-sent
event stream per session and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}

		port := app.Config.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetString("port")
		}
		mcpPort, _ := cmd.Flags().GetInt("mcp-port")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, app, cli.ServeOptions{
			Port:    port,
			MCPPort: mcpPort,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on (default from config)")
	serveCmd.Flags().Int("mcp-port", 0, "Also serve MCP over SSE on this port")
}
