package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/abacus/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "abacus",
	Short: "Abacus is an interactive scientific calculator",
	Long: `Abacus evaluates arithmetic and scientific expressions with a
most-recent-first history, in radians or degrees.

Run it without a command for the interactive REPL, or use eval, serve and mcp
to embed it in scripts, web front ends and AI agents.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().Bool("deg", false, "Use degrees for trigonometric functions")
}

// setup builds the application from the persistent flags.
func setup(cmd *cobra.Command) (*cli.App, error) {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	degrees, _ := cmd.Flags().GetBool("deg")

	return cli.Setup(cli.Options{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		Degrees:    degrees,
	})
}
