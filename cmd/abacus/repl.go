package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/abacus/internal/cli"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive calculator",
	Long: `Starts an interactive calculator session.

Type an expression to evaluate it. Lines starting with ':' are commands
(:help lists them). With --json, each input line is a JSON command and each
response is a JSON object.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")

		app, err := setup(cmd)
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		err = cli.RunREPL(sigCtx, app, cli.REPLOptions{
			In:          os.Stdin,
			Out:         os.Stdout,
			JSON:        jsonMode,
			Interactive: term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())),
		})
		if sig := sigCtx.Signal(); sig != nil {
			app.Logger.Info("REPL interrupted", "signal", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")

	// 'repl' is the default when no command is provided.
	rootCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	rootCmd.RunE = replCmd.RunE
}
