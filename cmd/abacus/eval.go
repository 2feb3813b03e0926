package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/abacus/internal/cli"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate one expression and print the result",
	Long: `Evaluates the expression (all arguments joined by spaces) and prints the
result. On an invalid expression it prints "Invalid expression" and exits 1.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}

		outcome, err := cli.Eval(context.Background(), app, strings.Join(args, " "), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if !outcome.IsSuccess() {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
