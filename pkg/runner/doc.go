/*
Package runner implements the interactive loop that drives a calculator session.

The runner reads requests from a pluggable IOHandler, applies them to a
session.Session as commands and hands the resulting state and outcome back to
the handler for display.

# Key Components

  - Runner: the loop. It stops on io.EOF or context cancellation.
  - IOHandler: decouples how requests are read and shown.
  - TextHandler: a REPL. Plain lines are evaluated, ":"-prefixed lines are commands.
  - JSONHandler: JSON-Lines commands in, JSON states out, for scripted hosts.

# Usage

	r := runner.NewRunner(sess,
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
