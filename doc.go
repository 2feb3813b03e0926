/*
Package abacus is the core of an interactive calculator: it prepares user
input for a math-expression evaluator, classifies what the evaluator returns
and keeps the session state a presentation layer renders.

Every evaluation request goes through three steps:

  - Normalizer: replaces the π glyph with pi and, in degree mode, rewrites
    sin(, cos( and tan( so their argument is scaled by (pi/180).
  - Gateway: evaluates the normalized text through a ports.Evaluator and
    returns an Outcome (Success with display text, or Failure).
  - Session: folds the Outcome into the state (output, error flag,
    most-recent-first history).

Hosts (the REPL, the HTTP API, the MCP server) only issue named commands
against a session and read its State back. No command returns an error for
a bad expression; the error flag carries it.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/abacus"
	)

	func main() {
		calc, err := abacus.New()
		if err != nil {
			log.Fatal(err)
		}

		s := calc.NewSession()
		s.Insert("2+3*4")
		s.EvaluateCurrentExpression(context.Background())

		fmt.Println(s.State().Output) // 14
	}
*/
package abacus
