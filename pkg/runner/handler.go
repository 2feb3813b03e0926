package runner

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (REPL) and JSON (Structured) modes.
type IOHandler interface {
	// Input reads the next request and translates it into session commands.
	// Returning io.EOF ends the loop.
	Input(ctx context.Context) ([]session.Command, error)

	// Output presents the result of applying the last request.
	Output(ctx context.Context, resp Response) error
}

// Response is what the runner reports after applying one request.
type Response struct {
	// Commands are the commands that were applied, in order.
	Commands []session.Command

	// State is the session snapshot after the commands ran.
	State *domain.State

	// Outcome is set when one of the commands evaluated the expression.
	Outcome *domain.Outcome

	// Err is set when a command was rejected (unknown command, bad argument).
	Err error
}

// Evaluated reports whether the response carries an evaluation outcome.
func (r Response) Evaluated() bool {
	return r.Outcome != nil
}

// last returns the name of the final command in the response.
func (r Response) last() session.CommandName {
	if len(r.Commands) == 0 {
		return ""
	}
	return r.Commands[len(r.Commands)-1].Name
}
