package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/session"
)

// Runner drives one session from an IOHandler until the input ends.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Session receives every command read from the handler.
	Session *session.Session

	// Handler is the strategy for IO. If nil, a TextHandler over Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Renderer is handed to the default TextHandler.
	Renderer ContentRenderer
}

// NewRunner creates a Runner for the given session.
func NewRunner(s *session.Session, opts ...Option) *Runner {
	r := &Runner{
		Session: s,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads requests until the handler reports io.EOF or ctx is done.
// Rejected commands are reported through the handler and do not stop the loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.Session == nil {
		return errors.New("runner: no session")
	}
	handler := r.resolveHandler()
	logger := r.logger()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		cmds, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if isRequestError(err) {
				if err := handler.Output(ctx, Response{State: r.Session.State(), Err: err}); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				continue
			}
			return err
		}

		resp := r.apply(ctx, cmds)
		if resp.Err != nil {
			logger.Debug("command rejected", "session_id", r.Session.ID(), "err", resp.Err)
		}
		if err := handler.Output(ctx, resp); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

// apply runs commands in order, stopping at the first rejected one.
func (r *Runner) apply(ctx context.Context, cmds []session.Command) Response {
	resp := Response{Commands: cmds}
	for _, cmd := range cmds {
		outcome, err := r.Session.Apply(ctx, cmd)
		if err != nil {
			resp.Err = err
			break
		}
		if outcome != nil {
			resp.Outcome = outcome
		}
	}
	resp.State = r.Session.State()
	return resp
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	r.Handler = NewTextHandler(os.Stdin, os.Stdout, WithTextHandlerRenderer(r.Renderer))
	return r.Handler
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func isRequestError(err error) bool {
	return errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrUnknownCommand)
}
