package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/presentation/tui"
	"github.com/aretw0/abacus/pkg/runner"
)

// REPLOptions configure an interactive session.
type REPLOptions struct {
	In  io.Reader
	Out io.Writer

	// JSON switches to JSON-Lines commands and responses.
	JSON bool

	// Interactive enables the banner, colours and markdown rendering.
	Interactive bool
}

// RunREPL drives a fresh session until the input ends or ctx is cancelled.
func RunREPL(ctx context.Context, app *App, opts REPLOptions) error {
	sess := app.Calc.NewSession()
	app.Logger.Info("Session Created", "session_id", sess.ID(), "angle_mode", app.Calc.AngleMode())

	var handler runner.IOHandler
	if opts.JSON {
		h := runner.NewJSONHandler(opts.In, opts.Out)
		h.Sanitizer.Limit = app.Config.MaxInputSize
		handler = h
	} else {
		textOpts := []runner.TextHandlerOption{
			runner.WithTextHandlerMaxInputSize(app.Config.MaxInputSize),
		}
		if opts.Interactive {
			profile := termenv.EnvColorProfile()
			tui.PrintBanner(opts.Out, profile, abacus.Version)
			textOpts = append(textOpts, runner.WithTextHandlerProfile(profile))
			if render, err := tui.NewRenderer(0); err == nil {
				textOpts = append(textOpts, runner.WithTextHandlerRenderer(render))
			} else {
				app.Logger.Warn("markdown renderer unavailable", "error", err)
			}
		} else if render, err := tui.NewPlainRenderer(); err == nil {
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(render))
		}
		handler = runner.NewTextHandler(opts.In, opts.Out, textOpts...)
	}

	r := runner.NewRunner(sess,
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(handler),
	)

	err := r.Run(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err == nil && opts.Interactive && !opts.JSON {
		fmt.Fprintln(opts.Out, "Bye!")
	}
	return err
}
