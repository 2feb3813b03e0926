package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/runner"
)

// Eval evaluates one expression and prints the result, or the error message
// on failure. The outcome tells the caller which exit code to use.
func Eval(ctx context.Context, app *App, expression string, out io.Writer) (domain.Outcome, error) {
	clean, err := runner.Sanitizer{Limit: app.Config.MaxInputSize}.Clean(expression)
	if err != nil {
		return domain.Outcome{}, err
	}

	normalized, outcome := app.Calc.Evaluate(ctx, clean, app.Calc.AngleMode())
	app.Logger.Debug("eval", "expression", clean, "normalized", normalized, "outcome", outcome.Kind)

	if outcome.IsSuccess() {
		fmt.Fprintln(out, outcome.ResultText)
	} else {
		fmt.Fprintln(out, domain.InvalidExpressionMessage)
	}
	return outcome, nil
}
