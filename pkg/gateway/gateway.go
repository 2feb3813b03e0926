// Package gateway bridges normalized expression text to a ports.Evaluator
// and classifies what comes back.
package gateway

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
)

// DefaultPrecision is the number of significant digits kept in float results.
const DefaultPrecision = 14

// Gateway invokes the evaluator and turns its result into an Outcome.
// It holds no per-request state and is safe for concurrent use if the
// evaluator is.
type Gateway struct {
	evaluator ports.Evaluator
	precision int
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Gateway.
type Option func(*Gateway)

// WithPrecision sets the significant digits used for float results.
// Values <= 0 keep the shortest exact representation.
func WithPrecision(p int) Option {
	return func(g *Gateway) {
		g.precision = p
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Gateway around the given evaluator.
func New(evaluator ports.Evaluator, opts ...Option) *Gateway {
	g := &Gateway{
		evaluator: evaluator,
		precision: DefaultPrecision,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Precision returns the configured significant digits.
func (g *Gateway) Precision() int {
	return g.precision
}

// Evaluate runs normalized text through the evaluator.
// Blank text evaluates as "0". Every evaluator error, panic or empty value
// becomes Failure(ErrorInvalidExpression); nothing is retried.
func (g *Gateway) Evaluate(ctx context.Context, normalized string) (outcome domain.Outcome) {
	text := strings.TrimSpace(normalized)
	if text == "" {
		text = "0"
	}

	defer func() {
		if r := recover(); r != nil {
			g.logger.WarnContext(ctx, "evaluator panicked", "expression", text, "panic", r)
			outcome = domain.Failure(domain.ErrorInvalidExpression)
		}
	}()

	value, err := g.evaluator.Evaluate(text)
	if err != nil {
		g.logger.DebugContext(ctx, "evaluation failed", "expression", text, "err", err)
		return domain.Failure(domain.ErrorInvalidExpression)
	}
	if value == nil {
		g.logger.DebugContext(ctx, "evaluation produced no value", "expression", text)
		return domain.Failure(domain.ErrorInvalidExpression)
	}

	return domain.Success(FormatResult(value, g.precision))
}
