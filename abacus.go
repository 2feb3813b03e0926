package abacus

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/abacus/pkg/adapters/exprlang"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/gateway"
	"github.com/aretw0/abacus/pkg/normalize"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/session"
)

// Version is the release of the Abacus module.
const Version = "0.4.0"

// Calculator is the high-level entry point for the Abacus library.
// It wires the evaluator, the gateway and the session defaults, and hands
// out sessions for presentation hosts.
type Calculator struct {
	evaluator ports.Evaluator
	gateway   *gateway.Gateway
	precision int
	angleMode domain.AngleMode
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Calculator.
type Option func(*Calculator)

// WithEvaluator injects a custom evaluator, bypassing the default expr-lang adapter.
func WithEvaluator(ev ports.Evaluator) Option {
	return func(c *Calculator) {
		c.evaluator = ev
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks on every session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Calculator) {
		c.hooks = hooks
	}
}

// WithPrecision sets the significant digits of float results (default 14).
func WithPrecision(p int) Option {
	return func(c *Calculator) {
		c.precision = p
	}
}

// WithAngleMode sets the angle mode new sessions start in (default radians).
func WithAngleMode(mode domain.AngleMode) Option {
	return func(c *Calculator) {
		c.angleMode = mode
	}
}

// New initializes a Calculator.
// By default it evaluates with the expr-lang adapter.
func New(opts ...Option) (*Calculator, error) {
	c := &Calculator{
		precision: gateway.DefaultPrecision,
		angleMode: domain.AngleRadians,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.evaluator == nil {
		c.evaluator = exprlang.New()
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if _, err := domain.ParseAngleMode(string(c.angleMode)); err != nil {
		return nil, err
	}

	c.gateway = gateway.New(c.evaluator,
		gateway.WithPrecision(c.precision),
		gateway.WithLogger(c.logger),
	)
	return c, nil
}

// NewSession creates a session with the calculator's defaults.
// Extra options are applied after the defaults.
func (c *Calculator) NewSession(opts ...session.Option) *session.Session {
	base := []session.Option{
		session.WithAngleMode(c.angleMode),
		session.WithLogger(c.logger),
		session.WithLifecycleHooks(c.hooks),
	}
	return session.New(c.gateway, append(base, opts...)...)
}

// NewManager creates a session manager whose sessions use the calculator's defaults.
func (c *Calculator) NewManager() *session.Manager {
	return session.NewManager(func(id string) *session.Session {
		return c.NewSession(session.WithID(id))
	}, session.WithManagerLogger(c.logger))
}

// Evaluate normalizes and evaluates a single expression without a session.
// It returns the normalized text alongside the outcome. OnEvaluate hooks
// fire with an empty session ID.
func (c *Calculator) Evaluate(ctx context.Context, expression string, mode domain.AngleMode) (string, domain.Outcome) {
	normalized := normalize.Normalize(expression, mode)

	start := time.Now()
	outcome := c.gateway.Evaluate(ctx, normalized)

	if c.hooks.OnEvaluate != nil {
		c.hooks.OnEvaluate(ctx, &domain.EvaluationEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventEvaluation,
			},
			Expression: expression,
			Normalized: normalized,
			AngleMode:  mode,
			Outcome:    outcome,
			Duration:   time.Since(start),
		})
	}
	return normalized, outcome
}

// Gateway returns the underlying evaluation gateway.
func (c *Calculator) Gateway() *gateway.Gateway {
	return c.gateway
}

// AngleMode returns the default angle mode of new sessions.
func (c *Calculator) AngleMode() domain.AngleMode {
	return c.angleMode
}
