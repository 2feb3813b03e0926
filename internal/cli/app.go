package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/config"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/internal/metrics"
	"github.com/aretw0/abacus/pkg/domain"
)

// Options are the global flags shared by every command.
// Zero values leave the configuration untouched.
type Options struct {
	ConfigPath string
	LogLevel   string
	Degrees    bool

	// LogWriter receives log output. Nil means Stderr.
	LogWriter io.Writer
}

// App is the wired calculator with its ambient services.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Calc    *abacus.Calculator
	Metrics *metrics.Collectors
}

// Setup loads the configuration (file, then ABACUS_* environment, then
// flags) and builds the calculator.
func Setup(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.Degrees {
		cfg.AngleMode = string(domain.AngleDegrees)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	var logger *slog.Logger
	if opts.LogWriter != nil {
		logger = logging.NewWithWriter(opts.LogWriter, level)
	} else {
		logger = logging.New(level)
	}

	collectors := metrics.New()
	hooks := collectors.Hooks()
	if level <= slog.LevelDebug {
		hooks = hooks.Merge(createDebugHooks(logger))
	}

	calc, err := abacus.New(
		abacus.WithLogger(logger),
		abacus.WithPrecision(cfg.Precision),
		abacus.WithAngleMode(cfg.Angle()),
		abacus.WithLifecycleHooks(hooks),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing abacus: %w", err)
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Calc:    calc,
		Metrics: collectors,
	}, nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			logger.Debug("Command", "session_id", e.SessionID, "command", e.Command)
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvaluationEvent) {
			if e.Outcome.IsSuccess() {
				logger.Debug("Evaluate (Success)", "session_id", e.SessionID, "normalized", e.Normalized, "result", e.Outcome.ResultText)
			} else {
				logger.Debug("Evaluate (Failure)", "session_id", e.SessionID, "normalized", e.Normalized, "reason", e.Outcome.Reason)
			}
		},
	}
}
