package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/gateway"
	"github.com/aretw0/abacus/pkg/normalize"
)

// Session is the single owner of a calculator state.
type Session struct {
	id      string
	gateway *gateway.Gateway
	logger  *slog.Logger
	hooks   domain.LifecycleHooks

	mu    sync.RWMutex
	state *domain.State
}

// Option defines a functional option for configuring a Session.
type Option func(*Session)

// WithID labels the session (used in logs and events).
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithAngleMode sets the initial angle mode (default: radians).
func WithAngleMode(mode domain.AngleMode) Option {
	return func(s *Session) {
		s.state.AngleMode = mode
	}
}

// WithView sets the initial view (default: basic).
func WithView(view domain.ViewMode) Option {
	return func(s *Session) {
		s.state.View = view
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// New creates a session that evaluates through gw.
func New(gw *gateway.Gateway, opts ...Option) *Session {
	s := &Session{
		gateway: gw,
		logger:  logging.NewNop(),
		state:   domain.NewState(domain.AngleRadians, domain.ViewBasic),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id != "" {
		s.logger = s.logger.With("session_id", s.id)
	}
	return s
}

// ID returns the session label, possibly empty.
func (s *Session) ID() string {
	return s.id
}

// State returns a deep copy of the current state.
func (s *Session) State() *domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Snapshot()
}

// History returns a copy of the history, most recent first.
func (s *Session) History() []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(s.state.History))
	copy(out, s.state.History)
	return out
}

// HistoryEntry returns the entry at position i (0 is the most recent).
func (s *Session) HistoryEntry(i int) (domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.state.History) {
		return domain.HistoryEntry{}, domain.ErrHistoryIndex
	}
	return s.state.History[i], nil
}

func (s *Session) update(fn func(st *domain.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func clearError(st *domain.State) {
	st.Error = false
	st.ErrorMessage = ""
}

// Insert appends text to the expression and clears the error flag.
// Output is kept.
func (s *Session) Insert(text string) {
	s.update(func(st *domain.State) {
		st.Expression += text
		clearError(st)
	})
}

// SetExpression replaces the expression wholesale, as direct text entry does.
// Output and the error flag are left alone.
func (s *Session) SetExpression(text string) {
	s.update(func(st *domain.State) {
		st.Expression = text
	})
}

// Backspace removes the last character of the expression, if any, and
// clears the error flag.
func (s *Session) Backspace() {
	s.update(func(st *domain.State) {
		if e := st.Expression; e != "" {
			_, size := utf8.DecodeLastRuneInString(e)
			st.Expression = e[:len(e)-size]
		}
		clearError(st)
	})
}

// ClearExpression resets expression, output and error flag.
func (s *Session) ClearExpression() {
	s.update(clearInput)
}

func clearInput(st *domain.State) {
	st.Expression = ""
	st.Output = ""
	clearError(st)
}

// ToggleAngleMode flips between radians and degrees.
// Nothing is re-evaluated.
func (s *Session) ToggleAngleMode() {
	s.update(func(st *domain.State) {
		st.AngleMode = st.AngleMode.Toggle()
	})
}

// SetAngleMode sets the angle mode explicitly.
func (s *Session) SetAngleMode(mode domain.AngleMode) {
	s.update(func(st *domain.State) {
		st.AngleMode = mode
	})
}

// SwitchView activates a panel. Basic and scientific also clear the input;
// history leaves everything else untouched.
func (s *Session) SwitchView(view domain.ViewMode) {
	s.update(func(st *domain.State) {
		st.View = view
		if view.ClearsInput() {
			clearInput(st)
		}
	})
}

// ClearHistory empties the history.
func (s *Session) ClearHistory() {
	s.update(func(st *domain.State) {
		st.History = []domain.HistoryEntry{}
	})
}

// RecallHistoryEntry loads a past entry back into the basic panel.
func (s *Session) RecallHistoryEntry(entry domain.HistoryEntry) {
	s.update(func(st *domain.State) {
		st.Expression = entry.Expression
		st.Output = entry.ResultText
		clearError(st)
		st.View = domain.ViewBasic
	})
}

// RecallLastAnswer is Insert(Output). With an empty output it inserts
// nothing but still clears the error flag.
func (s *Session) RecallLastAnswer() {
	s.update(func(st *domain.State) {
		st.Expression += st.Output
		clearError(st)
	})
}

// EvaluateCurrentExpression normalizes the expression, evaluates it and
// folds the outcome into the state. The expression itself is kept.
func (s *Session) EvaluateCurrentExpression(ctx context.Context) domain.Outcome {
	s.mu.Lock()

	expression, mode := s.state.Expression, s.state.AngleMode
	normalized := normalize.Normalize(expression, mode)

	start := time.Now()
	outcome := s.gateway.Evaluate(ctx, normalized)
	elapsed := time.Since(start)

	if outcome.IsSuccess() {
		s.state.Output = outcome.ResultText
		clearError(s.state)
		s.state.History = append([]domain.HistoryEntry{{
			Expression: expression,
			ResultText: outcome.ResultText,
		}}, s.state.History...)
	} else {
		s.state.Error = true
		s.state.ErrorMessage = domain.InvalidExpressionMessage
		s.state.Output = ""
	}
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "expression evaluated",
		"expression", expression,
		"normalized", normalized,
		"angle_mode", mode,
		"outcome", outcome.Kind,
		"duration", elapsed,
	)

	if s.hooks.OnEvaluate != nil {
		s.hooks.OnEvaluate(ctx, &domain.EvaluationEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventEvaluation,
				SessionID: s.id,
			},
			Expression: expression,
			Normalized: normalized,
			AngleMode:  mode,
			Outcome:    outcome,
			Duration:   elapsed,
		})
	}

	return outcome
}
