package domain

// HistoryEntry pairs a past expression with the result it produced.
// Entries are only created from successful evaluations.
type HistoryEntry struct {
	Expression string `json:"expression"`
	ResultText string `json:"result"`
}

// State represents the current snapshot of a calculator session.
type State struct {
	// Expression is the unevaluated user input.
	Expression string `json:"expression"`

	// Output is the last successful result text, empty when absent.
	Output string `json:"output"`

	// Error is the error indicator. Output and Error are mutually exclusive.
	Error bool `json:"error"`

	// ErrorMessage is InvalidExpressionMessage while Error is set, empty otherwise.
	ErrorMessage string `json:"error_message,omitempty"`

	AngleMode AngleMode `json:"angle_mode"`
	View      ViewMode  `json:"view"`

	// History is ordered most-recent-first.
	History []HistoryEntry `json:"history"`
}

// NewState creates a clean state in the given angle mode and view.
func NewState(mode AngleMode, view ViewMode) *State {
	return &State{
		AngleMode: mode,
		View:      view,
		History:   []HistoryEntry{},
	}
}

// Snapshot returns a deep copy of the state, safe to hand to readers.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	cp := *s
	cp.History = make([]HistoryEntry, len(s.History))
	copy(cp.History, s.History)
	return &cp
}
