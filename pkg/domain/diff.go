package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Expression *string    `json:"expression,omitempty"`
	Output     *string    `json:"output,omitempty"`
	Error      *bool      `json:"error,omitempty"`
	AngleMode  *AngleMode `json:"angle_mode,omitempty"`
	View       *ViewMode  `json:"view,omitempty"`

	// History is nil when the history did not change.
	History *HistoryDelta `json:"history,omitempty"`
}

// HistoryDelta describes how the history changed.
// History only grows at the front, or is cleared as a whole.
type HistoryDelta struct {
	Cleared   bool           `json:"cleared,omitempty"`
	Prepended []HistoryEntry `json:"prepended,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(sessionID string, oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: sessionID}
	changed := false

	if oldState == nil || oldState.Expression != newState.Expression {
		diff.Expression = ptr(newState.Expression)
		changed = true
	}
	if oldState == nil || oldState.Output != newState.Output {
		diff.Output = ptr(newState.Output)
		changed = true
	}
	if oldState == nil || oldState.Error != newState.Error {
		diff.Error = ptr(newState.Error)
		changed = true
	}
	if oldState == nil || oldState.AngleMode != newState.AngleMode {
		diff.AngleMode = ptr(newState.AngleMode)
		changed = true
	}
	if oldState == nil || oldState.View != newState.View {
		diff.View = ptr(newState.View)
		changed = true
	}

	if delta := diffHistory(oldState, newState); delta != nil {
		diff.History = delta
		changed = true
	}

	if !changed {
		return nil
	}
	return diff
}

func diffHistory(oldState, newState *State) *HistoryDelta {
	if oldState == nil {
		if len(newState.History) == 0 {
			return nil
		}
		return &HistoryDelta{Prepended: append([]HistoryEntry(nil), newState.History...)}
	}

	oldLen, newLen := len(oldState.History), len(newState.History)
	switch {
	case oldLen == newLen:
		return nil
	case newLen == 0:
		return &HistoryDelta{Cleared: true}
	case newLen > oldLen:
		// The tail is the old history; only the head is new.
		return &HistoryDelta{Prepended: append([]HistoryEntry(nil), newState.History[:newLen-oldLen]...)}
	default:
		// Shrunk without clearing: resend everything.
		return &HistoryDelta{Cleared: true, Prepended: append([]HistoryEntry(nil), newState.History...)}
	}
}

func ptr[T any](v T) *T {
	return &v
}
