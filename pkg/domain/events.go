package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCommand    EventType = "command"
	EventEvaluation EventType = "evaluation"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// CommandEvent is emitted after a session command has been applied.
type CommandEvent struct {
	EventBase
	Command string `json:"command"`
}

// EvaluationEvent describes one pass through normalizer and gateway.
type EvaluationEvent struct {
	EventBase
	Expression string        `json:"expression"`
	Normalized string        `json:"normalized"`
	AngleMode  AngleMode     `json:"angle_mode"`
	Outcome    Outcome       `json:"outcome"`
	Duration   time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for session observability.
// Hooks run synchronously inside the command, after the state change.
type LifecycleHooks struct {
	OnCommand  func(context.Context, *CommandEvent)
	OnEvaluate func(context.Context, *EvaluationEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCommand: func(ctx context.Context, e *CommandEvent) {
			if h.OnCommand != nil {
				h.OnCommand(ctx, e)
			}
			if other.OnCommand != nil {
				other.OnCommand(ctx, e)
			}
		},
		OnEvaluate: func(ctx context.Context, e *EvaluationEvent) {
			if h.OnEvaluate != nil {
				h.OnEvaluate(ctx, e)
			}
			if other.OnEvaluate != nil {
				other.OnEvaluate(ctx, e)
			}
		},
	}
}
