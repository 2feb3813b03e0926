package session

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/keypad"
)

// CommandName identifies a session command on the wire.
type CommandName string

const (
	CmdInsert       CommandName = "insert"
	CmdSet          CommandName = "set"
	CmdBackspace    CommandName = "backspace"
	CmdClear        CommandName = "clear"
	CmdToggleAngle  CommandName = "toggle_angle"
	CmdAngle        CommandName = "angle"
	CmdView         CommandName = "view"
	CmdEvaluate     CommandName = "evaluate"
	CmdClearHistory CommandName = "clear_history"
	CmdRecall       CommandName = "recall"
	CmdAnswer       CommandName = "ans"
	CmdPress        CommandName = "press"
)

// Command is the serialisable form of a session command, as sent by hosts.
type Command struct {
	Name CommandName `json:"command" mapstructure:"command"`

	// Text is the payload of insert and set.
	Text string `json:"text,omitempty" mapstructure:"text"`

	// View is the target of view, and the panel of press (defaults to the current view).
	View string `json:"view,omitempty" mapstructure:"view"`

	// Angle is the target of angle.
	Angle string `json:"angle,omitempty" mapstructure:"angle"`

	// Index is the history position of recall (0 is the most recent).
	Index int `json:"index,omitempty" mapstructure:"index"`

	// Label is the button pressed by press.
	Label string `json:"label,omitempty" mapstructure:"label"`
}

// Apply dispatches a host command to the session.
//
// The returned outcome is non-nil only when the command evaluated the
// expression. Errors describe malformed host requests (unknown command,
// unparsable view or angle, missing history entry, unknown button); a
// failed evaluation is never an error.
func (s *Session) Apply(ctx context.Context, cmd Command) (*domain.Outcome, error) {
	outcome, err := s.dispatch(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if s.hooks.OnCommand != nil {
		s.hooks.OnCommand(ctx, &domain.CommandEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventCommand,
				SessionID: s.id,
			},
			Command: string(cmd.Name),
		})
	}
	return outcome, nil
}

func (s *Session) dispatch(ctx context.Context, cmd Command) (*domain.Outcome, error) {
	switch cmd.Name {
	case CmdInsert:
		s.Insert(cmd.Text)
	case CmdSet:
		s.SetExpression(cmd.Text)
	case CmdBackspace:
		s.Backspace()
	case CmdClear:
		s.ClearExpression()
	case CmdToggleAngle:
		s.ToggleAngleMode()
	case CmdAngle:
		mode, err := domain.ParseAngleMode(cmd.Angle)
		if err != nil {
			return nil, err
		}
		s.SetAngleMode(mode)
	case CmdView:
		view, err := domain.ParseViewMode(cmd.View)
		if err != nil {
			return nil, err
		}
		s.SwitchView(view)
	case CmdEvaluate:
		outcome := s.EvaluateCurrentExpression(ctx)
		return &outcome, nil
	case CmdClearHistory:
		s.ClearHistory()
	case CmdRecall:
		entry, err := s.HistoryEntry(cmd.Index)
		if err != nil {
			return nil, fmt.Errorf("recall %d: %w", cmd.Index, err)
		}
		s.RecallHistoryEntry(entry)
	case CmdAnswer:
		s.RecallLastAnswer()
	case CmdPress:
		return s.press(ctx, cmd)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Name)
	}
	return nil, nil
}

// press resolves a keypad button and runs its action.
func (s *Session) press(ctx context.Context, cmd Command) (*domain.Outcome, error) {
	view := s.State().View
	if cmd.View != "" {
		v, err := domain.ParseViewMode(cmd.View)
		if err != nil {
			return nil, err
		}
		view = v
	}

	button, err := keypad.Lookup(view, cmd.Label)
	if err != nil {
		return nil, err
	}

	switch button.Action {
	case keypad.ActionInsert:
		s.Insert(button.Value)
	case keypad.ActionClear:
		s.ClearExpression()
	case keypad.ActionBackspace:
		s.Backspace()
	case keypad.ActionAnswer:
		s.RecallLastAnswer()
	case keypad.ActionClearHistory:
		s.ClearHistory()
	case keypad.ActionEvaluate:
		outcome := s.EvaluateCurrentExpression(ctx)
		return &outcome, nil
	}
	return nil, nil
}
