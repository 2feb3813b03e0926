// Package keypad describes the calculator's button panels.
//
// Layouts are data: each button either inserts a value into the expression
// or triggers one of a handful of session actions. Hosts render the layout
// and send presses back by label.
package keypad

import (
	"fmt"

	"github.com/aretw0/abacus/pkg/domain"
)

// Action is what a button does when pressed.
type Action string

const (
	ActionInsert       Action = "insert"
	ActionClear        Action = "clear"
	ActionBackspace    Action = "backspace"
	ActionEvaluate     Action = "evaluate"
	ActionAnswer       Action = "ans"
	ActionClearHistory Action = "clear_history"
)

// Button is one key of a panel.
type Button struct {
	Label  string `json:"label" yaml:"label"`
	Action Action `json:"action" yaml:"action"`
	// Value is the text inserted for ActionInsert.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	// Class is a styling hint (operator, equals, clear).
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
	Wide  bool   `json:"wide,omitempty" yaml:"wide,omitempty"`
}

func key(label string) Button {
	return Button{Label: label, Action: ActionInsert, Value: label}
}

func op(label, value string) Button {
	return Button{Label: label, Action: ActionInsert, Value: value, Class: "operator"}
}

func fn(label, value string) Button {
	return Button{Label: label, Action: ActionInsert, Value: value}
}

var digits = []Button{
	key("7"), key("8"), key("9"), op("÷", "/"),
	key("4"), key("5"), key("6"), op("×", "*"),
	key("1"), key("2"), key("3"), op("−", "-"),
	{Label: "0", Action: ActionInsert, Value: "0", Wide: true}, key("."), op("+", "+"),
	{Label: "=", Action: ActionEvaluate, Class: "equals operator"},
}

var basic = append([]Button{
	{Label: "C", Action: ActionClear, Class: "clear"},
	key("("), key(")"),
	{Label: "⌫", Action: ActionBackspace},
}, digits...)

var scientific = append([]Button{
	{Label: "C", Action: ActionClear, Class: "clear"},
	fn("sin(", "sin("), fn("cos(", "cos("), fn("tan(", "tan("), fn("√", "sqrt("),
	fn("ln", "log("), fn("log10", "log10("), fn("x^y", "^"), fn("abs(", "abs("),
	fn("e", "e"),
	{Label: "ANS", Action: ActionAnswer},
	fn("π", "pi"),
	key("("), key(")"),
	{Label: "⌫", Action: ActionBackspace},
}, digits...)

var history = []Button{
	{Label: "Clear History", Action: ActionClearHistory, Class: "clear"},
}

// Layout returns a copy of the buttons of a panel, in display order.
func Layout(view domain.ViewMode) []Button {
	var src []Button
	switch view {
	case domain.ViewScientific:
		src = scientific
	case domain.ViewHistory:
		src = history
	default:
		src = basic
	}
	out := make([]Button, len(src))
	copy(out, src)
	return out
}

// Lookup finds a button of the given panel by its label.
func Lookup(view domain.ViewMode, label string) (Button, error) {
	for _, b := range Layout(view) {
		if b.Label == label {
			return b, nil
		}
	}
	return Button{}, fmt.Errorf("%w: %q on %s panel", domain.ErrUnknownButton, label, view)
}
