package domain

import (
	"fmt"
	"strings"
)

// ViewMode selects which panel, and therefore which command set, is active.
type ViewMode string

const (
	ViewBasic      ViewMode = "basic"
	ViewScientific ViewMode = "scientific"
	ViewHistory    ViewMode = "history"
)

// ClearsInput reports whether switching to this view resets expression and output.
func (v ViewMode) ClearsInput() bool {
	return v == ViewBasic || v == ViewScientific
}

// Title is the heading a host shows above the panel.
func (v ViewMode) Title() string {
	switch v {
	case ViewScientific:
		return "Scientific Calculator"
	case ViewHistory:
		return "History"
	default:
		return "Basic Calculator"
	}
}

// ParseViewMode parses a view name case-insensitively.
func ParseViewMode(s string) (ViewMode, error) {
	switch v := ViewMode(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewBasic, ViewScientific, ViewHistory:
		return v, nil
	}
	return "", fmt.Errorf("%w: view %q", ErrInvalidArgument, s)
}
