package domain

import (
	"fmt"
	"strings"
)

// AngleMode is the convention under which trig function arguments are read.
type AngleMode string

const (
	AngleRadians AngleMode = "radians"
	AngleDegrees AngleMode = "degrees"
)

// Toggle returns the opposite mode.
func (m AngleMode) Toggle() AngleMode {
	if m == AngleDegrees {
		return AngleRadians
	}
	return AngleDegrees
}

// Short returns the two-state label shown on the toggle button.
func (m AngleMode) Short() string {
	if m == AngleDegrees {
		return "DEG"
	}
	return "RAD"
}

// ParseAngleMode accepts the long names and the DEG/RAD labels, case-insensitively.
// An empty string maps to radians.
func ParseAngleMode(s string) (AngleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rad", "radian", "radians":
		return AngleRadians, nil
	case "deg", "degree", "degrees":
		return AngleDegrees, nil
	}
	return "", fmt.Errorf("%w: angle mode %q", ErrInvalidArgument, s)
}
