// Package normalize turns raw expression text into text the evaluator accepts.
//
// Both transformations are lexical. The degree rewrite matches a trig name
// followed directly by "(" and injects the conversion factor right after the
// parenthesis; it does not balance parentheses, so nested calls are each
// rewritten and the argument's closing parenthesis is left where it was.
//
// A space between the name and "(" defeats the match: in degrees mode
// "sin (30)" is not rewritten and evaluates its argument as radians.
package normalize

import (
	"regexp"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

var trigCall = regexp.MustCompile(`(sin|cos|tan)\(`)

// SubstituteConstantSymbols replaces every π glyph with the evaluator's pi token.
func SubstituteConstantSymbols(text string) string {
	return strings.ReplaceAll(text, domain.PiGlyph, domain.PiToken)
}

// ApplyAngleMode rewrites sin(, cos( and tan( into sin((pi/180)* and so on when
// mode is degrees. Radians (and any other mode) return text unchanged.
func ApplyAngleMode(text string, mode domain.AngleMode) string {
	if mode != domain.AngleDegrees {
		return text
	}
	return trigCall.ReplaceAllString(text, "${1}("+domain.DegreeFactor+"*")
}

// Normalize substitutes constant symbols and then applies the angle mode.
func Normalize(text string, mode domain.AngleMode) string {
	return ApplyAngleMode(SubstituteConstantSymbols(text), mode)
}
