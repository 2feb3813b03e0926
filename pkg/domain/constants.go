package domain

const (
	// InvalidExpressionMessage is the fixed message shown while the error flag is set.
	InvalidExpressionMessage = "Invalid expression"

	// PiToken is the identifier the evaluator recognizes as the constant π.
	PiToken = "pi"

	// PiGlyph is the Unicode symbol users may type or paste instead of PiToken.
	PiGlyph = "π"

	// DegreeFactor is the conversion factor injected into trig calls in degree mode.
	DegreeFactor = "(" + PiToken + "/180)"
)
