package domain

// OutcomeKind tags an Outcome.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomeFailure OutcomeKind = "failure"
)

// ErrorKind is the reason carried by a failed Outcome.
type ErrorKind string

// ErrorInvalidExpression covers every evaluator failure: syntax, unknown
// identifiers and evaluator-internal domain errors alike.
const ErrorInvalidExpression ErrorKind = "invalid_expression"

// Outcome is the classified result of one evaluation attempt.
// Build it with Success or Failure; the zero value is not meaningful.
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	ResultText string      `json:"result,omitempty"`
	Reason     ErrorKind   `json:"reason,omitempty"`
}

// Success wraps a display string.
func Success(resultText string) Outcome {
	return Outcome{Kind: OutcomeSuccess, ResultText: resultText}
}

// Failure wraps a reason.
func Failure(reason ErrorKind) Outcome {
	return Outcome{Kind: OutcomeFailure, Reason: reason}
}

// IsSuccess reports whether the evaluation produced a result.
func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// Err returns ErrInvalidExpression for failures and nil otherwise.
// Useful for hosts (one-shot CLI) that do want an error value.
func (o Outcome) Err() error {
	if o.IsSuccess() {
		return nil
	}
	return ErrInvalidExpression
}
