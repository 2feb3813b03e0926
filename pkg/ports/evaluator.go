package ports

// Evaluator is the external math-expression capability.
//
// Implementations must accept conventional infix arithmetic (+ - * / ^),
// parentheses, the named functions sin, cos, tan, sqrt, log, log10 and abs,
// and the constants pi and e. Any problem with the expression is reported
// as an error; the caller does not distinguish error kinds.
type Evaluator interface {
	Evaluate(expression string) (any, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(expression string) (any, error)

// Evaluate calls f(expression).
func (f EvaluatorFunc) Evaluate(expression string) (any, error) {
	return f(expression)
}
