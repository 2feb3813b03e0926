// Package exprlang implements ports.Evaluator on top of github.com/expr-lang/expr.
package exprlang

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
)

// Builtins kept from expr's library; everything else is disabled.
var builtins = []string{"abs", "ceil", "floor", "round"}

// wordPattern matches identifiers and numeric literals as whole words.
var wordPattern = regexp.MustCompile(`[0-9A-Za-z_.]+`)

// Evaluator compiles and runs expressions against a fixed math environment.
// It is stateless between calls and safe for concurrent use.
type Evaluator struct {
	env     map[string]any
	options []expr.Option
}

// Option configures the Evaluator.
type Option func(*Evaluator)

// WithConstant adds (or overrides) a named constant.
func WithConstant(name string, value float64) Option {
	return func(e *Evaluator) {
		e.env[name] = value
	}
}

// WithUnaryFunction registers an extra single-argument function.
func WithUnaryFunction(name string, fn func(float64) float64) Option {
	return func(e *Evaluator) {
		e.options = append(e.options, unary(name, fn))
	}
}

// New creates an Evaluator with the constants pi and e and the functions
// sin, cos, tan, asin, acos, atan, sqrt, log (natural), log10 and exp.
// abs, ceil, floor and round come from expr's builtins.
//
// All arithmetic runs in float64: integer literals are compiled as floats and
// % is math.Mod. Programs must produce a number; strings, booleans, arrays
// and ranges fail to compile.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		env: map[string]any{
			"pi": math.Pi,
			"e":  math.E,
		},
		options: []expr.Option{
			expr.AsFloat64(),
			expr.DisableAllBuiltins(),
			expr.Patch(floatLiterals{}),
			expr.Function("mod", mod, new(func(float64, float64) float64)),
			expr.Operator("%", "mod"),
			unary("sin", math.Sin),
			unary("cos", math.Cos),
			unary("tan", math.Tan),
			unary("asin", math.Asin),
			unary("acos", math.Acos),
			unary("atan", math.Atan),
			unary("sqrt", math.Sqrt),
			unary("log", math.Log),
			unary("log10", math.Log10),
			unary("exp", math.Exp),
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate compiles the expression against the environment and runs it.
// Unknown identifiers fail at compile time.
func (e *Evaluator) Evaluate(expression string) (any, error) {
	options := append([]expr.Option{expr.Env(e.env)}, e.options...)
	for _, name := range builtins {
		options = append(options, expr.EnableBuiltin(name))
	}

	program, err := expr.Compile(widenIntegers(expression), options...)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	out, err := expr.Run(program, e.env)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return out, nil
}

func unary(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn(x), nil
	}, new(func(float64) float64))
}

func mod(params ...any) (any, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("%% expects 2 operands, got %d", len(params))
	}
	x, err := toFloat(params[0])
	if err != nil {
		return nil, err
	}
	y, err := toFloat(params[1])
	if err != nil {
		return nil, err
	}
	return math.Mod(x, y), nil
}

// floatLiterals compiles integer literals as float64 so sums and products
// never wrap around.
type floatLiterals struct{}

func (floatLiterals) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.IntegerNode); ok {
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	}
}

// widenIntegers gives decimal literals that overflow int64 an exponent, so
// the parser reads them as floats instead of rejecting them.
func widenIntegers(expression string) string {
	return wordPattern.ReplaceAllStringFunc(expression, func(word string) string {
		for _, r := range word {
			if r < '0' || r > '9' {
				return word
			}
		}
		if _, err := strconv.ParseInt(word, 10, 64); err == nil {
			return word
		}
		return word + "e0"
	})
}

func toFloat(v any) (float64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return 0, fmt.Errorf("not a number: %v", v)
}
