package abacus_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/pkg/domain"
)

// ExampleNew demonstrates a session driven the way a keypad would drive it.
func ExampleNew() {
	calc, err := abacus.New()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	s := calc.NewSession()
	s.Insert("2+3")
	s.Insert("*4")
	s.EvaluateCurrentExpression(ctx)

	st := s.State()
	fmt.Println(st.Expression, "=", st.Output)

	s.Insert("+")
	s.EvaluateCurrentExpression(ctx)
	fmt.Println(s.State().ErrorMessage)

	fmt.Println(len(s.History()), s.History()[0].ResultText)

	// Output:
	// 2+3*4 = 14
	// Invalid expression
	// 1 14
}

// ExampleCalculator_Evaluate demonstrates stateless evaluation in degree mode.
func ExampleCalculator_Evaluate() {
	calc, err := abacus.New(abacus.WithAngleMode(domain.AngleDegrees))
	if err != nil {
		log.Fatal(err)
	}

	normalized, out := calc.Evaluate(context.Background(), "sin(30)", calc.AngleMode())
	fmt.Println(normalized)
	fmt.Println(out.ResultText)

	// Output:
	// sin((pi/180)*30)
	// 0.5
}
