// Package rpn converts single digit infix arithmetic into postfix (Reverse Polish)
// form and evaluates the postfix form.
//
// Operands are the digits 0-9, operators are + - * / with the usual ranks, and
// parentheses group. Multi digit numbers, unary minus and variables are not
// part of the language.
package rpn

import "strings"

// Posture decides how malformed input is handled.
type Posture int

const (
	// Strict fails fast with one of the Err* sentinels.
	Strict Posture = iota
	// Permissive computes a value where one can be reached. Unknown characters are dropped,
	// unbalanced parentheses are tolerated and extra operands are ignored.
	// Division by zero yields an IEEE infinity or NaN.
	Permissive
)

func (p Posture) String() string {
	switch p {
	case Strict:
		return "strict"
	case Permissive:
		return "permissive"
	}
	return "unknown"
}

func ParsePosture(name string) (Posture, bool) {
	switch strings.ToLower(name) {
	case "", "strict":
		return Strict, true
	case "permissive":
		return Permissive, true
	}
	return Strict, false
}

type Calculator struct {
	posture   Posture
	grouping  Grouping
	converter *Converter
	evaluator *Evaluator
}

type Option func(*Calculator)

func WithPosture(p Posture) Option {
	return func(c *Calculator) {
		c.posture = p
	}
}

func WithGrouping(g Grouping) Option {
	return func(c *Calculator) {
		c.grouping = g
	}
}

func New(opts ...Option) *Calculator {
	ret := &Calculator{
		posture:  Strict,
		grouping: LeftAssociative,
	}
	for _, o := range opts {
		o(ret)
	}
	ret.converter = NewConverter(ret.posture, ret.grouping)
	ret.evaluator = NewEvaluator(ret.posture)
	return ret
}

func (c *Calculator) Posture() Posture   { return c.posture }
func (c *Calculator) Grouping() Grouping { return c.grouping }

func (c *Calculator) Convert(infix string) (string, error) {
	return c.converter.Convert(infix)
}

func (c *Calculator) EvaluatePostfix(postfix string) (float64, error) {
	return c.evaluator.Evaluate(postfix)
}

// EvaluateInfix converts and evaluates infix. A failure of the evaluation is
// reported against infix, not against the intermediate postfix form.
func (c *Calculator) EvaluateInfix(infix string) (float64, error) {
	postfix, err := c.converter.Trace(infix)
	if err != nil {
		return 0, err
	}
	ret, err := c.evaluator.Evaluate(postfix.String())
	if err != nil {
		return 0, postfix.Relocate(infix, err)
	}
	return ret, nil
}

// Locate rewrites err, returned by EvaluatePostfix for the postfix form of infix,
// so that its position points into infix.
func (c *Calculator) Locate(infix string, err error) error {
	postfix, terr := c.converter.Trace(infix)
	if terr != nil {
		return err
	}
	return postfix.Relocate(infix, err)
}

var defaultCalculator = New()

// ConvertInfixToPostfix converts expr with the Strict posture and left associative grouping.
func ConvertInfixToPostfix(expr string) (string, error) {
	return defaultCalculator.Convert(expr)
}

// EvaluatePostfix evaluates expr with the Strict posture.
func EvaluatePostfix(expr string) (float64, error) {
	return defaultCalculator.EvaluatePostfix(expr)
}

// EvaluateInfix is EvaluatePostfix(ConvertInfixToPostfix(expr)), with evaluation errors reported against expr.
func EvaluateInfix(expr string) (float64, error) {
	return defaultCalculator.EvaluateInfix(expr)
}
