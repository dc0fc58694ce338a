package rpn

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyExpression       = errors.New("empty expression")
	ErrUnbalancedParentheses = errors.New("unbalanced parenthesis")
	ErrInsufficientOperands  = errors.New("insufficient operands")
	ErrMalformedExpression   = errors.New("malformed expression")
	ErrDivisionByZero        = errors.New("division by zero")
)

// SyntaxError carries the position in Expr where the evaluation stopped.
// Pos is the rune offset, or -1 when the error belongs to the whole expression.
type SyntaxError struct {
	Expr string
	Pos  int
	Err  error
}

func (se *SyntaxError) Error() string {
	if se.Pos < 0 {
		return fmt.Sprintf("%s in %q", se.Err.Error(), se.Expr)
	}
	return fmt.Sprintf("%s at %d in %q", se.Err.Error(), se.Pos, se.Expr)
}

func (se *SyntaxError) Unwrap() error {
	return se.Err
}

func syntaxError(expr string, pos int, err error) error {
	return &SyntaxError{Expr: expr, Pos: pos, Err: err}
}
