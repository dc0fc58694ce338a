package rpn

import "strings"

type TokenKind int

const (
	UNKNOWN TokenKind = iota

	OPERAND
	OPERATOR
	SPACE

	CLAUSE
	CLAUSE_CLOSE
)

func (kind TokenKind) String() string {
	switch kind {
	case OPERAND:
		return "OPERAND"
	case OPERATOR:
		return "OPERATOR"
	case SPACE:
		return "SPACE"
	case CLAUSE:
		return "CLAUSE"
	case CLAUSE_CLOSE:
		return "CLAUSE_CLOSE"
	}
	return "UNKNOWN"
}

const (
	operandSymbols  = "0123456789"
	operatorSymbols = "+-*/"
	spaceSymbols    = " \t\r\n"
)

// IsOperand reports whether c is a single digit operand.
func IsOperand(c rune) bool {
	return strings.ContainsRune(operandSymbols, c)
}

// IsOperator reports whether c is one of the binary operators + - * /.
func IsOperator(c rune) bool {
	return strings.ContainsRune(operatorSymbols, c)
}

func IsParenthesis(c rune) bool {
	return c == '(' || c == ')'
}

func isSpace(c rune) bool {
	return strings.ContainsRune(spaceSymbols, c)
}

func Classify(c rune) TokenKind {
	switch {
	case IsOperand(c):
		return OPERAND
	case IsOperator(c):
		return OPERATOR
	case c == '(':
		return CLAUSE
	case c == ')':
		return CLAUSE_CLOSE
	case isSpace(c):
		return SPACE
	}
	return UNKNOWN
}

func operandValue(c rune) float64 {
	return float64(c - '0')
}
