package rpn

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type ConvertTest struct {
	Name   string
	Input  string
	Expect string
}

func TestConvert(t *testing.T) {
	tests := []ConvertTest{
		{Name: "single operand", Input: "5", Expect: "5"},
		{Name: "precedence", Input: "1+2*3", Expect: "123*+"},
		{Name: "clause", Input: "(1+2)*3", Expect: "12+3*"},
		{Name: "higher first", Input: "2*3+4", Expect: "23*4+"},
		{Name: "same rank", Input: "9-3-2", Expect: "93-2-"},
		{Name: "same rank division", Input: "8/4/2", Expect: "84/2/"},
		{Name: "mixed rank", Input: "1-2*3/4", Expect: "123*4/-"},
		{Name: "nested", Input: "((1+2)*(3-4))/5", Expect: "12+34-*5/"},
		{Name: "redundant clause", Input: "((((5))))", Expect: "5"},
		{Name: "spaces", Input: " ( 1 + 2 ) * 3 ", Expect: "12+3*"},
		{Name: "zero", Input: "0*9", Expect: "09*"},
	}
	cv := NewConverter(Strict, LeftAssociative)
	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			ret, err := cv.Convert(tc.Input)
			require.NoError(t, err)
			require.Equal(t, tc.Expect, ret)
		})
	}
}

func TestConvertLegacyGrouping(t *testing.T) {
	cv := NewConverter(Strict, LegacyGrouping)
	tests := []ConvertTest{
		{Input: "9-3-2", Expect: "932--"},
		{Input: "8/4/2", Expect: "842//"},
		{Input: "1-2+3", Expect: "123+-"},
		{Input: "1+2*3", Expect: "123*+"},
		{Input: "2*3+4", Expect: "23*4+"},
	}
	for _, tc := range tests {
		ret, err := cv.Convert(tc.Input)
		require.NoError(t, err, tc.Input)
		require.Equal(t, tc.Expect, ret, tc.Input)
	}
}

type ConvertErrorTest struct {
	Input  string
	Err    error
	Pos    int
	String string
}

func TestConvertStrictErrors(t *testing.T) {
	tests := []ConvertErrorTest{
		{Input: "", Err: ErrEmptyExpression, Pos: -1},
		{Input: "   ", Err: ErrEmptyExpression, Pos: -1},
		{Input: "1++2", Err: ErrMalformedExpression, Pos: 2, String: `malformed expression at 2 in "1++2"`},
		{Input: "(1+2", Err: ErrUnbalancedParentheses, Pos: -1, String: `unbalanced parenthesis in "(1+2"`},
		{Input: "1+2)", Err: ErrUnbalancedParentheses, Pos: 3},
		{Input: ")", Err: ErrUnbalancedParentheses, Pos: 0},
		{Input: "(", Err: ErrUnbalancedParentheses, Pos: -1},
		{Input: "12", Err: ErrMalformedExpression, Pos: 1},
		{Input: "()", Err: ErrMalformedExpression, Pos: 1},
		{Input: "1(2)", Err: ErrMalformedExpression, Pos: 1},
		{Input: "+1", Err: ErrMalformedExpression, Pos: 0},
		{Input: "1+", Err: ErrMalformedExpression, Pos: -1},
		{Input: "1+a", Err: ErrMalformedExpression, Pos: 2},
		{Input: "1 ^ 2", Err: ErrMalformedExpression, Pos: 2},
	}
	cv := NewConverter(Strict, LeftAssociative)
	for _, tc := range tests {
		ret, err := cv.Convert(tc.Input)
		require.Error(t, err, tc.Input)
		require.Empty(t, ret)
		require.True(t, errors.Is(err, tc.Err), "%q: %v", tc.Input, err)

		var se *SyntaxError
		require.True(t, errors.As(err, &se), tc.Input)
		require.Equal(t, tc.Pos, se.Pos, tc.Input)
		require.Equal(t, tc.Input, se.Expr)
		if tc.String != "" {
			require.Equal(t, tc.String, err.Error())
		}
	}
}

func TestConvertPermissive(t *testing.T) {
	tests := []ConvertTest{
		{Name: "unknown skipped", Input: "1+a2", Expect: "12+"},
		{Name: "leftover clause", Input: "(1+2", Expect: "12+("},
		{Name: "stray close", Input: "1+2)", Expect: "12+"},
		{Name: "stray close drains", Input: "1+2)*3", Expect: "12+3*"},
		{Name: "double operator", Input: "1++2", Expect: "1+2+"},
		{Name: "adjacent operands", Input: "12", Expect: "12"},
		{Name: "empty", Input: "", Expect: ""},
		{Name: "regular", Input: "(1+2)*3", Expect: "12+3*"},
	}
	cv := NewConverter(Permissive, LeftAssociative)
	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			ret, err := cv.Convert(tc.Input)
			require.NoError(t, err)
			require.Equal(t, tc.Expect, ret)
		})
	}
}

func TestConvertDeepNesting(t *testing.T) {
	depth := 1000
	expr := strings.Repeat("(", depth) + "1+2" + strings.Repeat(")", depth)
	ret, err := ConvertInfixToPostfix(expr)
	require.NoError(t, err)
	require.Equal(t, "12+", ret)

	expr = strings.Repeat("1+(", depth) + "1" + strings.Repeat(")", depth)
	ret, err = ConvertInfixToPostfix(expr)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("1", depth+1)+strings.Repeat("+", depth), ret)
}

func TestTraceOrigin(t *testing.T) {
	cv := NewConverter(Strict, LeftAssociative)
	out, err := cv.Trace("(1 + 2) * 3")
	require.NoError(t, err)
	require.Equal(t, "12+3*", out.String())
	for i, expect := range []int{1, 5, 3, 10, 8} {
		require.Equal(t, expect, out.Origin(i), "postfix rune %d", i)
	}
	require.Equal(t, -1, out.Origin(-1))
	require.Equal(t, -1, out.Origin(5))

	out = NewConverter(Permissive, LeftAssociative).convertPermissive("x(1+2")
	require.Equal(t, "12+(", out.String())
	require.Equal(t, 1, out.Origin(3))
}

func TestTraceRelocate(t *testing.T) {
	cv := NewConverter(Strict, LeftAssociative)
	out, err := cv.Trace("8 - 9/(3-3)")
	require.NoError(t, err)
	require.Equal(t, "8933-/-", out.String())

	_, err = NewEvaluator(Strict).Evaluate(out.String())
	err = out.Relocate("8 - 9/(3-3)", err)
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	require.Equal(t, "8 - 9/(3-3)", se.Expr)
	require.Equal(t, 5, se.Pos)
	require.ErrorIs(t, err, ErrDivisionByZero)

	err = out.Relocate("8 - 9/(3-3)", syntaxError("8933-/-", -1, ErrMalformedExpression))
	require.EqualError(t, err, `malformed expression in "8 - 9/(3-3)"`)

	plain := errors.New("closed")
	require.Equal(t, plain, out.Relocate("1", plain))
}
