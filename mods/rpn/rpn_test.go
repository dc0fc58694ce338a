package rpn_test

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/machbase/neo-calc/mods/rpn"
	"github.com/stretchr/testify/require"
)

func TestEvaluateInfix(t *testing.T) {
	tests := []struct {
		expr   string
		expect float64
	}{
		{"5", 5},
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"9-3-2", 4},
		{"8/4/2", 1},
		{"1-2+3", 2},
		{"2*(3+4)*5", 70},
		{"9/(1+2)", 3},
		{"(9)", 9},
		{"1 + 2 * 3 - 4 / 2", 5},
	}
	for _, tc := range tests {
		ret, err := rpn.EvaluateInfix(tc.expr)
		require.NoError(t, err, tc.expr)
		require.Equal(t, tc.expect, ret, tc.expr)
	}

	postfix, err := rpn.ConvertInfixToPostfix("1+2*3")
	require.NoError(t, err)
	require.Equal(t, "123*+", postfix)
	ret, err := rpn.EvaluatePostfix(postfix)
	require.NoError(t, err)
	require.Equal(t, 7.0, ret)
}

func TestGrouping(t *testing.T) {
	left := rpn.New()
	legacy := rpn.New(rpn.WithGrouping(rpn.LegacyGrouping))
	require.Equal(t, rpn.LeftAssociative, left.Grouping())
	require.Equal(t, rpn.LegacyGrouping, legacy.Grouping())

	tests := []struct {
		expr   string
		left   float64
		legacy float64
	}{
		{"9-3-2", 4, 8},
		{"8/4/2", 1, 4},
		{"1-2+3", 2, -4},
		{"8/2*2", 8, 2},
		{"1+2*3", 7, 7},
	}
	for _, tc := range tests {
		ret, err := left.EvaluateInfix(tc.expr)
		require.NoError(t, err)
		require.Equal(t, tc.left, ret, tc.expr)

		ret, err = legacy.EvaluateInfix(tc.expr)
		require.NoError(t, err)
		require.Equal(t, tc.legacy, ret, tc.expr)
	}
}

func TestPostures(t *testing.T) {
	strict := rpn.New()
	permissive := rpn.New(rpn.WithPosture(rpn.Permissive))
	require.Equal(t, rpn.Strict, strict.Posture())
	require.Equal(t, rpn.Permissive, permissive.Posture())

	_, err := strict.EvaluateInfix("1++2")
	require.ErrorIs(t, err, rpn.ErrMalformedExpression)
	_, err = permissive.EvaluateInfix("1++2")
	require.ErrorIs(t, err, rpn.ErrInsufficientOperands)

	_, err = strict.EvaluateInfix("(1+2")
	require.ErrorIs(t, err, rpn.ErrUnbalancedParentheses)
	ret, err := permissive.EvaluateInfix("(1+2")
	require.NoError(t, err)
	require.Equal(t, 3.0, ret)

	_, err = strict.EvaluateInfix("9/(3-3)")
	require.ErrorIs(t, err, rpn.ErrDivisionByZero)
	require.EqualError(t, err, `division by zero at 1 in "9/(3-3)"`)
	require.EqualError(t, strict.Locate("9/(3-3)", mustEvaluatePostfixErr(t, strict, "933-/")),
		`division by zero at 1 in "9/(3-3)"`)
	ret, err = permissive.EvaluateInfix("9/(3-3)")
	require.NoError(t, err)
	require.True(t, math.IsInf(ret, 1))

	_, err = strict.EvaluateInfix("")
	require.ErrorIs(t, err, rpn.ErrEmptyExpression)
	_, err = permissive.EvaluateInfix("")
	require.ErrorIs(t, err, rpn.ErrEmptyExpression)

	ret, err = permissive.EvaluateInfix("2 x 3 + 1")
	require.NoError(t, err)
	require.Equal(t, 4.0, ret)
}

func mustEvaluatePostfixErr(t *testing.T, c *rpn.Calculator, postfix string) error {
	t.Helper()
	_, err := c.EvaluatePostfix(postfix)
	require.Error(t, err)
	return err
}

func TestDeepNesting(t *testing.T) {
	for _, depth := range []int{1, 10, 1000, 5000} {
		expr := strings.Repeat("(", depth) + "5" + strings.Repeat(")", depth)
		ret, err := rpn.EvaluateInfix(expr)
		require.NoError(t, err)
		require.Equal(t, 5.0, ret)

		expr = strings.Repeat("1+(", depth) + "1" + strings.Repeat(")", depth)
		ret, err = rpn.EvaluateInfix(expr)
		require.NoError(t, err)
		require.Equal(t, float64(depth+1), ret)
	}
}

// node is a random expression tree used to check the calculator
// against direct evaluation.
type node struct {
	op          byte
	digit       int
	left, right *node
}

func randomTree(r *rand.Rand, depth int) *node {
	if depth == 0 || r.Intn(4) == 0 {
		return &node{digit: r.Intn(10)}
	}
	n := &node{
		op:    "+-*/"[r.Intn(4)],
		left:  randomTree(r, depth-1),
		right: randomTree(r, depth-1),
	}
	if n.op == '/' && n.right.value() == 0 {
		n.op = '*'
	}
	return n
}

func (n *node) value() float64 {
	if n.left == nil {
		return float64(n.digit)
	}
	l, r := n.left.value(), n.right.value()
	switch n.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	default:
		return l / r
	}
}

func (n *node) infix() string {
	if n.left == nil {
		return string(rune('0' + n.digit))
	}
	return "(" + n.left.infix() + string(n.op) + n.right.infix() + ")"
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		tree := randomTree(r, 5)
		expr := tree.infix()

		postfix, err := rpn.ConvertInfixToPostfix(expr)
		require.NoError(t, err, expr)
		viaPostfix, err := rpn.EvaluatePostfix(postfix)
		require.NoError(t, err, expr)
		direct, err := rpn.EvaluateInfix(expr)
		require.NoError(t, err, expr)

		require.Equal(t, direct, viaPostfix, expr)
		require.Equal(t, tree.value(), direct, expr)
	}
}

// flatValue evaluates a parenthesis free expression with the
// conventional ranks, left to right within a rank.
func flatValue(expr string) float64 {
	var sum, term float64
	sumOp := byte('+')
	termOp := byte('*')
	term = 1
	flushTerm := func() {
		if sumOp == '+' {
			sum += term
		} else {
			sum -= term
		}
	}
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch c {
		case '+', '-':
			flushTerm()
			sumOp, termOp, term = c, '*', 1
		case '*', '/':
			termOp = c
		default:
			d := float64(c - '0')
			if termOp == '*' {
				term *= d
			} else {
				term /= d
			}
		}
	}
	flushTerm()
	return sum
}

func TestConventionalPrecedence(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		var sb strings.Builder
		sb.WriteByte(byte('1' + r.Intn(9)))
		for n := r.Intn(8); n >= 0; n-- {
			sb.WriteByte("+-*/"[r.Intn(4)])
			sb.WriteByte(byte('1' + r.Intn(9)))
		}
		expr := sb.String()
		ret, err := rpn.EvaluateInfix(expr)
		require.NoError(t, err, expr)
		require.InDelta(t, flatValue(expr), ret, 1e-9, expr)
	}
}

func TestConcurrentUse(t *testing.T) {
	calc := rpn.New()
	wg := sync.WaitGroup{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				ret, err := calc.EvaluateInfix("(1+2)*3-4/2")
				if err != nil || ret != 7 {
					t.Errorf("unexpected %v %v", ret, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
