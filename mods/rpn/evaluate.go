package rpn

// Evaluator reduces postfix expressions to a single number.
type Evaluator struct {
	posture Posture
}

func NewEvaluator(posture Posture) *Evaluator {
	return &Evaluator{posture: posture}
}

// Evaluate runs the postfix expression on an operand stack.
// The operand pushed first is the left hand side of the operator,
// so "93-" is 9-3 and "93/" is 9/3.
func (ev *Evaluator) Evaluate(expr string) (float64, error) {
	strict := ev.posture == Strict
	operands := newStack[float64](len(expr))

	pos := -1
	for _, c := range expr {
		pos++
		switch Classify(c) {
		case OPERAND:
			operands.push(operandValue(c))
		case OPERATOR:
			top, ok := operands.pop()
			if !ok {
				return 0, syntaxError(expr, pos, ErrInsufficientOperands)
			}
			below, ok := operands.pop()
			if !ok {
				return 0, syntaxError(expr, pos, ErrInsufficientOperands)
			}
			if strict && c == '/' && top == 0 {
				return 0, syntaxError(expr, pos, ErrDivisionByZero)
			}
			operands.push(apply(c, top, below))
		case SPACE:
			continue
		default:
			if strict {
				return 0, syntaxError(expr, pos, ErrMalformedExpression)
			}
		}
	}

	switch {
	case operands.size() == 0:
		return 0, syntaxError(expr, -1, ErrEmptyExpression)
	case operands.size() > 1 && strict:
		return 0, syntaxError(expr, -1, ErrMalformedExpression)
	}
	ret, _ := operands.pop()
	return ret, nil
}

func apply(op rune, top, below float64) float64 {
	switch op {
	case '+':
		return top + below
	case '-':
		return below - top
	case '*':
		return top * below
	case '/':
		return below / top
	}
	return 0
}
