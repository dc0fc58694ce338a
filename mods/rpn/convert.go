package rpn

import "strings"

// Converter rewrites infix expressions into postfix form.
// A Converter holds no per-call state and may be shared between goroutines.
type Converter struct {
	posture  Posture
	grouping Grouping
}

func NewConverter(posture Posture, grouping Grouping) *Converter {
	return &Converter{posture: posture, grouping: grouping}
}

// Convert returns the postfix form of expr.
//
// In Strict posture the operand/operator alternation and the parentheses are
// validated as the expression is read. In Permissive posture unknown characters
// are skipped, a stray ')' drains the stack and a leftover '(' ends up in the
// output, where the evaluator ignores it.
func (cv *Converter) Convert(expr string) (string, error) {
	out, err := cv.Trace(expr)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Trace is Convert that also remembers, for every rune of the postfix form,
// the rune offset in expr it was read from.
func (cv *Converter) Trace(expr string) (*Postfix, error) {
	if cv.posture == Permissive {
		return cv.convertPermissive(expr), nil
	}
	return cv.convertStrict(expr)
}

// Postfix is a converted expression together with the source offsets of its runes.
type Postfix struct {
	sb     strings.Builder
	origin []int
}

func newPostfix(capacity int) *Postfix {
	ret := &Postfix{origin: make([]int, 0, capacity)}
	ret.sb.Grow(capacity)
	return ret
}

func (p *Postfix) write(t opToken) {
	p.sb.WriteRune(t.r)
	p.origin = append(p.origin, t.pos)
}

func (p *Postfix) String() string {
	return p.sb.String()
}

// Origin returns the offset in the infix text of the rune at pos of the
// postfix form, or -1 when pos is out of range.
func (p *Postfix) Origin(pos int) int {
	if pos < 0 || pos >= len(p.origin) {
		return -1
	}
	return p.origin[pos]
}

// Relocate rewrites a *SyntaxError raised on the postfix form so that it
// refers to infix instead. Other errors are returned as they are.
func (p *Postfix) Relocate(infix string, err error) error {
	se, ok := err.(*SyntaxError)
	if !ok {
		return err
	}
	return syntaxError(infix, p.Origin(se.Pos), se.Err)
}

type opToken struct {
	r   rune
	pos int
}

func (cv *Converter) convertPermissive(expr string) *Postfix {
	emitFirst := cv.grouping.comparator()
	ops := newStack[opToken](len(expr))
	out := newPostfix(len(expr))

	pos := -1
	for _, c := range expr {
		pos++
		tok := opToken{r: c, pos: pos}
		switch Classify(c) {
		case OPERAND:
			out.write(tok)
		case OPERATOR:
			for {
				top, ok := ops.peek()
				if !ok || top.r == '(' || !emitFirst(top.r, c) {
					break
				}
				ops.pop()
				out.write(top)
			}
			ops.push(tok)
		case CLAUSE:
			ops.push(tok)
		case CLAUSE_CLOSE:
			for {
				top, ok := ops.peek()
				if !ok || top.r == '(' {
					break
				}
				ops.pop()
				out.write(top)
			}
			ops.pop()
		}
	}
	for ops.size() > 0 {
		top, _ := ops.pop()
		out.write(top)
	}
	return out
}

func (cv *Converter) convertStrict(expr string) (*Postfix, error) {
	emitFirst := cv.grouping.comparator()
	ops := newStack[opToken](len(expr))
	out := newPostfix(len(expr))

	state := validLexerStates[0]
	parens := 0
	pos := -1
	for _, c := range expr {
		pos++
		kind := Classify(c)
		if kind == SPACE {
			continue
		}
		if kind == UNKNOWN {
			return nil, syntaxError(expr, pos, ErrMalformedExpression)
		}
		if kind == CLAUSE_CLOSE && parens == 0 {
			return nil, syntaxError(expr, pos, ErrUnbalancedParentheses)
		}
		if !state.canTransitionTo(kind) {
			return nil, syntaxError(expr, pos, ErrMalformedExpression)
		}
		state = lexerStateForToken(kind)

		tok := opToken{r: c, pos: pos}
		switch kind {
		case OPERAND:
			out.write(tok)
		case OPERATOR:
			for {
				top, ok := ops.peek()
				if !ok || top.r == '(' || !emitFirst(top.r, c) {
					break
				}
				ops.pop()
				out.write(top)
			}
			ops.push(tok)
		case CLAUSE:
			parens++
			ops.push(tok)
		case CLAUSE_CLOSE:
			parens--
			for {
				top, _ := ops.pop()
				if top.r == '(' {
					break
				}
				out.write(top)
			}
		}
	}

	if pos < 0 || state.kind == UNKNOWN {
		return nil, syntaxError(expr, -1, ErrEmptyExpression)
	}
	if parens != 0 {
		return nil, syntaxError(expr, -1, ErrUnbalancedParentheses)
	}
	if !state.isEOF {
		return nil, syntaxError(expr, -1, ErrMalformedExpression)
	}
	for ops.size() > 0 {
		top, _ := ops.pop()
		out.write(top)
	}
	return out, nil
}
