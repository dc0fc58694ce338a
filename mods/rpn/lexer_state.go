package rpn

type lexerState struct {
	kind           TokenKind
	isEOF          bool
	validNextKinds []TokenKind
}

func (ls lexerState) canTransitionTo(kind TokenKind) bool {
	for _, k := range ls.validNextKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func lexerStateForToken(kind TokenKind) lexerState {
	for _, possibleState := range validLexerStates {
		if possibleState.kind == kind {
			return possibleState
		}
	}
	return validLexerStates[0]
}

// infix lexer states, the first one is the initial state.
var validLexerStates = []lexerState{
	{
		kind:           UNKNOWN,
		isEOF:          false,
		validNextKinds: []TokenKind{OPERAND, CLAUSE},
	},
	{
		kind:           OPERAND,
		isEOF:          true,
		validNextKinds: []TokenKind{OPERATOR, CLAUSE_CLOSE},
	},
	{
		kind:           OPERATOR,
		isEOF:          false,
		validNextKinds: []TokenKind{OPERAND, CLAUSE},
	},
	{
		kind:           CLAUSE,
		isEOF:          false,
		validNextKinds: []TokenKind{OPERAND, CLAUSE},
	},
	{
		kind:           CLAUSE_CLOSE,
		isEOF:          true,
		validNextKinds: []TokenKind{OPERATOR, CLAUSE_CLOSE},
	},
}
