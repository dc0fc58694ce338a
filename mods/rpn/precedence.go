package rpn

import "strings"

// Grouping selects how a chain of operators with the same rank is grouped.
type Grouping int

const (
	// LeftAssociative groups 9-3-2 as (9-3)-2.
	LeftAssociative Grouping = iota
	// LegacyGrouping only pops strictly higher ranks, so 9-3-2 is grouped as 9-(3-2).
	LegacyGrouping
)

func (g Grouping) String() string {
	switch g {
	case LeftAssociative:
		return "left"
	case LegacyGrouping:
		return "legacy"
	}
	return "unknown"
}

func ParseGrouping(name string) (Grouping, bool) {
	switch strings.ToLower(name) {
	case "", "left":
		return LeftAssociative, true
	case "legacy":
		return LegacyGrouping, true
	}
	return LeftAssociative, false
}

var precedences = map[rune]int{
	'+': 1,
	'-': 1,
	'*': 2,
	'/': 2,
}

// Precedence returns the rank of op, 0 for anything that is not an operator.
func Precedence(op rune) int {
	return precedences[op]
}

func HigherOrEqual(a, b rune) bool {
	return Precedence(a) >= Precedence(b)
}

func StrictlyHigher(a, b rune) bool {
	return Precedence(a) > Precedence(b)
}

// comparator reports whether the stacked operator top has to be emitted
// before op is pushed.
func (g Grouping) comparator() func(top, op rune) bool {
	if g == LegacyGrouping {
		return StrictlyHigher
	}
	return HigherOrEqual
}
