package optimize

import (
	"fmt"

	"github.com/crillab/gophersmt/backend"
)

// A GoalKind is the tag of an optimization goal.
type GoalKind byte

const (
	// KindMinimize minimizes a scalar cost.
	KindMinimize = GoalKind(iota)
	// KindMaximize maximizes a scalar cost.
	KindMaximize
	// KindMinMax minimizes the maximal element of a vector cost.
	KindMinMax
	// KindMaxMin maximizes the minimal element of a vector cost.
	KindMaxMin
)

func (k GoalKind) String() string {
	switch k {
	case KindMinimize:
		return "minimize"
	case KindMaximize:
		return "maximize"
	case KindMinMax:
		return "minmax"
	case KindMaxMin:
		return "maxmin"
	default:
		return fmt.Sprintf("goalkind(%d)", byte(k))
	}
}

// A Goal is a single optimization target: minimize or maximize a scalar
// cost, or rank a vector cost by its worst case. Goals are immutable once
// constructed and never mutated by the optimizer.
type Goal struct {
	kind  GoalKind
	terms []backend.Term
}

// Minimize returns a goal minimizing the cost t.
func Minimize(t backend.Term) *Goal {
	return &Goal{kind: KindMinimize, terms: []backend.Term{t}}
}

// Maximize returns a goal maximizing the cost t.
func Maximize(t backend.Term) *Goal {
	return &Goal{kind: KindMaximize, terms: []backend.Term{t}}
}

// MinMax returns a goal minimizing the maximum of the given costs.
func MinMax(ts ...backend.Term) *Goal {
	return &Goal{kind: KindMinMax, terms: copyTerms(ts)}
}

// MaxMin returns a goal maximizing the minimum of the given costs.
func MaxMin(ts ...backend.Term) *Goal {
	return &Goal{kind: KindMaxMin, terms: copyTerms(ts)}
}

func copyTerms(ts []backend.Term) []backend.Term {
	res := make([]backend.Term, len(ts))
	copy(res, ts)
	return res
}

// Kind returns the goal's tag.
func (g *Goal) Kind() GoalKind {
	return g.kind
}

// Terms returns the goal's cost expressions in input order.
// Scalar goals hold exactly one term.
func (g *Goal) Terms() []backend.Term {
	return copyTerms(g.terms)
}

// IsVector is true iff the goal carries a vector cost.
func (g *Goal) IsVector() bool {
	return g.kind == KindMinMax || g.kind == KindMaxMin
}

func (g *Goal) String() string {
	return fmt.Sprintf("%s goal over %d term(s)", g.kind, len(g.terms))
}
