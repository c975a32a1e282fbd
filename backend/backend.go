package backend

// Describes the contract between the optimization layer and a native
// objective-tracking solver.

// A Term is a cost expression in the caller's formula language.
// It is opaque to the optimization layer: the only operations ever applied
// to it are conversion (Converter) and valuation (Model).
type Term any

// An Expr is a term in the solver's native expression form,
// as produced by a Converter.
type Expr any

// An Objective is an opaque handle to a cost expression registered as an
// optimization target inside a session. A handle is only valid within the
// session that created it.
type Objective any

// A Value is a native valuation of a term under a model.
type Value any

// Status is the outcome reported for an objective after a satisfiability check.
type Status byte

const (
	// Unknown means the solver could not determine the objective's optimum.
	Unknown = Status(iota)
	// Unsat means no assignment satisfies the asserted constraints.
	Unsat
	// Optimal means an optimum was found for the objective.
	Optimal
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "UNKNOWN"
	case Unsat:
		return "UNSAT"
	case Optimal:
		return "OPTIMAL"
	default:
		panic("invalid status")
	}
}

// A Bound selects which bound of an objective the unboundedness and
// strictness queries refer to.
type Bound byte

const (
	// Optimum designates the objective's optimal value.
	Optimum = Bound(iota)
	// Upper designates the objective's upper bound.
	Upper
	// Lower designates the objective's lower bound.
	Lower
)

// A Priority is the discipline governing how several simultaneously asserted
// objectives interact during solving. It must be set before any objective is
// asserted and is mutually exclusive with the other modes.
type Priority byte

const (
	// Lex optimizes objectives one by one in assertion order, each under the
	// optima already fixed for its predecessors.
	Lex = Priority(iota)
	// Par enumerates Pareto-optimal (non-dominated) points, one per check.
	Par
	// Box optimizes every objective independently of the others.
	Box
)

// String returns the native mode name.
func (p Priority) String() string {
	switch p {
	case Lex:
		return "lex"
	case Par:
		return "par"
	case Box:
		return "box"
	default:
		panic("invalid priority")
	}
}

// A Converter is the term-conversion collaborator: it maps a cost expression
// to the solver's native expression form.
type Converter interface {
	Convert(t Term) (Expr, error)
}

// A Model is an immutable snapshot of a satisfying assignment.
type Model interface {
	// Value returns the model's valuation of t.
	Value(t Term) (Value, error)
	// Assignments returns the valuation of every problem variable, keyed by name.
	Assignments() map[string]Value
}

// A Session is an incremental solving session with native objective tracking.
// A session is exclusively owned by one goroutine for the duration of an
// optimization call; none of its methods may be invoked concurrently.
type Session interface {
	// Name identifies the backend, for error reporting.
	Name() string
	// MakeScalarObjective registers e as a cost to minimize, or to maximize if max is true.
	MakeScalarObjective(e Expr, max bool) (Objective, error)
	// MakeVectorObjective registers a vector cost, optimized for its worst case:
	// the maximal element is minimized if minmax is true, the minimal one maximized otherwise.
	MakeVectorObjective(es []Expr, minmax bool) (Objective, error)
	// AssertObjective adds a registered objective to the set the next checks optimize.
	AssertObjective(obj Objective) error
	// SetPriority selects the multi-objective discipline.
	// It must be called before any objective is asserted.
	SetPriority(p Priority) error
	// Solve runs one blocking satisfiability check over the asserted
	// constraints and objectives. It reports whether a satisfying
	// assignment was found.
	Solve() (bool, error)
	// ObjectiveStatus reports the outcome for obj after a check.
	ObjectiveStatus(obj Objective) (Status, error)
	// IsUnbounded reports whether the given bound of obj admits no finite value.
	IsUnbounded(obj Objective, b Bound) (bool, error)
	// IsStrict reports whether the given bound of obj is only approached,
	// never attained by a model.
	IsStrict(obj Objective, b Bound) (bool, error)
	// LoadObjectiveModel makes the model realizing obj's optimum current.
	LoadObjectiveModel(obj Objective) error
	// Model returns a snapshot of the current satisfying assignment.
	Model() (Model, error)
}

// Incremental is implemented by sessions that support backtrack points.
// Objectives asserted after a Push are retracted by the matching Pop.
type Incremental interface {
	Session
	Push() error
	Pop() error
}
