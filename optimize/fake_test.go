package optimize

import (
	"fmt"

	"github.com/crillab/gophersmt/backend"
)

// A fakeSession is a scripted backend session recording every protocol call,
// used to check the orchestration sequences without a real solver.
type fakeSession struct {
	calls      []string        // call trace, in order
	solveChain []bool          // successive Solve outcomes; the last one repeats
	solves     int             // number of Solve calls so far
	status     backend.Status  // status reported for any objective
	unbounded  bool
	strict     bool
	loadErr    error
	model      fakeModel
	priority   backend.Priority
}

type fakeModel map[backend.Term]backend.Value

func (m fakeModel) Value(t backend.Term) (backend.Value, error) {
	v, ok := m[t]
	if !ok {
		return nil, fmt.Errorf("no valuation for term %v", t)
	}
	return v, nil
}

func (m fakeModel) Assignments() map[string]backend.Value {
	res := make(map[string]backend.Value, len(m))
	for t, v := range m {
		res[fmt.Sprint(t)] = v
	}
	return res
}

type fakeObjective struct {
	exprs  []backend.Expr
	max    bool
	vector bool
}

func (f *fakeSession) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeSession) Name() string { return "fake" }

func (f *fakeSession) MakeScalarObjective(e backend.Expr, max bool) (backend.Objective, error) {
	f.record("make-scalar(%v,max=%t)", e, max)
	return &fakeObjective{exprs: []backend.Expr{e}, max: max}, nil
}

func (f *fakeSession) MakeVectorObjective(es []backend.Expr, minmax bool) (backend.Objective, error) {
	f.record("make-vector(%v,minmax=%t)", es, minmax)
	return &fakeObjective{exprs: es, vector: true}, nil
}

func (f *fakeSession) AssertObjective(obj backend.Objective) error {
	f.record("assert")
	return nil
}

func (f *fakeSession) SetPriority(p backend.Priority) error {
	f.record("priority(%s)", p)
	f.priority = p
	return nil
}

func (f *fakeSession) Solve() (bool, error) {
	f.record("solve")
	res := true
	if len(f.solveChain) > 0 {
		i := f.solves
		if i >= len(f.solveChain) {
			i = len(f.solveChain) - 1
		}
		res = f.solveChain[i]
	}
	f.solves++
	return res, nil
}

func (f *fakeSession) ObjectiveStatus(obj backend.Objective) (backend.Status, error) {
	f.record("status")
	return f.status, nil
}

func (f *fakeSession) IsUnbounded(obj backend.Objective, b backend.Bound) (bool, error) {
	f.record("unbounded?")
	return f.unbounded, nil
}

func (f *fakeSession) IsStrict(obj backend.Objective, b backend.Bound) (bool, error) {
	f.record("strict?")
	return f.strict, nil
}

func (f *fakeSession) LoadObjectiveModel(obj backend.Objective) error {
	f.record("load-model")
	return f.loadErr
}

func (f *fakeSession) Model() (backend.Model, error) {
	f.record("model")
	return f.model, nil
}

// A fakeIncSession adds backtrack points to fakeSession.
type fakeIncSession struct {
	fakeSession
	depth int
}

func (f *fakeIncSession) Push() error {
	f.record("push")
	f.depth++
	return nil
}

func (f *fakeIncSession) Pop() error {
	f.record("pop")
	if f.depth == 0 {
		return fmt.Errorf("no backtrack point to pop")
	}
	f.depth--
	return nil
}

// identity is a pass-through converter recording nothing.
type identity struct{}

func (identity) Convert(t backend.Term) (backend.Expr, error) {
	return t, nil
}

// failConv fails on every conversion.
type failConv struct{}

func (failConv) Convert(t backend.Term) (backend.Expr, error) {
	return nil, fmt.Errorf("cannot convert %v", t)
}
