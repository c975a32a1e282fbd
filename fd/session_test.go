package fd

import (
	"testing"

	"github.com/crillab/gophersmt/backend"
)

// newSession returns a session over x, y in [0, 3] with x + y >= 2.
func newSession() *Session {
	return NewSession(
		[]Var{IntVar("x", 0, 3), IntVar("y", 0, 3)},
		GtEq(Sum(V("x"), V("y")), 2),
	)
}

// minimizeObj asserts a scalar minimization objective over t and returns its handle.
func minimizeObj(t *testing.T, s *Session, term LinTerm) backend.Objective {
	t.Helper()
	obj, err := s.MakeScalarObjective(term, false)
	if err != nil {
		t.Fatalf("could not make objective: %v", err)
	}
	if err := s.AssertObjective(obj); err != nil {
		t.Fatalf("could not assert objective: %v", err)
	}
	return obj
}

func TestSolveMinimize(t *testing.T) {
	s := newSession()
	obj := minimizeObj(t, s, V("x"))
	if status, _ := s.ObjectiveStatus(obj); status != backend.Unknown {
		t.Errorf("expected UNKNOWN before solving, got %v", status)
	}
	sat, err := s.Solve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sat {
		t.Fatal("expected sat, got unsat")
	}
	if status, _ := s.ObjectiveStatus(obj); status != backend.Optimal {
		t.Errorf("expected OPTIMAL, got %v", status)
	}
	if err := s.LoadObjectiveModel(obj); err != nil {
		t.Fatalf("could not load model: %v", err)
	}
	m, err := s.Model()
	if err != nil {
		t.Fatalf("could not get model: %v", err)
	}
	if v, _ := m.Value(V("x")); v != 0 {
		t.Errorf("invalid optimum for x: expected 0, got %v", v)
	}
}

func TestSolveUnsat(t *testing.T) {
	s := NewSession([]Var{IntVar("x", 0, 3)}, GtEq(V("x"), 5))
	obj := minimizeObj(t, s, V("x"))
	sat, err := s.Solve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sat {
		t.Fatal("expected unsat, got sat")
	}
	if status, _ := s.ObjectiveStatus(obj); status != backend.Unsat {
		t.Errorf("expected UNSAT, got %v", status)
	}
}

func TestSolveMaximizeVector(t *testing.T) {
	s := newSession()
	obj, err := s.MakeVectorObjective([]backend.Expr{V("x"), V("y")}, true)
	if err != nil {
		t.Fatalf("could not make objective: %v", err)
	}
	if err := s.AssertObjective(obj); err != nil {
		t.Fatalf("could not assert objective: %v", err)
	}
	if sat, _ := s.Solve(); !sat {
		t.Fatal("expected sat, got unsat")
	}
	if err := s.LoadObjectiveModel(obj); err != nil {
		t.Fatalf("could not load model: %v", err)
	}
	m, _ := s.Model()
	// minmax: the larger of x and y bottoms out at 1 with x = y = 1.
	x, _ := m.Value(V("x"))
	y, _ := m.Value(V("y"))
	if x != 1 || y != 1 {
		t.Errorf("invalid minmax model: x=%v, y=%v", x, y)
	}
}

func TestNeverUnboundedNorStrict(t *testing.T) {
	s := newSession()
	obj := minimizeObj(t, s, V("x"))
	if _, err := s.Solve(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ub, _ := s.IsUnbounded(obj, backend.Optimum); ub {
		t.Error("finite domains cannot be unbounded")
	}
	if st, _ := s.IsStrict(obj, backend.Optimum); st {
		t.Error("finite domains attain their optima")
	}
}

func TestPriorityAfterAssertFails(t *testing.T) {
	s := newSession()
	minimizeObj(t, s, V("x"))
	if err := s.SetPriority(backend.Box); err == nil {
		t.Error("setting priority after an assertion should fail")
	}
}

func TestBoxSolves(t *testing.T) {
	s := newSession()
	if err := s.SetPriority(backend.Box); err != nil {
		t.Fatalf("could not set priority: %v", err)
	}
	minimizeObj(t, s, V("x"))
	obj, _ := s.MakeScalarObjective(V("y"), true)
	if err := s.AssertObjective(obj); err != nil {
		t.Fatalf("could not assert objective: %v", err)
	}
	want := []int{0, 3} // min x, then max y
	for i, w := range want {
		sat, err := s.Solve()
		if err != nil {
			t.Fatalf("check %d: unexpected error: %v", i, err)
		}
		if !sat {
			t.Fatalf("check %d: expected sat", i)
		}
		m, _ := s.Model()
		term := V("x")
		if i == 1 {
			term = V("y")
		}
		if v, _ := m.Value(term); v != w {
			t.Errorf("check %d: expected %d, got %v", i, w, v)
		}
	}
	if sat, _ := s.Solve(); sat {
		t.Error("expected unsat once every objective was optimized")
	}
}

func TestParetoSolves(t *testing.T) {
	s := NewSession(
		[]Var{IntVar("x", 0, 2), IntVar("y", 0, 2)},
		GtEq(Sum(V("x"), V("y")), 2),
	)
	if err := s.SetPriority(backend.Par); err != nil {
		t.Fatalf("could not set priority: %v", err)
	}
	minimizeObj(t, s, V("x"))
	minimizeObj(t, s, V("y"))
	nb := 0
	for {
		sat, err := s.Solve()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sat {
			break
		}
		m, _ := s.Model()
		x, _ := m.Value(V("x"))
		y, _ := m.Value(V("y"))
		if x.(int)+y.(int) != 2 {
			t.Errorf("dominated point: x=%v, y=%v", x, y)
		}
		nb++
	}
	if nb != 3 { // (0,2), (1,1), (2,0)
		t.Errorf("expected 3 non-dominated points, got %d", nb)
	}
}

func TestPushPop(t *testing.T) {
	s := newSession()
	if err := s.Push(); err != nil {
		t.Fatalf("could not push: %v", err)
	}
	minimizeObj(t, s, V("x"))
	if sat, _ := s.Solve(); !sat {
		t.Fatal("expected sat")
	}
	if err := s.Pop(); err != nil {
		t.Fatalf("could not pop: %v", err)
	}
	if len(s.objectives) != 0 {
		t.Errorf("objectives not retracted: %d remaining", len(s.objectives))
	}
	// The discipline can be chosen again once objectives are retracted.
	if err := s.SetPriority(backend.Par); err != nil {
		t.Errorf("could not set priority after pop: %v", err)
	}
	if err := s.Pop(); err == nil {
		t.Error("popping without a backtrack point should fail")
	}
}

func TestConverterIdentity(t *testing.T) {
	term := Sum(V("x"), Const(1))
	e, err := Converter{}.Convert(term)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.(LinTerm); !ok {
		t.Errorf("expected a LinTerm, got %T", e)
	}
	if _, err := (Converter{}).Convert("not a term"); err == nil {
		t.Error("converting a foreign term should fail")
	}
}

func TestForeignObjectiveHandle(t *testing.T) {
	s := newSession()
	if err := s.AssertObjective("bogus"); err == nil {
		t.Error("asserting a foreign handle should fail")
	}
	if _, err := s.ObjectiveStatus(42); err == nil {
		t.Error("querying a foreign handle should fail")
	}
}
