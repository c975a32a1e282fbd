package fd

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/crillab/gophersmt/backend"
)

// An objective is a registered optimization target: one or several linear
// terms, ranked by worst case when vector is true.
type objective struct {
	terms  []LinTerm
	max    bool // maximize for scalars, maxmin for vectors
	vector bool
	status backend.Status
	best   map[string]int // assignment realizing the optimum, when Optimal
}

// score returns the value to minimize under the given assignment:
// maximization scores are negated, vector costs collapse to their worst case.
func (o *objective) score(assign map[string]int) int {
	if !o.vector {
		v := o.terms[0].eval(assign)
		if o.max {
			return -v
		}
		return v
	}
	worst := o.terms[0].eval(assign)
	for _, t := range o.terms[1:] {
		v := t.eval(assign)
		if o.max { // maxmin: worst case is the minimum
			if v < worst {
				worst = v
			}
		} else if v > worst {
			worst = v
		}
	}
	if o.max {
		return -worst
	}
	return worst
}

// A Session is an enumerative solving session over bounded integer variables
// and linear constraints. Optima are found by exhaustive enumeration of the
// domain product, so it is only suited to small problems; finite domains
// always attain their optima, hence no bound is ever unbounded or strict.
type Session struct {
	id         string
	vars       []Var
	constrs    []Constr
	logger     *slog.Logger
	priority   backend.Priority
	objectives []*objective
	solves     int
	front      []map[string]int
	frontDone  bool
	current    map[string]int
	frames     []frame
}

// A frame snapshots the session state restored by Pop.
type frame struct {
	nbObjs    int
	priority  backend.Priority
	solves    int
	front     []map[string]int
	frontDone bool
	current   map[string]int
}

// NewSession returns a session over the given variables and constraints.
// The default multi-objective discipline is lexicographic, which degenerates
// to plain single-objective optimization when one objective is asserted.
func NewSession(vars []Var, constrs ...Constr) *Session {
	return &Session{
		id:      uuid.NewString(),
		vars:    vars,
		constrs: constrs,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger makes the session trace its checks at debug level.
func (s *Session) SetLogger(logger *slog.Logger) {
	s.logger = logger.With("session", s.id)
}

// Name implements backend.Session.
func (s *Session) Name() string {
	return "fd"
}

// MakeScalarObjective implements backend.Session.
func (s *Session) MakeScalarObjective(e backend.Expr, max bool) (backend.Objective, error) {
	t, ok := e.(LinTerm)
	if !ok {
		return nil, fmt.Errorf("expression %v is not a linear term", e)
	}
	return &objective{terms: []LinTerm{t}, max: max}, nil
}

// MakeVectorObjective implements backend.Session.
func (s *Session) MakeVectorObjective(es []backend.Expr, minmax bool) (backend.Objective, error) {
	if len(es) == 0 {
		return nil, fmt.Errorf("vector objective needs at least one term")
	}
	ts := make([]LinTerm, len(es))
	for i, e := range es {
		t, ok := e.(LinTerm)
		if !ok {
			return nil, fmt.Errorf("expression %v is not a linear term", e)
		}
		ts[i] = t
	}
	return &objective{terms: ts, vector: true, max: !minmax}, nil
}

// SetPriority implements backend.Session. The discipline cannot change once
// an objective has been asserted.
func (s *Session) SetPriority(p backend.Priority) error {
	if len(s.objectives) > 0 {
		return fmt.Errorf("cannot set priority %q: objectives already asserted", p)
	}
	s.priority = p
	s.resetSolveState()
	return nil
}

// AssertObjective implements backend.Session.
func (s *Session) AssertObjective(obj backend.Objective) error {
	o, err := s.handle(obj)
	if err != nil {
		return err
	}
	s.objectives = append(s.objectives, o)
	s.resetSolveState()
	return nil
}

func (s *Session) resetSolveState() {
	s.solves = 0
	s.front = nil
	s.frontDone = false
	s.current = nil
}

// handle checks that obj was created by this backend.
func (s *Session) handle(obj backend.Objective) (*objective, error) {
	o, ok := obj.(*objective)
	if !ok {
		return nil, fmt.Errorf("invalid objective handle %v", obj)
	}
	return o, nil
}

// Solve implements backend.Session. Its behavior depends on the discipline:
// lexicographic mode finds the single point optimizing all objectives in
// assertion order; Pareto mode yields the next non-dominated point on each
// call; boxed mode optimizes the k-th objective on the k-th call.
func (s *Session) Solve() (bool, error) {
	s.logger.Debug("solving", "mode", s.priority.String(), "objectives", len(s.objectives))
	switch s.priority {
	case backend.Lex:
		return s.solveLex(), nil
	case backend.Par:
		return s.solvePar(), nil
	case backend.Box:
		return s.solveBox(), nil
	default:
		panic("invalid priority")
	}
}

func (s *Session) solveLex() bool {
	var best map[string]int
	var bestScores []int
	s.forEachFeasible(func(assign map[string]int) {
		scores := s.scores(assign)
		if best == nil || lexLess(scores, bestScores) {
			best = copyAssign(assign)
			bestScores = scores
		}
	})
	if best == nil {
		s.markAll(backend.Unsat, nil)
		return false
	}
	s.markAll(backend.Optimal, best)
	s.current = best
	return true
}

func (s *Session) solvePar() bool {
	if !s.frontDone {
		s.front = s.paretoFront()
		s.frontDone = true
	}
	if len(s.front) == 0 {
		s.markAll(backend.Unsat, nil)
		return false
	}
	s.markAll(backend.Optimal, nil)
	if s.solves >= len(s.front) {
		return false
	}
	s.current = s.front[s.solves]
	s.solves++
	return true
}

func (s *Session) solveBox() bool {
	if s.solves >= len(s.objectives) {
		return false
	}
	obj := s.objectives[s.solves]
	s.solves++
	var best map[string]int
	bestScore := 0
	s.forEachFeasible(func(assign map[string]int) {
		if score := obj.score(assign); best == nil || score < bestScore {
			best = copyAssign(assign)
			bestScore = score
		}
	})
	if best == nil {
		obj.status = backend.Unsat
		return false
	}
	obj.status = backend.Optimal
	obj.best = best
	s.current = best
	return true
}

// markAll sets the status of every asserted objective, and their optimal
// assignment when one is given.
func (s *Session) markAll(status backend.Status, best map[string]int) {
	for _, o := range s.objectives {
		o.status = status
		o.best = best
	}
}

// scores returns the assignment's score under every asserted objective,
// in assertion order.
func (s *Session) scores(assign map[string]int) []int {
	res := make([]int, len(s.objectives))
	for i, o := range s.objectives {
		res[i] = o.score(assign)
	}
	return res
}

// paretoFront returns the non-dominated feasible points, one per distinct
// score tuple, ordered by tuple for determinism.
func (s *Session) paretoFront() []map[string]int {
	type point struct {
		assign map[string]int
		scores []int
	}
	var points []point
	s.forEachFeasible(func(assign map[string]int) {
		points = append(points, point{assign: copyAssign(assign), scores: s.scores(assign)})
	})
	var front []point
	for _, p := range points {
		dominated := false
		for _, q := range points {
			if dominates(q.scores, p.scores) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, p)
		}
	}
	sort.Slice(front, func(i, j int) bool { return lexLess(front[i].scores, front[j].scores) })
	res := make([]map[string]int, 0, len(front))
	var last []int
	for _, p := range front {
		if last != nil && equalScores(p.scores, last) {
			continue
		}
		res = append(res, p.assign)
		last = p.scores
	}
	return res
}

// ObjectiveStatus implements backend.Session. It reports Unknown for
// objectives no check has examined yet.
func (s *Session) ObjectiveStatus(obj backend.Objective) (backend.Status, error) {
	o, err := s.handle(obj)
	if err != nil {
		return backend.Unknown, err
	}
	return o.status, nil
}

// IsUnbounded implements backend.Session. Finite domains are never unbounded.
func (s *Session) IsUnbounded(obj backend.Objective, b backend.Bound) (bool, error) {
	if _, err := s.handle(obj); err != nil {
		return false, err
	}
	return false, nil
}

// IsStrict implements backend.Session. Finite domains attain their optima.
func (s *Session) IsStrict(obj backend.Objective, b backend.Bound) (bool, error) {
	if _, err := s.handle(obj); err != nil {
		return false, err
	}
	return false, nil
}

// LoadObjectiveModel implements backend.Session.
func (s *Session) LoadObjectiveModel(obj backend.Objective) error {
	o, err := s.handle(obj)
	if err != nil {
		return err
	}
	if o.status != backend.Optimal || o.best == nil {
		return fmt.Errorf("objective has no optimal model to load")
	}
	s.current = o.best
	return nil
}

// Model implements backend.Session.
func (s *Session) Model() (backend.Model, error) {
	if s.current == nil {
		return nil, fmt.Errorf("no model available")
	}
	return Model{assign: copyAssign(s.current)}, nil
}

// Push implements backend.Incremental.
func (s *Session) Push() error {
	s.frames = append(s.frames, frame{
		nbObjs:    len(s.objectives),
		priority:  s.priority,
		solves:    s.solves,
		front:     s.front,
		frontDone: s.frontDone,
		current:   s.current,
	})
	return nil
}

// Pop implements backend.Incremental. Objectives asserted since the matching
// Push are retracted.
func (s *Session) Pop() error {
	if len(s.frames) == 0 {
		return fmt.Errorf("no backtrack point to pop")
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	s.objectives = s.objectives[:f.nbObjs]
	s.priority = f.priority
	s.solves = f.solves
	s.front = f.front
	s.frontDone = f.frontDone
	s.current = f.current
	return nil
}

// forEachFeasible enumerates every assignment of the domain product that
// satisfies all constraints, in odometer order over the variables.
func (s *Session) forEachFeasible(fn func(assign map[string]int)) {
	assign := make(map[string]int, len(s.vars))
	for _, v := range s.vars {
		if v.Lo > v.Hi {
			return // empty domain, no assignment at all
		}
		assign[v.Name] = v.Lo
	}
	for {
		if s.feasible(assign) {
			fn(assign)
		}
		i := len(s.vars) - 1
		for i >= 0 && assign[s.vars[i].Name] == s.vars[i].Hi {
			assign[s.vars[i].Name] = s.vars[i].Lo
			i--
		}
		if i < 0 {
			return
		}
		assign[s.vars[i].Name]++
	}
}

func (s *Session) feasible(assign map[string]int) bool {
	for _, c := range s.constrs {
		if !c.sat(assign) {
			return false
		}
	}
	return true
}

func copyAssign(assign map[string]int) map[string]int {
	res := make(map[string]int, len(assign))
	for k, v := range assign {
		res[k] = v
	}
	return res
}

// lexLess is true iff a is lexicographically smaller than b.
func lexLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// dominates is true iff a is at least as good as b everywhere and strictly
// better somewhere, scores being minimized.
func dominates(a, b []int) bool {
	strict := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}

func equalScores(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// A Model is an immutable snapshot of a satisfying assignment.
type Model struct {
	assign map[string]int
}

// Value returns the model's valuation of the linear term t.
func (m Model) Value(t backend.Term) (backend.Value, error) {
	lt, ok := t.(LinTerm)
	if !ok {
		return nil, fmt.Errorf("term %v is not a linear term", t)
	}
	return lt.eval(m.assign), nil
}

// Assignments returns the value of every variable, keyed by name.
func (m Model) Assignments() map[string]backend.Value {
	res := make(map[string]backend.Value, len(m.assign))
	for k, v := range m.assign {
		res[k] = v
	}
	return res
}

// A Converter maps cost expressions to this backend's native form. The
// native form of fd is the LinTerm itself, so converting only checks types.
type Converter struct{}

// Convert implements backend.Converter.
func (Converter) Convert(t backend.Term) (backend.Expr, error) {
	lt, ok := t.(LinTerm)
	if !ok {
		return nil, fmt.Errorf("term %v is not a linear term", t)
	}
	return lt, nil
}
