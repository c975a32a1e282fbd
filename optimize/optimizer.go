package optimize

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/crillab/gophersmt/backend"
)

// An Optimizer drives a native objective-tracking session: it compiles goals
// into objective handles, asserts them, sequences satisfiability checks and
// interprets the backend's result codes.
//
// An Optimizer exclusively owns its session for the duration of each call;
// no call is reentrant against a shared session and none may run concurrently
// with another on the same session.
type Optimizer struct {
	sess   backend.Session
	conv   backend.Converter
	style  Style
	logger *slog.Logger
}

// An Option configures an Optimizer at construction.
type Option func(*Optimizer)

// WithStyle selects the solving style. The default is SingleShot.
func WithStyle(style Style) Option {
	return func(o *Optimizer) { o.style = style }
}

// WithLogger makes the optimizer trace compilation, assertions and checks
// at debug level. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Optimizer) { o.logger = logger }
}

// New returns an optimizer over the given session, using conv to translate
// cost expressions into the session's native form.
func New(sess backend.Session, conv backend.Converter, opts ...Option) *Optimizer {
	o := &Optimizer{
		sess:   sess,
		conv:   conv,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// A Result pairs a model with the valuation of one goal's cost under it.
// Values mirrors the goal's arity: a single element for a scalar goal, one
// element per input term, in input order, for a vector goal.
type Result struct {
	Model  backend.Model
	Values []backend.Value
}

// compile translates a goal into an objective handle inside the session.
// The handle is not asserted: callers building several objectives assert
// them separately, once all of them are compiled.
func (o *Optimizer) compile(g *Goal) (backend.Objective, error) {
	switch g.kind {
	case KindMinimize, KindMaximize:
		e, err := o.conv.Convert(g.terms[0])
		if err != nil {
			return nil, fmt.Errorf("could not convert cost term: %v", err)
		}
		return o.sess.MakeScalarObjective(e, g.kind == KindMaximize)
	case KindMinMax, KindMaxMin:
		es := make([]backend.Expr, len(g.terms))
		for i, t := range g.terms {
			e, err := o.conv.Convert(t)
			if err != nil {
				return nil, fmt.Errorf("could not convert cost term %d: %v", i, err)
			}
			es[i] = e
		}
		return o.sess.MakeVectorObjective(es, g.kind == KindMinMax)
	default:
		return nil, &UnsupportedGoalError{Backend: o.sess.Name(), Goal: g}
	}
}

// assertAll compiles every goal and only then asserts all resulting handles,
// in input order.
func (o *Optimizer) assertAll(goals []*Goal) ([]backend.Objective, error) {
	objs := make([]backend.Objective, len(goals))
	for i, g := range goals {
		obj, err := o.compile(g)
		if err != nil {
			return nil, err
		}
		objs[i] = obj
	}
	for i, obj := range objs {
		o.logger.Debug("asserting objective", "goal", goals[i].String())
		if err := o.sess.AssertObjective(obj); err != nil {
			return nil, fmt.Errorf("could not assert objective: %v", err)
		}
	}
	return objs, nil
}

// values reads the model's valuation of every cost term of g, in input order.
func values(m backend.Model, g *Goal) ([]backend.Value, error) {
	vals := make([]backend.Value, len(g.terms))
	for i, t := range g.terms {
		v, err := m.Value(t)
		if err != nil {
			return nil, fmt.Errorf("could not read cost valuation: %v", err)
		}
		vals[i] = v
	}
	return vals, nil
}

// Optimize finds an optimal model for a single goal.
// It returns nil, without an error, when the asserted constraints are
// unsatisfiable: the absence of an optimum is a valid outcome, not a failure.
// It fails with ErrUnknownResult when the backend cannot decide, and with an
// UnboundedError when the optimum is unbounded or only approached
// infinitesimally.
func (o *Optimizer) Optimize(g *Goal) (*Result, error) {
	end, err := o.begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = end() }()
	obj, err := o.compile(g)
	if err != nil {
		return nil, err
	}
	if err := o.sess.AssertObjective(obj); err != nil {
		return nil, fmt.Errorf("could not assert objective: %v", err)
	}
	o.logger.Debug("check-sat", "backend", o.sess.Name(), "goal", g.String())
	if _, err := o.sess.Solve(); err != nil {
		return nil, err
	}
	status, err := o.sess.ObjectiveStatus(obj)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("objective status", "status", status.String())
	switch status {
	case backend.Unknown:
		return nil, ErrUnknownResult
	case backend.Unsat:
		return nil, nil
	}
	if unbounded, err := o.sess.IsUnbounded(obj, backend.Optimum); err != nil {
		return nil, err
	} else if unbounded {
		return nil, &UnboundedError{}
	}
	if strict, err := o.sess.IsStrict(obj, backend.Optimum); err != nil {
		return nil, err
	} else if strict {
		return nil, &UnboundedError{Infinitesimal: true}
	}
	if err := o.sess.LoadObjectiveModel(obj); err != nil {
		return nil, fmt.Errorf("%w: could not load objective model: %v", ErrInternal, err)
	}
	model, err := o.sess.Model()
	if err != nil {
		return nil, err
	}
	vals, err := values(model, g)
	if err != nil {
		return nil, err
	}
	return &Result{Model: model, Values: vals}, nil
}
