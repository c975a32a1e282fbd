package optimize

import (
	"fmt"

	"github.com/crillab/gophersmt/backend"
)

// setPriority selects the multi-objective discipline for the coming call.
// It must run before any objective of the call is asserted.
func (o *Optimizer) setPriority(p backend.Priority) error {
	o.logger.Debug("setting optimization priority", "mode", p.String())
	if err := o.sess.SetPriority(p); err != nil {
		return fmt.Errorf("could not set optimization priority %q: %v", p, err)
	}
	return nil
}

// Lexicographic optimizes the goals under a strict priority order, highest
// priority first: each goal is optimized subject to the optima already fixed
// for the goals before it, in a single satisfiability check.
// On success it returns one model and, for every goal in input order, the
// model's valuation of that goal's cost terms. When no assignment satisfies
// the asserted objectives it returns nil, nil without an error.
func (o *Optimizer) Lexicographic(goals []*Goal) (backend.Model, [][]backend.Value, error) {
	end, err := o.begin()
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = end() }()
	if err := o.setPriority(backend.Lex); err != nil {
		return nil, nil, err
	}
	if _, err := o.assertAll(goals); err != nil {
		return nil, nil, err
	}
	o.logger.Debug("check-sat", "backend", o.sess.Name(), "mode", "lex", "goals", len(goals))
	sat, err := o.sess.Solve()
	if err != nil {
		return nil, nil, err
	}
	if !sat {
		return nil, nil, nil
	}
	model, err := o.sess.Model()
	if err != nil {
		return nil, nil, err
	}
	vals := make([][]backend.Value, len(goals))
	for i, g := range goals {
		if vals[i], err = values(model, g); err != nil {
			return nil, nil, err
		}
	}
	return model, vals, nil
}

// Pareto enumerates one non-dominated point per goal: objectives are all
// asserted up front, then one satisfiability check runs per goal, each
// success contributing a (model, valuation) pair keyed by the goal.
// If any check in the loop fails, the whole call aborts and returns nil:
// no partial Pareto front is ever exposed.
func (o *Optimizer) Pareto(goals []*Goal) (map[*Goal]*Result, error) {
	end, err := o.begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = end() }()
	if err := o.setPriority(backend.Par); err != nil {
		return nil, err
	}
	if _, err := o.assertAll(goals); err != nil {
		return nil, err
	}
	models := make(map[*Goal]*Result, len(goals))
	for _, g := range goals {
		o.logger.Debug("check-sat", "backend", o.sess.Name(), "mode", "par", "goal", g.String())
		sat, err := o.sess.Solve()
		if err != nil {
			return nil, err
		}
		if !sat {
			return nil, nil
		}
		model, err := o.sess.Model()
		if err != nil {
			return nil, err
		}
		vals, err := values(model, g)
		if err != nil {
			return nil, err
		}
		models[g] = &Result{Model: model, Values: vals}
	}
	return models, nil
}

// A Boxed is the lazy sequence of models produced by boxed optimization.
// Each call to Next runs one blocking satisfiability check on the caller's
// goroutine; the sequence ends permanently at the first failed check and
// cannot be restarted.
type Boxed struct {
	o     *Optimizer
	end   func() error
	model backend.Model
	err   error
	done  bool
}

// Boxed optimizes the goals independently of one another: every objective is
// asserted up front under the boxed discipline, and the returned sequence
// produces one model per successful satisfiability check, as far as the
// caller cares to pull it.
func (o *Optimizer) Boxed(goals []*Goal) (*Boxed, error) {
	end, err := o.begin()
	if err != nil {
		return nil, err
	}
	if err := o.setPriority(backend.Box); err != nil {
		_ = end()
		return nil, err
	}
	if _, err := o.assertAll(goals); err != nil {
		_ = end()
		return nil, err
	}
	return &Boxed{o: o, end: end}, nil
}

// Next runs the next satisfiability check and reports whether it produced a
// model. Once it has returned false it keeps returning false.
func (b *Boxed) Next() bool {
	if b.done {
		return false
	}
	b.o.logger.Debug("check-sat", "backend", b.o.sess.Name(), "mode", "box")
	sat, err := b.o.sess.Solve()
	if err != nil || !sat {
		b.err = err
		b.exhaust()
		return false
	}
	if b.model, err = b.o.sess.Model(); err != nil {
		b.err = err
		b.exhaust()
		return false
	}
	return true
}

// Model returns the model produced by the last successful call to Next.
func (b *Boxed) Model() backend.Model {
	return b.model
}

// Err returns the first error encountered while pulling the sequence, if any.
func (b *Boxed) Err() error {
	return b.err
}

// Close releases the sequence's assertion scope. It is idempotent, and
// called implicitly when the sequence exhausts itself.
func (b *Boxed) Close() error {
	if b.done {
		return nil
	}
	b.exhaust()
	return nil
}

func (b *Boxed) exhaust() {
	b.done = true
	b.model = nil
	_ = b.end()
}
