package optimize

import (
	"fmt"

	"github.com/crillab/gophersmt/backend"
)

// A Style selects how optimization calls scope their objective assertions
// within the session.
type Style byte

const (
	// SingleShot asserts objectives directly into the session, where they
	// remain for its whole lifetime. The session is effectively consumed by
	// the call: further optimizations accumulate objectives.
	SingleShot = Style(iota)
	// Incremental brackets every optimization call between a backtrack point
	// and its matching pop, so the session can be reused once the call's
	// objectives are retracted. It requires a session implementing
	// backend.Incremental.
	Incremental
)

func (s Style) String() string {
	switch s {
	case SingleShot:
		return "single-shot"
	case Incremental:
		return "incremental"
	default:
		panic("invalid style")
	}
}

// begin opens one optimization call's assertion scope and returns the
// function closing it. For the single-shot style both are no-ops.
func (o *Optimizer) begin() (end func() error, err error) {
	if o.style == SingleShot {
		return func() error { return nil }, nil
	}
	inc, ok := o.sess.(backend.Incremental)
	if !ok {
		return nil, fmt.Errorf("backend %q does not support incremental solving", o.sess.Name())
	}
	if err := inc.Push(); err != nil {
		return nil, fmt.Errorf("could not push backtrack point: %v", err)
	}
	return inc.Pop, nil
}
