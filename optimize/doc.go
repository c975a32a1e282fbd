// Package optimize turns abstract optimization goals into objectives
// asserted against a native objective-tracking solver session, and drives
// the solve/inspect cycles that produce optimal models.
//
// The package performs no search of its own: satisfiability checking and
// model construction belong to the backend the session wraps. What it owns
// is the protocol in between, under four distinct disciplines:
//
//   - a single goal, optimized in one check (Optimize);
//   - lexicographic optimization, where goals are ranked by strict priority
//     and solved in one check (Lexicographic);
//   - Pareto optimization, enumerating non-dominated points one check at a
//     time (Pareto);
//   - boxed optimization, where each goal is optimized independently and
//     models are pulled lazily from a sequence (Boxed).
//
// Goals carry either a scalar cost (Minimize, Maximize) or an ordered vector
// of costs ranked by worst case (MinMax, MaxMin).
//
// Everything here is single-threaded and blocking: a session is owned by one
// goroutine for the duration of a call, and every satisfiability check runs
// to completion on the caller's goroutine.
package optimize
