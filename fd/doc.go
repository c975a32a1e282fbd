// Package fd provides a small finite-domain backend implementing the
// backend.Session contract over bounded integer variables and linear
// constraints.
//
// Optima are computed by exhaustive enumeration of the domain product, so
// the package is meant for small problems: demonstrations, tests and quick
// experiments. All four optimization disciplines are supported; because
// domains are finite, every optimum is attained and no cost is ever
// unbounded.
//
// The native expression form is the LinTerm itself: fd.Converter is the
// identity, up to a type check.
package fd
