package fd

import (
	"fmt"
	"strings"
)

// A Var is a bounded integer variable.
type Var struct {
	Name string
	Lo   int // Smallest admissible value.
	Hi   int // Largest admissible value, inclusive.
}

// IntVar returns a variable named "name" ranging over [lo, hi].
func IntVar(name string, lo, hi int) Var {
	return Var{Name: name, Lo: lo, Hi: hi}
}

// A LinTerm is a linear expression over integer variables, i.e a weighted
// sum of variables plus a constant. It is the cost-expression form of this
// backend, and doubles as its native expression form: conversion is the
// identity.
type LinTerm struct {
	coeffs []coeff
	k      int
}

type coeff struct {
	c int
	v string
}

// V returns the linear term made of the single variable named "name".
func V(name string) LinTerm {
	return LinTerm{coeffs: []coeff{{c: 1, v: name}}}
}

// Coeff returns the linear term c*name.
func Coeff(c int, name string) LinTerm {
	return LinTerm{coeffs: []coeff{{c: c, v: name}}}
}

// Const returns the constant linear term k.
func Const(k int) LinTerm {
	return LinTerm{k: k}
}

// Sum returns the sum of the given linear terms.
func Sum(ts ...LinTerm) LinTerm {
	var res LinTerm
	for _, t := range ts {
		res.coeffs = append(res.coeffs, t.coeffs...)
		res.k += t.k
	}
	return res
}

// Neg returns the opposite of t.
func (t LinTerm) Neg() LinTerm {
	neg := LinTerm{coeffs: make([]coeff, len(t.coeffs)), k: -t.k}
	for i, c := range t.coeffs {
		neg.coeffs[i] = coeff{c: -c.c, v: c.v}
	}
	return neg
}

// eval returns the value of t under the given assignment.
func (t LinTerm) eval(assign map[string]int) int {
	res := t.k
	for _, c := range t.coeffs {
		res += c.c * assign[c.v]
	}
	return res
}

func (t LinTerm) String() string {
	var sb strings.Builder
	for i, c := range t.coeffs {
		if i > 0 {
			sb.WriteString(" + ")
		}
		if c.c == 1 {
			sb.WriteString(c.v)
		} else {
			fmt.Fprintf(&sb, "%d*%s", c.c, c.v)
		}
	}
	if t.k != 0 || len(t.coeffs) == 0 {
		if len(t.coeffs) > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "%d", t.k)
	}
	return sb.String()
}

// A Constr is a linear constraint, stored in normalized t >= k form.
type Constr struct {
	t LinTerm
	k int
}

// GtEq returns the constraint t >= k.
func GtEq(t LinTerm, k int) Constr {
	return Constr{t: t, k: k}
}

// LtEq returns the constraint t <= k.
func LtEq(t LinTerm, k int) Constr {
	return Constr{t: t.Neg(), k: -k}
}

// Eq returns the pair of constraints equivalent to t == k.
func Eq(t LinTerm, k int) []Constr {
	return []Constr{GtEq(t, k), LtEq(t, k)}
}

// sat is true iff the constraint holds under the given assignment.
func (c Constr) sat(assign map[string]int) bool {
	return c.t.eval(assign) >= c.k
}

func (c Constr) String() string {
	return fmt.Sprintf("%s >= %d", c.t, c.k)
}
