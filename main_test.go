package main

import (
	"testing"

	"github.com/crillab/gophersmt/fd"
	"github.com/crillab/gophersmt/optimize"
)

func TestLoadProblem(t *testing.T) {
	sess, goals, err := loadProblem("testdata/production.yaml")
	if err != nil {
		t.Fatalf("could not load problem: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}
	if goals[0].Kind() != optimize.KindMaximize || goals[1].Kind() != optimize.KindMinimize {
		t.Errorf("invalid goal kinds: %v, %v", goals[0].Kind(), goals[1].Kind())
	}
	o := optimize.New(sess, fd.Converter{})
	res, err := o.Optimize(goals[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil {
		t.Fatal("expected a model, got unsat")
	}
	// 3a + 2b peaks at a = 10, b = 1 under 2a + 3b <= 24.
	if res.Values[0] != 32 {
		t.Errorf("invalid optimum: expected 32, got %v", res.Values[0])
	}
}

func TestGoalDeclValidation(t *testing.T) {
	tests := []goalDecl{
		{Kind: "minimize"},                  // missing term
		{Kind: "minmax"},                    // missing terms
		{Kind: "pareto", Term: &termDecl{}}, // unknown kind
	}
	for i, decl := range tests {
		if _, err := decl.goal(); err == nil {
			t.Errorf("test %d: expected an error for %+v", i, decl)
		}
	}
}

func TestConstrDeclValidation(t *testing.T) {
	if _, err := (constrDecl{Op: "<"}).constrs(); err == nil {
		t.Error("expected an error for an invalid operator")
	}
}
