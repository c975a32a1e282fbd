package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/crillab/gophersmt/backend"
	"github.com/crillab/gophersmt/fd"
	"github.com/crillab/gophersmt/optimize"
)

// A problemFile is the YAML description of an optimization problem over
// bounded integer variables.
type problemFile struct {
	Vars        []varDecl    `yaml:"vars"`
	Constraints []constrDecl `yaml:"constraints"`
	Goals       []goalDecl   `yaml:"goals"`
}

type varDecl struct {
	Name string `yaml:"name"`
	Lo   int    `yaml:"lo"`
	Hi   int    `yaml:"hi"`
}

type termDecl struct {
	Coeffs []coeffDecl `yaml:"coeffs"`
	Const  int         `yaml:"const"`
}

type coeffDecl struct {
	Coeff int    `yaml:"coeff"`
	Var   string `yaml:"var"`
}

type constrDecl struct {
	Term termDecl `yaml:"term"`
	Op   string   `yaml:"op"` // ">=", "<=" or "=="
	K    int      `yaml:"k"`
}

type goalDecl struct {
	Kind  string     `yaml:"kind"` // "minimize", "maximize", "minmax" or "maxmin"
	Term  *termDecl  `yaml:"term"`
	Terms []termDecl `yaml:"terms"`
}

func (t termDecl) linTerm() fd.LinTerm {
	parts := make([]fd.LinTerm, 0, len(t.Coeffs)+1)
	for _, c := range t.Coeffs {
		parts = append(parts, fd.Coeff(c.Coeff, c.Var))
	}
	if t.Const != 0 {
		parts = append(parts, fd.Const(t.Const))
	}
	return fd.Sum(parts...)
}

func (c constrDecl) constrs() ([]fd.Constr, error) {
	t := c.Term.linTerm()
	switch c.Op {
	case ">=":
		return []fd.Constr{fd.GtEq(t, c.K)}, nil
	case "<=":
		return []fd.Constr{fd.LtEq(t, c.K)}, nil
	case "==":
		return fd.Eq(t, c.K), nil
	default:
		return nil, fmt.Errorf("invalid constraint operator %q", c.Op)
	}
}

func (g goalDecl) goal() (*optimize.Goal, error) {
	switch g.Kind {
	case "minimize", "maximize":
		if g.Term == nil {
			return nil, fmt.Errorf("%s goal needs a term", g.Kind)
		}
		if g.Kind == "minimize" {
			return optimize.Minimize(g.Term.linTerm()), nil
		}
		return optimize.Maximize(g.Term.linTerm()), nil
	case "minmax", "maxmin":
		if len(g.Terms) == 0 {
			return nil, fmt.Errorf("%s goal needs at least one term", g.Kind)
		}
		ts := make([]backend.Term, len(g.Terms))
		for i, t := range g.Terms {
			ts[i] = t.linTerm()
		}
		if g.Kind == "minmax" {
			return optimize.MinMax(ts...), nil
		}
		return optimize.MaxMin(ts...), nil
	default:
		return nil, fmt.Errorf("invalid goal kind %q", g.Kind)
	}
}

func loadProblem(path string) (*fd.Session, []*optimize.Goal, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open %q: %v", path, err)
	}
	var pf problemFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, nil, fmt.Errorf("could not parse %q: %v", path, err)
	}
	vars := make([]fd.Var, len(pf.Vars))
	for i, v := range pf.Vars {
		vars[i] = fd.IntVar(v.Name, v.Lo, v.Hi)
	}
	var constrs []fd.Constr
	for _, c := range pf.Constraints {
		cs, err := c.constrs()
		if err != nil {
			return nil, nil, err
		}
		constrs = append(constrs, cs...)
	}
	goals := make([]*optimize.Goal, len(pf.Goals))
	for i, g := range pf.Goals {
		if goals[i], err = g.goal(); err != nil {
			return nil, nil, err
		}
	}
	return fd.NewSession(vars, constrs...), goals, nil
}

func printModel(m backend.Model) {
	assigns := m.Assignments()
	names := make([]string, 0, len(assigns))
	for name := range assigns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s = %v\n", name, assigns[name])
	}
}

func run(path, mode string, verbose bool) error {
	sess, goals, err := loadProblem(path)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		return fmt.Errorf("no goal in %q", path)
	}
	var opts []optimize.Option
	if verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		sess.SetLogger(logger)
		opts = append(opts, optimize.WithLogger(logger))
	}
	o := optimize.New(sess, fd.Converter{}, opts...)
	switch mode {
	case "single":
		res, err := o.Optimize(goals[0])
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Println("UNSATISFIABLE")
			return nil
		}
		fmt.Printf("OPTIMAL, value(s) %v\n", res.Values)
		printModel(res.Model)
	case "lex":
		model, vals, err := o.Lexicographic(goals)
		if err != nil {
			return err
		}
		if model == nil {
			fmt.Println("UNSATISFIABLE")
			return nil
		}
		for i, g := range goals {
			fmt.Printf("goal %d (%s): %v\n", i, g, vals[i])
		}
		printModel(model)
	case "par":
		front, err := o.Pareto(goals)
		if err != nil {
			return err
		}
		if front == nil {
			fmt.Println("UNSATISFIABLE")
			return nil
		}
		for i, g := range goals {
			res := front[g]
			fmt.Printf("point for goal %d (%s): value(s) %v\n", i, g, res.Values)
			printModel(res.Model)
		}
	case "box":
		seq, err := o.Boxed(goals)
		if err != nil {
			return err
		}
		nb := 0
		for seq.Next() {
			fmt.Printf("model %d:\n", nb)
			printModel(seq.Model())
			nb++
		}
		if err := seq.Err(); err != nil {
			return err
		}
		if nb == 0 {
			fmt.Println("UNSATISFIABLE")
		}
	default:
		return fmt.Errorf("invalid mode %q", mode)
	}
	return nil
}

func main() {
	var (
		mode    string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "gophersmt file.yaml",
		Short: "optimize goals over finite-domain integer problems",
		Long: "gophersmt reads a YAML problem description (variables, linear constraints,\n" +
			"optimization goals) and solves it under one of four disciplines:\n" +
			"single (first goal only), lex, par or box.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], mode, verbose)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&mode, "mode", "single", "optimization discipline: single, lex, par or box")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace solver calls on stderr")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
