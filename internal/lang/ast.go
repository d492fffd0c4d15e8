// Package lang is the REPL-facing surface: a term syntax, a parser for it,
// and a context that lowers parsed terms into compiler.Query/Statement
// calls and reifies results back into the same term representation.
package lang

import "strings"

// Term is the surface syntax for the machine's structured terms: a
// variable, or a structure (a zero-arity structure is a constant).
type Term interface {
	isTerm()
	String() string
}

// Var is a named logic variable, written `?name` in source.
type Var struct {
	Name string
}

func (Var) isTerm() {}

func (v Var) String() string { return "?" + v.Name }

// Struct is a named structure over zero or more argument terms. Args is
// nil for a constant.
type Struct struct {
	Name string
	Args []Term
}

func (Struct) isTerm() {}

func (s Struct) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}

	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}

	return s.Name + "(" + strings.Join(parts, ", ") + ")"
}
