package lang

import (
	"errors"
	"fmt"

	"github.com/gowam/warren/internal/compiler"
	"github.com/gowam/warren/internal/vm"
)

// ErrUnknownVariable is returned by QueryResult.Term for a name that never
// appeared in the query that produced the result.
var ErrUnknownVariable = errors.New("lang: unknown query variable")

// Context is the REPL's standing state across many inputs: the functor
// interner (so `p(...)` round-trips rather than `_2(...)`), the fact base
// built up from `.` inputs, and the machine those facts and queries run
// against.
type Context struct {
	interner  *Interner
	knowledge *compiler.Knowledge
	machine   *vm.Machine
	minRegs   int
}

// NewContext returns an empty Context: no facts, a fresh interner, a fresh
// machine.
func NewContext() *Context {
	return &Context{
		interner:  NewInterner(),
		knowledge: compiler.NewKnowledge(),
		machine:   vm.New(),
	}
}

// AddFact compiles t as a statement and appends it to the knowledge base.
func (c *Context) AddFact(t Term) {
	c.knowledge.Add(c.compileFact(t))
}

// SetMinRegisters raises the X register count of every query run
// afterward to at least n; a query whose own term already needs n or more
// registers is unaffected. It's a knob for callers that want headroom for instrumentation or future
// extension rather than a requirement of the bytecode itself.
func (c *Context) SetMinRegisters(n int) {
	c.minRegs = n
}

// QueryResult pairs a compiler.Result with the name->ref table recorded
// while lowering the query term, so callers can reify a query's variables
// by the names they were written with.
type QueryResult struct {
	result *compiler.Result
	ctx    *Context
	vars   map[string]compiler.QueryRef
}

// Term reifies the term bound to the query variable named name.
func (r *QueryResult) Term(name string) (Term, error) {
	ref, ok := r.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariable, name)
	}

	v, err := r.result.BuildTerm(ref, r.ctx)
	if err != nil {
		return nil, err
	}

	t, ok := v.(Term)
	if !ok {
		return nil, fmt.Errorf("%w: %s reified to non-Term %T", vm.ErrUnification, name, v)
	}

	return t, nil
}

// Query compiles t as a query, runs it against the context's facts, and
// returns a QueryResult if it unified. The error is nil on success;
// otherwise it wraps vm.ErrUnification/vm.ErrArity for an expected match
// failure, or vm.ErrOutOfBounds for an internal inconsistency.
func (c *Context) Query(t Term) (*QueryResult, error) {
	vars := map[string]compiler.QueryRef{}

	b := compiler.NewQueryBuilder()
	root := c.lowerQuery(b, t, vars)
	query := b.Build(root)
	query.Program().EnsureRegisters(c.minRegs)

	result, err := compiler.Run(c.machine, query, c.knowledge)
	if err != nil {
		return nil, err
	}

	return &QueryResult{result: result, ctx: c, vars: vars}, nil
}

// Assembly compiles t the way Query or AddFact would (per kind) and returns
// its bytecode listing, without running it.
func (c *Context) Assembly(t Term, kind Kind) string {
	if kind == KindFact {
		return c.compileFact(t).Program().Assembly()
	}

	b := compiler.NewQueryBuilder()
	root := c.lowerQuery(b, t, map[string]compiler.QueryRef{})

	return b.Build(root).Program().Assembly()
}

func (c *Context) compileFact(t Term) *compiler.Statement {
	b := compiler.NewStatementBuilder()
	root := c.lowerFact(b, t, map[string]compiler.StatementRef{})

	return b.Build(root)
}

func (c *Context) lowerQuery(
	b *compiler.QueryBuilder,
	t Term,
	vars map[string]compiler.QueryRef,
) compiler.QueryRef {
	switch v := t.(type) {
	case Var:
		if ref, ok := vars[v.Name]; ok {
			return ref
		}

		ref := b.Variable()
		vars[v.Name] = ref

		return ref

	case Struct:
		args := make([]compiler.QueryRef, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.lowerQuery(b, a, vars)
		}

		return b.Structure(c.interner.Intern(v.Name), args...)

	default:
		panic(fmt.Sprintf("lang: unknown term type %T", t))
	}
}

func (c *Context) lowerFact(
	b *compiler.StatementBuilder,
	t Term,
	vars map[string]compiler.StatementRef,
) compiler.StatementRef {
	switch v := t.(type) {
	case Var:
		if ref, ok := vars[v.Name]; ok {
			return ref
		}

		ref := b.Variable()
		vars[v.Name] = ref

		return ref

	case Struct:
		args := make([]compiler.StatementRef, len(v.Args))
		for i, a := range v.Args {
			args[i] = c.lowerFact(b, a, vars)
		}

		return b.Structure(c.interner.Intern(v.Name), args...)

	default:
		panic(fmt.Sprintf("lang: unknown term type %T", t))
	}
}

// Variable implements vm.TermBuilder: an unbound variable reifies to a
// synthetic name built from its heap address, since the original source
// name isn't recoverable from a bare cell.
func (c *Context) Variable(addr int) any {
	return Var{Name: fmt.Sprintf("_%d", addr)}
}

// Structure implements vm.TermBuilder, translating a functor id back to its
// interned name.
func (c *Context) Structure(ident int, subterms []any) any {
	name, ok := c.interner.Name(ident)
	if !ok {
		name = fmt.Sprintf("_%d", ident)
	}

	args := make([]Term, len(subterms))

	for i, s := range subterms {
		args[i] = s.(Term)
	}

	return Struct{Name: name, Args: args}
}
