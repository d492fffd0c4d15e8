// Package compiler turns structured terms into the bytecode the vm package
// runs: a QueryBuilder for the term a query constructs on the heap, a
// StatementBuilder for the term a fact matches against one already there,
// and a Knowledge collection of compiled facts.
package compiler

import "github.com/gowam/warren/internal/vm"

// QueryRef identifies a subterm within a query under construction. It is
// only meaningful to the QueryBuilder that issued it.
type QueryRef struct{ reg int }

// QueryBuilder compiles a query term into a Program that, when run,
// constructs that term on the heap. Subterms must be built before the
// parent that references them — the builder has no way to forward-declare
// a structure's arguments.
type QueryBuilder struct {
	program vm.ProgramBuilder
	next    int
}

// NewQueryBuilder returns an empty QueryBuilder. Register 0 is reserved for
// the top-level term; the first handle returned is register 1.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{next: 1}
}

func (b *QueryBuilder) allocate() int {
	r := b.next
	b.next++

	return r
}

// Variable emits a fresh, unbound variable and returns a handle to it.
func (b *QueryBuilder) Variable() QueryRef {
	r := b.allocate()
	b.program.SetVariable(r)

	return QueryRef{r}
}

// Structure emits a structure with the given functor identifier, referring
// to already-built subterms, and returns a handle to it.
func (b *QueryBuilder) Structure(ident int, subterms ...QueryRef) QueryRef {
	r := b.allocate()

	b.program.PutStructure(ident, len(subterms), r)

	for _, s := range subterms {
		b.program.SetValue(s.reg)
	}

	return QueryRef{r}
}

// Constant emits a zero-arity structure.
func (b *QueryBuilder) Constant(ident int) QueryRef {
	return b.Structure(ident)
}

// Build finalizes the query, with root as its top-level term.
func (b *QueryBuilder) Build(root QueryRef) *Query {
	return &Query{program: b.program.Build(), top: root.reg}
}

// Query is a compiled term ready to run. Running it constructs the term on
// a Machine's heap.
type Query struct {
	program *vm.Program
	top     int
}

// Program returns the compiled bytecode, satisfying vm.QueryProgram.
func (q *Query) Program() *vm.Program { return q.program }

// TopLevel returns the register the query's root term ends up in,
// satisfying vm.QueryProgram. Since register 0 is reserved, the root is
// always register 1 or higher (the last one allocated, for a structure),
// so the machine copies it into register 0 before any fact runs.
func (q *Query) TopLevel() int { return q.top }

// Result wraps a vm.QueryResult, letting callers reify QueryRef handles
// directly instead of raw register indices.
type Result struct {
	result *vm.QueryResult
}

// Reg exposes the register cell a handle resolved to, for callers that want
// to inspect Result without reifying a full term.
func (r *Result) Reg(ref QueryRef) (vm.Cell, error) {
	return r.result.Reg(ref.reg)
}

// BuildTerm reifies the term bound to ref through b.
func (r *Result) BuildTerm(ref QueryRef, b vm.TermBuilder) (any, error) {
	return r.result.BuildTerm(ref.reg, b)
}
