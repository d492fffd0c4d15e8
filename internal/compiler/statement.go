package compiler

import "github.com/gowam/warren/internal/vm"

// StatementRef identifies a subterm within a statement under construction.
// It is only meaningful to the StatementBuilder that issued it.
type StatementRef struct{ reg int }

type allocationKind int

const (
	allocVar allocationKind = iota
	allocStruct
)

// allocation is what a StatementBuilder register holds before build()
// flattens it into bytecode: either a bare variable, or a structure naming
// its already-allocated children by register index.
type allocation struct {
	kind     allocationKind
	ident    int
	children []int
}

// StatementBuilder compiles a statement term into a Program that, when run
// against a heap already holding some other term, matches and unifies
// against it. Unlike QueryBuilder, a StatementBuilder doesn't emit bytecode
// as terms are built — it records an allocation table and defers the BFS
// flattening to Build.
type StatementBuilder struct {
	registers []allocation
}

// NewStatementBuilder returns an empty StatementBuilder. Register 0 is
// reserved for the top-level term until Build swaps the root into it.
func NewStatementBuilder() *StatementBuilder {
	return &StatementBuilder{registers: []allocation{{kind: allocVar}}}
}

func (b *StatementBuilder) allocate(a allocation) StatementRef {
	b.registers = append(b.registers, a)
	return StatementRef{reg: len(b.registers) - 1}
}

// Variable reserves a fresh register for an as-yet-unconstrained subterm.
func (b *StatementBuilder) Variable() StatementRef {
	return b.allocate(allocation{kind: allocVar})
}

// Structure reserves a register for a structure with the given functor
// identifier over already-allocated subterms.
func (b *StatementBuilder) Structure(ident int, subterms ...StatementRef) StatementRef {
	children := make([]int, len(subterms))

	for i, s := range subterms {
		children[i] = s.reg
	}

	return b.allocate(allocation{kind: allocStruct, ident: ident, children: children})
}

// Constant reserves a register for a zero-arity structure.
func (b *StatementBuilder) Constant(ident int) StatementRef {
	return b.Structure(ident)
}

// Build flattens the allocation table rooted at root into a Program.
//
// It first swaps register 0 with root's register, so the root occupies
// index 0 (a no-op only if root is register 0, which no handle returned by
// Variable, Structure or Constant is). It then walks the allocation table with an explicit stack
// seeded with [0]: popping a register that holds a structure emits one
// GetStructure followed by one Unify{Variable,Value} per child — Variable
// the first time a register is reached, Value on every later occurrence —
// and pushes each child so nested structures are flattened in turn. A
// register holding a bare variable contributes nothing further once
// popped; its Unify instruction was already emitted by whichever structure
// referenced it.
func (b *StatementBuilder) Build(root StatementRef) *Statement {
	regs := b.registers
	regs[0], regs[root.reg] = regs[root.reg], regs[0]

	visited := make([]bool, len(regs))

	var program vm.ProgramBuilder

	stack := []int{0}

	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		a := regs[r]
		if a.kind != allocStruct {
			continue
		}

		program.GetStructure(a.ident, len(a.children), r)

		for _, c := range a.children {
			if visited[c] {
				program.UnifyValue(c)
			} else {
				program.UnifyVariable(c)
				visited[c] = true
			}

			stack = append(stack, c)
		}
	}

	return &Statement{program: program.Build()}
}

// Statement is a compiled fact, ready to be added to a Knowledge.
type Statement struct {
	program *vm.Program
}

// Program returns the compiled bytecode, satisfying vm.Fact.
func (s *Statement) Program() *vm.Program { return s.program }
