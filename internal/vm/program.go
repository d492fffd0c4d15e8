package vm

// program.go is the immutable bytecode buffer: decode, the fixed-stride
// instruction iterator, and the assembly-listing printer.

import (
	"fmt"
	"strings"

	"github.com/gowam/warren/internal/log"
)

// Instr is a single decoded instruction: an opcode plus up to three operand
// words (unused operands are left zero).
type Instr struct {
	Op    Opcode
	Ident int // PutStructure, GetStructure
	Arity int // PutStructure, GetStructure
	XReg  int // all opcodes
}

func (ins Instr) String() string {
	switch ins.Op {
	case OpPutStructure, OpGetStructure:
		return fmt.Sprintf("%s(%d, %d, %d)", ins.Op, ins.Ident, ins.Arity, ins.XReg)
	default:
		return fmt.Sprintf("%s(%d)", ins.Op, ins.XReg)
	}
}

// Program is an immutable sequence of machine words: an opcode word followed
// by its fixed-count operand words, repeated. Running a Program never
// modifies it, so the same compiled Program may be run by multiple Machines
// concurrently; only EnsureRegisters changes it, by raising its declared
// register count.
type Program struct {
	words []int
	xregs int // one more than the highest register index referenced
}

// XRegisters returns the minimal number of X registers this program
// requires: one more than the highest register index it references.
func (p *Program) XRegisters() int {
	if p == nil {
		return 0
	}

	return p.xregs
}

// LogValue reports the program's shape for structured logging.
func (p *Program) LogValue() log.Value {
	if p == nil {
		return log.StringValue("<nil>")
	}

	return log.GroupValue(
		log.Any("xregs", p.xregs),
		log.Any("words", len(p.words)),
	)
}

// EnsureRegisters raises the program's declared register count to at least
// n, reserving scratch registers beyond what the compiled bytecode itself
// references. It never lowers xregs.
func (p *Program) EnsureRegisters(n int) {
	if n > p.xregs {
		p.xregs = n
	}
}

// Decode returns the instruction at word index idx, and true. If idx is past
// the end of the program, or the instruction there would run off the end
// (a truncated trailing instruction), it returns false — the execution loop
// treats this as graceful termination, not an error.
func (p *Program) Decode(idx int) (Instr, bool) {
	if p == nil || idx < 0 || idx >= len(p.words) {
		return Instr{}, false
	}

	op := Opcode(p.words[idx])

	switch op {
	case OpPutStructure, OpGetStructure:
		if idx+3 >= len(p.words) {
			return Instr{}, false
		}

		return Instr{
			Op:    op,
			Ident: p.words[idx+1],
			Arity: p.words[idx+2],
			XReg:  p.words[idx+3],
		}, true

	case OpSetVariable, OpSetValue, OpUnifyVariable, OpUnifyValue:
		if idx+1 >= len(p.words) {
			return Instr{}, false
		}

		return Instr{Op: op, XReg: p.words[idx+1]}, true

	default:
		return Instr{}, false
	}
}

// Instructions iterates the program's instructions in order, pairing each
// with its starting word index.
func (p *Program) Instructions() func(yield func(addr int, ins Instr) bool) {
	return func(yield func(addr int, ins Instr) bool) {
		addr := 0

		for {
			ins, ok := p.Decode(addr)
			if !ok {
				return
			}

			if !yield(addr, ins) {
				return
			}

			addr += advance(ins.Op)
		}
	}
}

// Assembly renders a two-column address:instruction listing, for debugging
// and for the `@asm` REPL directive.
func (p *Program) Assembly() string {
	var lines []string

	p.Instructions()(func(addr int, ins Instr) bool {
		lines = append(lines, fmt.Sprintf("%4d: %s", addr, ins))
		return true
	})

	return strings.Join(lines, "\n")
}

// ProgramBuilder accumulates instructions into a Program. It is used by the
// query and statement compilers; callers should not need to build raw
// programs directly.
type ProgramBuilder struct {
	words []int
	xregs int
}

func (b *ProgramBuilder) touch(xreg int) {
	if xreg+1 > b.xregs {
		b.xregs = xreg + 1
	}
}

// PutStructure appends a PutStructure instruction.
func (b *ProgramBuilder) PutStructure(ident, arity, xreg int) *ProgramBuilder {
	b.touch(xreg)
	b.words = append(b.words, int(OpPutStructure), ident, arity, xreg)

	return b
}

// SetVariable appends a SetVariable instruction.
func (b *ProgramBuilder) SetVariable(xreg int) *ProgramBuilder {
	b.touch(xreg)
	b.words = append(b.words, int(OpSetVariable), xreg)

	return b
}

// SetValue appends a SetValue instruction.
func (b *ProgramBuilder) SetValue(xreg int) *ProgramBuilder {
	b.touch(xreg)
	b.words = append(b.words, int(OpSetValue), xreg)

	return b
}

// GetStructure appends a GetStructure instruction.
func (b *ProgramBuilder) GetStructure(ident, arity, xreg int) *ProgramBuilder {
	b.touch(xreg)
	b.words = append(b.words, int(OpGetStructure), ident, arity, xreg)

	return b
}

// UnifyVariable appends an UnifyVariable instruction.
func (b *ProgramBuilder) UnifyVariable(xreg int) *ProgramBuilder {
	b.touch(xreg)
	b.words = append(b.words, int(OpUnifyVariable), xreg)

	return b
}

// UnifyValue appends an UnifyValue instruction.
func (b *ProgramBuilder) UnifyValue(xreg int) *ProgramBuilder {
	b.touch(xreg)
	b.words = append(b.words, int(OpUnifyValue), xreg)

	return b
}

// Build finalizes the accumulated instructions into an immutable Program.
func (b *ProgramBuilder) Build() *Program {
	return &Program{
		words: append([]int(nil), b.words...),
		xregs: b.xregs,
	}
}
