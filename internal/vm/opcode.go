package vm

// opcode.go defines the six-opcode instruction set and its wire layout.
//
// Each instruction is an opcode word followed by a fixed number of operand
// words. There are no variable-length or branching instructions, so decode
// never needs to look beyond an instruction's own operands to know how far
// to advance.

//go:generate go run golang.org/x/tools/cmd/stringer -type Opcode -output opcode_string.go

// Opcode identifies the operation encoded at a Program address.
type Opcode int

// Opcode assignments. This table is a stable, observable contract: the wire
// values must not change, since Program.Assembly and any caller decoding raw
// instruction streams depend on them.
const (
	OpPutStructure  Opcode = iota // [op, id, arity, xreg]
	OpSetVariable                 // [op, xreg]
	OpSetValue                    // [op, xreg]
	OpGetStructure                // [op, id, arity, xreg]
	OpUnifyVariable               // [op, xreg]
	OpUnifyValue                  // [op, xreg]
)

// advance returns the word-length (opcode word plus operands) of an
// instruction with the given opcode. All instructions here are fixed-stride
// and non-branching.
func advance(op Opcode) int {
	switch op {
	case OpPutStructure, OpGetStructure:
		return 4
	case OpSetVariable, OpSetValue, OpUnifyVariable, OpUnifyValue:
		return 2
	default:
		return 0
	}
}
