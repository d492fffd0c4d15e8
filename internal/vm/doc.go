/*
Package vm implements a small abstract machine for first-order term
unification, in the style of Warren's Abstract Machine at its simplest
levels (commonly called L0/L1).

With the goal being to compile structured terms down to a flat bytecode and
execute that bytecode against a tagged-cell heap, the design mirrors the
classic WAM presentation fairly closely:

# Storage #

A single flat array of [Cell] values is shared between two regions:

  - registers, addressed 0..regs, indexable and overwritable by the
    running program;
  - the heap, addressed regs.., append-only for the duration of one
    execution.

Addressing is unified: [Storage.Deref], [Storage.Bind] and [Storage.Unify]
make no distinction between a register address and a heap address. This
keeps the hardest invariants — self-referential "unbound variable" cells,
acyclic dereference chains, arity-sized contiguous structure blocks — in
one small, carefully tested place.

# Bytecode #

A [Program] is an immutable sequence of machine words. Six opcodes are
defined (see [Opcode]); each instruction is a fixed-stride opcode word
followed by its operands, so decoding never branches on variable-length
encodings. [Program.Assembly] renders a two-column address:instruction
listing for debugging.

# Execution #

[Machine] holds the instruction pointer, an S-register cursor used during
read-mode unification, and a read/write mode flag, exactly as WAM
describes. [Machine.Query] resets storage, runs a query program to build a
term on the heap, and — if a [knowledge base] holds any facts — runs only
the first one's program to unify that term against a previously compiled
statement. Later facts are never consulted.

[knowledge base]: https://pkg.go.dev/github.com/gowam/warren/internal/compiler#Knowledge
*/
package vm
