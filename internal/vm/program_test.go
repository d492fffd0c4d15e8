package vm

import "testing"

// S6: compiling a constant a/0 (ident 3) as a query emits exactly
// PutStructure(3,0,1).
func TestProgramBuilderConstant(t *testing.T) {
	var b ProgramBuilder

	b.PutStructure(3, 0, 1)

	p := b.Build()

	ins, ok := p.Decode(0)
	if !ok {
		t.Fatalf("Decode(0) failed")
	}

	want := Instr{Op: OpPutStructure, Ident: 3, Arity: 0, XReg: 1}
	if ins != want {
		t.Fatalf("Decode(0) = %+v, want %+v", ins, want)
	}

	if _, ok := p.Decode(4); ok {
		t.Fatalf("Decode(4) should report no instruction past the single emitted one")
	}

	if p.XRegisters() != 2 {
		t.Fatalf("XRegisters() = %d, want 2", p.XRegisters())
	}
}

// P8: program word count equals the sum of advance(op) over emitted
// instructions.
func TestProgramWordCountMatchesAdvance(t *testing.T) {
	var b ProgramBuilder

	b.PutStructure(2, 3, 3) // 4 words
	b.SetVariable(1)        // 2 words
	b.SetVariable(2)        // 2 words
	b.SetValue(1)           // 2 words

	p := b.Build()

	total := 0
	count := 0

	p.Instructions()(func(addr int, ins Instr) bool {
		total += advance(ins.Op)
		count++

		return true
	})

	if got := len(p.words); got != total {
		t.Fatalf("word count = %d, sum of advance() = %d", got, total)
	}

	if count != 4 {
		t.Fatalf("decoded %d instructions, want 4", count)
	}
}

func TestProgramAssembly(t *testing.T) {
	var b ProgramBuilder

	b.PutStructure(2, 1, 0).SetVariable(1)

	p := b.Build()

	want := "   0: OpPutStructure(2, 1, 0)\n   4: OpSetVariable(1)"
	if got := p.Assembly(); got != want {
		t.Fatalf("Assembly() =\n%s\nwant\n%s", got, want)
	}
}

func TestProgramDecodeTruncated(t *testing.T) {
	p := &Program{words: []int{int(OpPutStructure), 1, 2}}

	if _, ok := p.Decode(0); ok {
		t.Fatalf("Decode of a truncated PutStructure should fail")
	}
}
