package lang

import "testing"

func TestParseVariable(t *testing.T) {
	in, err := NewParser().Parse("?X?")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if in.Kind != KindQuery {
		t.Fatalf("Kind = %v, want KindQuery", in.Kind)
	}

	v, ok := in.Term.(Var)
	if !ok || v.Name != "X" {
		t.Fatalf("Term = %#v, want Var{X}", in.Term)
	}
}

func TestParseConstantFact(t *testing.T) {
	in, err := NewParser().Parse("a.")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if in.Kind != KindFact {
		t.Fatalf("Kind = %v, want KindFact", in.Kind)
	}

	s, ok := in.Term.(Struct)
	if !ok || s.Name != "a" || len(s.Args) != 0 {
		t.Fatalf("Term = %#v, want constant a", in.Term)
	}
}

func TestParseNestedStructure(t *testing.T) {
	in, err := NewParser().Parse("p(?Z, h(?Z, ?W), f(?W))?")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	top, ok := in.Term.(Struct)
	if !ok || top.Name != "p" || len(top.Args) != 3 {
		t.Fatalf("Term = %#v, want p/3 structure", in.Term)
	}

	if _, ok := top.Args[0].(Var); !ok {
		t.Fatalf("arg 0 = %#v, want a variable", top.Args[0])
	}

	h, ok := top.Args[1].(Struct)
	if !ok || h.Name != "h" || len(h.Args) != 2 {
		t.Fatalf("arg 1 = %#v, want h/2 structure", top.Args[1])
	}
}

func TestParseAsmDirective(t *testing.T) {
	in, err := NewParser().Parse("@asm a?")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !in.Asm {
		t.Fatalf("Asm = false, want true")
	}

	if in.Kind != KindQuery {
		t.Fatalf("Kind = %v, want KindQuery", in.Kind)
	}
}

func TestParseEmptyInput(t *testing.T) {
	if _, err := NewParser().Parse("   "); err != ErrEmptyInput {
		t.Fatalf("Parse(blank) error = %v, want ErrEmptyInput", err)
	}
}

func TestParseMissingTerminatorFails(t *testing.T) {
	if _, err := NewParser().Parse("a"); err == nil {
		t.Fatalf("Parse(\"a\") should fail for a missing terminator")
	}
}

func TestParseUnbalancedParensFails(t *testing.T) {
	if _, err := NewParser().Parse("f(a?"); err == nil {
		t.Fatalf("Parse of an unbalanced structure should fail")
	}
}
