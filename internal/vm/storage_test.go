package vm

import (
	"errors"
	"testing"
)

// S4: push a variable at k; verify self-reference.
func TestStoragePushVarIsSelfReferencing(t *testing.T) {
	s := NewStorage()
	s.Reset(0)

	c := s.PushVar()

	k, ok := c.ToRef()
	if !ok {
		t.Fatalf("PushVar returned non-Ref cell %v", c)
	}

	idx, err := s.DerefIndex(k)
	if err != nil || idx != k {
		t.Fatalf("DerefIndex(%d) = (%d, %v), want (%d, nil)", k, idx, err, k)
	}

	got, err := s.Get(k)
	if err != nil || got != Ref(k) {
		t.Fatalf("store[%d] = %v, want Ref(%d)", k, got, k)
	}
}

// S5: push two variables, bind one to the other.
func TestStorageBindChainsToTarget(t *testing.T) {
	s := NewStorage()
	s.Reset(0)

	c1 := s.PushVar()
	c2 := s.PushVar()

	k1, _ := c1.ToRef()
	k2, _ := c2.ToRef()

	if err := s.Bind(k1, k2); err != nil {
		t.Fatalf("Bind: %s", err)
	}

	if idx, err := s.DerefIndex(k1); err != nil || idx != k2 {
		t.Fatalf("DerefIndex(k1) = (%d, %v), want (%d, nil)", idx, err, k2)
	}

	if idx, err := s.DerefIndex(k2); err != nil || idx != k2 {
		t.Fatalf("DerefIndex(k2) = (%d, %v), want (%d, nil)", idx, err, k2)
	}
}

// P3: DerefIndex is idempotent.
func TestStorageDerefIndexIdempotent(t *testing.T) {
	s := NewStorage()
	s.Reset(0)

	c1 := s.PushVar()
	c2 := s.PushVar()

	k1, _ := c1.ToRef()
	k2, _ := c2.ToRef()

	if err := s.Bind(k1, k2); err != nil {
		t.Fatalf("Bind: %s", err)
	}

	once, _ := s.DerefIndex(k1)
	twice, _ := s.DerefIndex(once)

	if once != twice {
		t.Fatalf("DerefIndex not idempotent: once=%d twice=%d", once, twice)
	}
}

// P4: bind followed by deref at either address yields the same terminal cell.
func TestStorageBindThenDerefAgree(t *testing.T) {
	s := NewStorage()
	s.Reset(0)

	c1 := s.PushVar()
	c2 := s.PushVar()

	k1, _ := c1.ToRef()
	k2, _ := c2.ToRef()

	if err := s.Bind(k1, k2); err != nil {
		t.Fatalf("Bind: %s", err)
	}

	d1, err1 := s.Deref(k1)
	d2, err2 := s.Deref(k2)

	if err1 != nil || err2 != nil || d1 != d2 {
		t.Fatalf("Deref(k1)=%v(%v) Deref(k2)=%v(%v), want equal", d1, err1, d2, err2)
	}
}

func TestStorageBindPrefersUnboundA1(t *testing.T) {
	s := NewStorage()
	s.Reset(0)

	// Both still unbound: Bind should bind a1 to a2, not the reverse.
	c1 := s.PushVar()
	c2 := s.PushVar()

	k1, _ := c1.ToRef()
	k2, _ := c2.ToRef()

	if err := s.Bind(k1, k2); err != nil {
		t.Fatalf("Bind: %s", err)
	}

	got, _ := s.Get(k1)
	if got != Ref(k2) {
		t.Fatalf("store[k1] = %v, want Ref(k2)", got)
	}
}

// S3: unifying ground structures with distinct constants fails, and leaves
// unrelated cells untouched.
func TestStorageUnifyGroundMismatchFails(t *testing.T) {
	s := NewStorage()
	s.Reset(0)

	// f(a)
	a := s.PushStruct(1, 0) // a/0
	fa := s.PushStruct(0, 1)
	s.PushCell(a)

	// f(b)
	b := s.PushStruct(2, 0) // b/0
	fb := s.PushStruct(0, 1)
	s.PushCell(b)

	// Each Struct cell sits just before the Funct header it points at.
	faIdx, _ := fa.ToStruct()
	fbIdx, _ := fb.ToStruct()

	before := append([]Cell(nil), s.store...)

	if err := s.Unify(faIdx-1, fbIdx-1); !errors.Is(err, ErrUnification) {
		t.Fatalf("Unify(f(a), f(b)) = %v, want ErrUnification", err)
	}

	for i := range before {
		if s.store[i] != before[i] {
			t.Fatalf("cell %d changed from %v to %v after failed unify", i, before[i], s.store[i])
		}
	}
}

func TestStorageUnifyBindsVariableToStructure(t *testing.T) {
	s := NewStorage()
	s.Reset(2)

	v := s.PushVar()
	vAddr, _ := v.ToRef()
	s.Set(0, v)

	st := s.PushStruct(5, 0)
	s.Set(1, st)

	if err := s.Unify(0, 1); err != nil {
		t.Fatalf("Unify(var, const) failed: %s", err)
	}

	got, _ := s.Deref(vAddr)
	want, _ := s.Deref(1)

	if got != want {
		t.Fatalf("Deref(var) = %v, Deref(const) = %v, want equal", got, want)
	}
}

func TestStorageUnifyArityMismatch(t *testing.T) {
	s := NewStorage()
	s.Reset(0)

	f1 := s.PushStruct(0, 1)
	v := s.PushVar()
	s.PushCell(v)

	f2 := s.PushStruct(0, 2)
	v1 := s.PushVar()
	v2 := s.PushVar()
	s.PushCell(v1)
	s.PushCell(v2)

	// Each Struct cell sits just before the Funct header it points at.
	f1Idx, _ := f1.ToStruct()
	f2Idx, _ := f2.ToStruct()

	if err := s.Unify(f1Idx-1, f2Idx-1); !errors.Is(err, ErrArity) {
		t.Fatalf("Unify(f/1, f/2) = %v, want ErrArity", err)
	}
}

func TestStorageOutOfBounds(t *testing.T) {
	s := NewStorage()
	s.Reset(1)

	if _, err := s.Get(5); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Get(5) on a 1-cell store = %v, want ErrOutOfBounds", err)
	}

	if _, err := s.DerefIndex(5); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("DerefIndex(5) on a 1-cell store = %v, want ErrOutOfBounds", err)
	}
}

func TestStorageReset(t *testing.T) {
	s := NewStorage()
	s.Reset(2)
	s.PushVar()
	s.PushVar()

	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}

	s.Reset(3)

	if s.Len() != 3 {
		t.Fatalf("Len() after Reset(3) = %d, want 3", s.Len())
	}

	for i, c := range s.Registers() {
		if c != Empty {
			t.Fatalf("register %d = %v after Reset, want Empty", i, c)
		}
	}
}
