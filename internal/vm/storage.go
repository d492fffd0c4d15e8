package vm

// storage.go is the machine's address space: registers and heap unified
// into a single growable array of cells, plus binding and unification.

import (
	"errors"
	"fmt"

	"github.com/gowam/warren/internal/log"
)

// ErrOutOfBounds is returned, or wrapped, whenever an address escapes the
// current store.
var ErrOutOfBounds = errors.New("storage: address out of bounds")

// ErrUnification is returned, or wrapped, when two cells cannot be made to
// agree: mismatched functors, or a cell that isn't shaped the way its
// caller expected.
var ErrUnification = errors.New("storage: unification failed")

// ErrArity is returned, or wrapped, when two structures share a functor
// identifier but disagree on arity.
var ErrArity = errors.New("storage: arity mismatch")

// Storage is the machine's address space.
//
// The store begins with a number of registers, fixed by Reset, followed by
// the heap, which grows without bound during one execution. Addressing is
// unified: registers and heap cells share one index space, and every
// operation here — Deref, Bind, Unify — works the same regardless of which
// region an address falls in.
type Storage struct {
	store []Cell
	regs  int
}

// NewStorage returns a Storage with no registers and an empty heap.
func NewStorage() *Storage {
	return &Storage{}
}

// LogValue reports the store's shape for structured logging.
func (s *Storage) LogValue() log.Value {
	return log.GroupValue(
		log.Any("regs", s.regs),
		log.Any("len", len(s.store)),
	)
}

// Reset truncates the store to exactly regs cells, all default-initialized,
// and discards any heap built by a previous execution.
func (s *Storage) Reset(regs int) {
	s.regs = regs

	if cap(s.store) >= regs {
		s.store = s.store[:regs]
	} else {
		s.store = make([]Cell, regs)
	}

	for i := range s.store {
		s.store[i] = Empty
	}
}

// Registers returns the register prefix of the store.
func (s *Storage) Registers() []Cell {
	return s.store[:s.regs]
}

// Len returns the number of cells currently in the store (registers plus
// heap).
func (s *Storage) Len() int {
	return len(s.store)
}

// Get returns the cell at address a, or ErrOutOfBounds if a escapes the
// store.
func (s *Storage) Get(a int) (Cell, error) {
	if a < 0 || a >= len(s.store) {
		return Empty, fmt.Errorf("%w: address %d", ErrOutOfBounds, a)
	}

	return s.store[a], nil
}

// Set overwrites the cell at address a, used to set register values and to
// move a query's root into register 0. It returns ErrOutOfBounds if a
// escapes the store.
func (s *Storage) Set(a int, c Cell) error {
	if a < 0 || a >= len(s.store) {
		return fmt.Errorf("%w: address %d", ErrOutOfBounds, a)
	}

	s.store[a] = c

	return nil
}

// PushStruct appends a Struct cell immediately followed by its Funct header,
// and returns the appended Struct cell. The caller is expected to follow
// with exactly arity subterm pushes.
func (s *Storage) PushStruct(ident, arity int) Cell {
	k := len(s.store)
	c := Struct(k + 1)

	s.store = append(s.store, c, Funct(ident, arity))

	return c
}

// PushVar appends a fresh self-referencing (unbound) variable cell and
// returns it.
func (s *Storage) PushVar() Cell {
	k := len(s.store)
	c := Ref(k)
	s.store = append(s.store, c)

	return c
}

// PushCell appends c verbatim and returns it.
func (s *Storage) PushCell(c Cell) Cell {
	s.store = append(s.store, c)
	return c
}

// DerefIndex follows Ref links starting at address a until it reaches either
// a non-Ref cell or a self-referencing (unbound) cell, and returns that
// terminal address. It returns ErrOutOfBounds if a, or any address followed
// along the way, is out of bounds.
func (s *Storage) DerefIndex(a int) (int, error) {
	for {
		c, err := s.Get(a)
		if err != nil {
			return 0, err
		}

		r, isRef := c.ToRef()
		if !isRef {
			return a, nil
		}

		if r == a {
			return a, nil
		}

		a = r
	}
}

// Deref follows Ref links from address a and returns the terminal cell.
func (s *Storage) Deref(a int) (Cell, error) {
	idx, err := s.DerefIndex(a)
	if err != nil {
		return Empty, err
	}

	return s.store[idx], nil
}

// Bind overwrites a self-referencing (unbound) cell at a1 or a2 with a
// reference to the other address. If a1 is unbound, it is bound to a2; else
// if a2 is unbound, it is bound to a1. If neither is unbound, Bind does
// nothing — the caller's precondition (one side must be a free variable)
// was violated, which Unify never does. It returns ErrOutOfBounds if either
// address escapes the store.
func (s *Storage) Bind(a1, a2 int) error {
	if a1 < 0 || a1 >= len(s.store) {
		return fmt.Errorf("%w: address %d", ErrOutOfBounds, a1)
	}

	if a2 < 0 || a2 >= len(s.store) {
		return fmt.Errorf("%w: address %d", ErrOutOfBounds, a2)
	}

	if r, ok := s.store[a1].ToRef(); ok && r == a1 {
		s.store[a1] = Ref(a2)
		return nil
	}

	if r, ok := s.store[a2].ToRef(); ok && r == a2 {
		s.store[a2] = Ref(a1)
	}

	return nil
}

// Unify recursively equates the cells at a1 and a2, binding unbound
// variables as needed, using an explicit work stack so that deeply nested
// structures don't recurse the Go call stack. It returns nil iff the stack
// drains without a structural mismatch or an out-of-bounds address;
// otherwise it returns ErrOutOfBounds, or ErrUnification/ErrArity wrapped
// with the functors or arities that disagreed.
func (s *Storage) Unify(a1, a2 int) error {
	stack := []pair{{a1, a2}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d1, err := s.DerefIndex(p.a1)
		if err != nil {
			return err
		}

		d2, err := s.DerefIndex(p.a2)
		if err != nil {
			return err
		}

		if d1 == d2 {
			continue
		}

		c1 := s.store[d1]
		c2 := s.store[d2]

		switch {
		case c1.Tag() == TagRef || c2.Tag() == TagRef:
			if err := s.Bind(d1, d2); err != nil {
				return err
			}

		case c1.Tag() == TagStruct && c2.Tag() == TagStruct:
			v1, _ := c1.ToStruct()
			v2, _ := c2.ToStruct()

			h1, err := s.Get(v1)
			if err != nil {
				return err
			}

			h2, err := s.Get(v2)
			if err != nil {
				return err
			}

			f1, n1, ok1 := h1.ToFunct()
			f2, n2, ok2 := h2.ToFunct()

			if !ok1 || !ok2 {
				return fmt.Errorf("%w: expected functor headers at %d, %d", ErrUnification, v1, v2)
			}

			if f1 != f2 {
				return fmt.Errorf("%w: functor %d != %d", ErrUnification, f1, f2)
			}

			if n1 != n2 {
				return fmt.Errorf("%w: %d != %d", ErrArity, n1, n2)
			}

			for i := 1; i <= n1; i++ {
				stack = append(stack, pair{v1 + i, v2 + i})
			}

		default:
			return fmt.Errorf("%w: %s != %s", ErrUnification, c1, c2)
		}
	}

	return nil
}

type pair struct{ a1, a2 int }
