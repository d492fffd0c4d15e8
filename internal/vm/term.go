package vm

import "fmt"

// term.go reifies heap cells back into a caller-defined term representation.
// The machine has no notion of a term AST of its own; TermBuilder lets a
// caller (internal/lang, or a test) walk a result without reaching into
// Storage directly.

// TermBuilder receives callbacks as BuildTerm walks a heap term, and
// assembles them into a caller-chosen representation.
type TermBuilder interface {
	// Variable is called for an unbound variable cell, identified by its
	// heap address.
	Variable(addr int) any
	// Structure is called for a structure cell with the given functor
	// identifier, after all of its subterms have already been built.
	Structure(ident int, subterms []any) any
}

// Constant builds a zero-arity structure.
func Constant(b TermBuilder, ident int) any {
	return b.Structure(ident, nil)
}

// BuildTerm walks the heap term rooted at cell and reifies it through b. It
// returns ErrOutOfBounds if an address along the way escapes the store, or
// ErrUnification if the term is malformed: a Struct cell pointing somewhere
// that isn't a Funct header.
func (m *Machine) BuildTerm(cell Cell, b TermBuilder) (any, error) {
	switch cell.Tag() {
	case TagRef:
		idx, _ := cell.ToRef()

		target, err := m.storage.Deref(idx)
		if err != nil {
			return nil, err
		}

		if r, isRef := target.ToRef(); isRef {
			return b.Variable(r), nil
		}

		return m.BuildTerm(target, b)

	case TagStruct:
		a, _ := cell.ToStruct()

		header, err := m.storage.Get(a)
		if err != nil {
			return nil, err
		}

		ident, arity, isFunct := header.ToFunct()
		if !isFunct {
			return nil, fmt.Errorf("%w: expected a functor header, got %s", ErrUnification, header)
		}

		if arity == 0 {
			return Constant(b, ident), nil
		}

		subterms := make([]any, arity)

		for i := 1; i <= arity; i++ {
			c, err := m.storage.Get(a + i)
			if err != nil {
				return nil, err
			}

			sub, err := m.BuildTerm(c, b)
			if err != nil {
				return nil, err
			}

			subterms[i-1] = sub
		}

		return b.Structure(ident, subterms), nil

	default:
		return nil, fmt.Errorf("%w: cell %s is not a term", ErrUnification, cell)
	}
}
