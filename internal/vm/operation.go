package vm

// operation.go implements the per-opcode execution semantics: how each
// instruction reads and writes Storage and Machine mode. machine.go drives
// the decode-execute loop that calls into these.

import "fmt"

// Mode distinguishes the two ways GetStructure's later UnifyVariable and
// UnifyValue operands are interpreted: Write mode constructs a fresh term on
// the heap, Read mode walks and unifies against one already there.
type Mode int

const (
	// ModeWrite builds new structure on the heap.
	ModeWrite Mode = iota
	// ModeRead walks an existing structure, unifying as it goes.
	ModeRead
)

func (m Mode) String() string {
	if m == ModeRead {
		return "read"
	}

	return "write"
}

// perform executes a single decoded instruction against the machine's
// storage, updating sreg and mode as needed. It returns the first error
// encountered — a GetStructure mismatch, or a structural mismatch surfaced
// via Unify — at which point the caller's run loop stops.
func (m *Machine) perform(ins Instr) error {
	switch ins.Op {
	case OpPutStructure:
		return m.storage.Set(ins.XReg, m.storage.PushStruct(ins.Ident, ins.Arity))

	case OpSetVariable:
		return m.storage.Set(ins.XReg, m.storage.PushVar())

	case OpSetValue:
		reg, err := m.storage.Get(ins.XReg)
		if err != nil {
			return err
		}

		m.storage.PushCell(reg)

		return nil

	case OpGetStructure:
		return m.getStructure(ins.Ident, ins.Arity, ins.XReg)

	case OpUnifyVariable:
		return m.unifyVariable(ins.XReg)

	case OpUnifyValue:
		return m.unifyValue(ins.XReg)

	default:
		return fmt.Errorf("vm: unknown opcode %s", ins.Op)
	}
}

func (m *Machine) getStructure(ident, arity, xreg int) error {
	c, err := m.storage.Deref(xreg)
	if err != nil {
		return err
	}

	if r, isRef := c.ToRef(); isRef {
		k := m.storage.Len()
		m.storage.PushStruct(ident, arity)
		m.mode = ModeWrite

		return m.storage.Bind(r, k)
	}

	a, isStruct := c.ToStruct()
	if !isStruct {
		return fmt.Errorf("%w: expected a structure cell, got %s", ErrUnification, c)
	}

	header, err := m.storage.Get(a)
	if err != nil {
		return err
	}

	fid, farity, isFunct := header.ToFunct()
	if !isFunct {
		return fmt.Errorf("%w: expected a functor header, got %s", ErrUnification, header)
	}

	if fid != ident {
		return fmt.Errorf("%w: functor %d != %d", ErrUnification, fid, ident)
	}

	if farity != arity {
		return fmt.Errorf("%w: %d != %d", ErrArity, farity, arity)
	}

	m.sreg = a + 1
	m.mode = ModeRead

	return nil
}

func (m *Machine) unifyVariable(xreg int) error {
	switch m.mode {
	case ModeRead:
		c, err := m.storage.Get(m.sreg)
		if err != nil {
			return err
		}

		if err := m.storage.Set(xreg, c); err != nil {
			return err
		}

	case ModeWrite:
		if err := m.storage.Set(xreg, m.storage.PushVar()); err != nil {
			return err
		}
	}

	m.sreg++

	return nil
}

func (m *Machine) unifyValue(xreg int) error {
	switch m.mode {
	case ModeRead:
		if err := m.storage.Unify(xreg, m.sreg); err != nil {
			return err
		}

	case ModeWrite:
		reg, err := m.storage.Get(xreg)
		if err != nil {
			return err
		}

		m.storage.PushCell(reg)
	}

	m.sreg++

	return nil
}
