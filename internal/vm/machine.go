package vm

// machine.go is the execution core: the fetch-execute loop over a Program,
// and the Query entry point that runs a query's program followed by a
// fact's program against the same store.

import (
	"fmt"

	"github.com/gowam/warren/internal/log"
)

// QueryProgram is the subset of a compiled query the machine needs to run
// it: its bytecode, and (if non-zero) the register its top-level term ends
// up in, which gets copied into register 0 before facts are consulted.
type QueryProgram interface {
	Program() *Program
	TopLevel() int
}

// Fact is a compiled statement: bytecode that begins with
// GetStructure(id, n, 0) and then unifies its arguments against whatever is
// already in register 0.
type Fact interface {
	Program() *Program
}

// Machine runs compiled programs against a Storage. A Machine may be reused
// across queries; Query resets the storage each time.
type Machine struct {
	storage *Storage
	preg    int
	sreg    int
	mode    Mode

	log *log.Logger
}

// New returns a Machine ready to run queries.
func New() *Machine {
	return &Machine{
		storage: NewStorage(),
		log:     log.DefaultLogger(),
	}
}

// WithLogger configures the logger the machine writes execution diagnostics
// to.
func (m *Machine) WithLogger(logger *log.Logger) *Machine {
	m.log = logger
	return m
}

// LogValue reports the machine's execution state for structured logging.
func (m *Machine) LogValue() log.Value {
	return log.GroupValue(
		log.Any("preg", m.preg),
		log.Any("sreg", m.sreg),
		log.String("mode", m.mode.String()),
	)
}

// QueryResult is a snapshot of the X registers after a query completed
// successfully, from which terms can be reified via BuildTerm.
type QueryResult struct {
	machine *Machine
	regs    []Cell
}

// Reg returns the snapshotted register cell at index i.
func (r *QueryResult) Reg(i int) (Cell, error) {
	if i < 0 || i >= len(r.regs) {
		return Empty, fmt.Errorf("%w: register %d", ErrOutOfBounds, i)
	}

	return r.regs[i], nil
}

// BuildTerm reifies the term rooted at register reg through b.
func (r *QueryResult) BuildTerm(reg int, b TermBuilder) (any, error) {
	c, err := r.Reg(reg)
	if err != nil {
		return nil, err
	}

	return r.machine.BuildTerm(c, b)
}

// run resets preg/sreg/mode and executes program to completion, short-
// circuiting on the first failing instruction.
func (m *Machine) run(program *Program) error {
	m.preg = 0
	m.sreg = 0
	m.mode = ModeWrite

	m.log.Info("starting program", "program", program, "storage", m.storage)

	for {
		ins, ok := program.Decode(m.preg)
		if !ok {
			m.log.Info("halted", "machine", m)
			return nil
		}

		m.log.Debug("fetched instruction", "instr", ins, "machine", m)

		if err := m.perform(ins); err != nil {
			m.log.Debug("instruction failed", "instr", ins, "machine", m, "err", err)
			return err
		}

		m.preg += advance(ins.Op)
	}
}

// Query runs query against storage reset to accommodate both the query's
// and knowledge's register requirements, optionally copies the query's
// top-level term into register 0, then — if knowledge holds any facts —
// runs only the first fact's program against the populated store. Later
// facts are never consulted; a query either unifies against the first fact
// or fails, regardless of how many facts follow it. It returns the error
// from the query program if that fails, or from the consulted fact if it
// fails to unify.
func (m *Machine) Query(query QueryProgram, facts []Fact) (*QueryResult, error) {
	regs := query.Program().XRegisters()

	for _, fact := range facts {
		if n := fact.Program().XRegisters(); n > regs {
			regs = n
		}
	}

	m.storage.Reset(regs)

	if err := m.run(query.Program()); err != nil {
		return nil, err
	}

	if top := query.TopLevel(); top != 0 {
		c, err := m.storage.Get(top)
		if err != nil {
			return nil, err
		}

		if err := m.storage.Set(0, c); err != nil {
			return nil, err
		}
	}

	if len(facts) > 0 {
		if err := m.run(facts[0].Program()); err != nil {
			return nil, err
		}
	}

	return m.snapshot(query.Program().XRegisters()), nil
}

func (m *Machine) snapshot(n int) *QueryResult {
	regs := make([]Cell, n)

	for i := 0; i < n; i++ {
		regs[i], _ = m.storage.Get(i)
	}

	return &QueryResult{machine: m, regs: regs}
}
