package compiler

import "github.com/gowam/warren/internal/vm"

// Run executes query against a fresh (or reused) machine, consulting
// knowledge's facts, and wraps the outcome for QueryRef-based reification.
// knowledge may be nil, meaning no facts are consulted. The returned error
// is the first one the machine surfaced: ErrUnification or ErrArity for an
// expected match failure, ErrOutOfBounds for an internal inconsistency.
func Run(m *vm.Machine, query *Query, knowledge *Knowledge) (*Result, error) {
	var facts []vm.Fact
	if knowledge != nil {
		facts = knowledge.Facts()
	}

	result, err := m.Query(query, facts)
	if err != nil {
		return nil, err
	}

	return &Result{result: result}, nil
}
