package compiler

import "github.com/gowam/warren/internal/vm"

// Knowledge is an ordered collection of compiled facts. It hides its
// underlying container from the machine, which only needs to add facts and
// iterate them in order.
//
// Only the first fact in a non-empty Knowledge is ever consulted by a
// query — extending this to a real multi-clause search would need a choice
// point and backtracking, which is out of scope here.
type Knowledge struct {
	facts []*Statement
}

// NewKnowledge returns an empty Knowledge.
func NewKnowledge() *Knowledge {
	return &Knowledge{}
}

// Add appends fact to the collection and returns the receiver, so calls can
// be chained.
func (k *Knowledge) Add(fact *Statement) *Knowledge {
	k.facts = append(k.facts, fact)
	return k
}

// Len reports how many facts have been added.
func (k *Knowledge) Len() int {
	return len(k.facts)
}

// XRegisters returns the maximum register requirement across all facts, or
// 0 if there are none.
func (k *Knowledge) XRegisters() int {
	regs := 0

	for _, f := range k.facts {
		if n := f.program.XRegisters(); n > regs {
			regs = n
		}
	}

	return regs
}

// Facts returns the facts in insertion order, satisfying what
// vm.Machine.Query needs: a []vm.Fact it can index into and run in order.
func (k *Knowledge) Facts() []vm.Fact {
	facts := make([]vm.Fact, len(k.facts))

	for i, f := range k.facts {
		facts[i] = f
	}

	return facts
}
