package tac

import (
	"decafc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Func is the finished three-address code of one method: its identity, entry and
// epilogue labels and the frozen instruction stream.
type Func struct {
	Class    string         // Enclosing class.
	Method   string         // Method name.
	NumArgs  int            // Argument count, receiver included for instance methods.
	Entry    Label          // Entry label.
	Epilogue Label          // Epilogue label; every return path jumps here.
	Instrs   []*PseudoInstr // Instruction stream. The first instruction marks Entry.
}

// Program is the complete three-address code of a compilation unit: the virtual
// tables of every class, the method streams in declaration order and the interned
// string literal pool. A Program is immutable once the writer has finalized it.
type Program struct {
	VTables []*VTable
	Funcs   []*Func
	Strings []string // String literal k is labelled _S<k>.
}

// ---------------------
// ----- Functions -----
// ---------------------

// WriteTo prints the canonical textual TAC form of the program, one instruction per
// line, to the given writer.
func (p *Program) WriteTo(w *util.Writer) {
	for _, e1 := range p.VTables {
		w.Write("VTABLE(%s) {\n", e1.Label())
		if e1.Parent != nil {
			w.Write("    %s\n", e1.Parent.Label())
		} else {
			w.Write("    <empty>\n")
		}
		w.Write("    %s\n", e1.Class)
		for _, e2 := range e1.Entries {
			w.Write("    %s\n", e2.Entry)
		}
		w.Write("}\n\n")
	}

	for _, e1 := range p.Funcs {
		w.Write("FUNCTION(%s) {\n", e1.Entry)
		for _, e2 := range e1.Instrs {
			w.Line(e2.String())
		}
		w.Write("}\n\n")
	}
}
