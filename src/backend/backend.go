// Package backend emits the textual x86 assembly of a finished TAC program, AT&T
// syntax, suitable for assembly by a standard 32-bit toolchain. Register allocation
// is performed by an external collaborator behind the Allocator interface; the
// backend frames the allocator's native instruction streams with sections, the
// virtual table data, the string pool and the method prologues and epilogues.
package backend

import (
	"fmt"
	"strconv"

	"decafc/src/ir/tac"
	"decafc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Allocator replaces the virtual registers of one method with physical registers and
// stack slots. It operates purely on the use/def sets and control flow kinds of the
// pseudo instructions. AllocMethod returns the substituted native stream, which
// starts with the method's entry label marker, and the method's frame size in bytes.
type Allocator interface {
	AllocMethod(f *tac.Func) ([]*tac.NativeInstr, int32, error)
}

// ---------------------
// ----- Constants -----
// ---------------------

// indent prefixes every non-label line of the emitted assembly.
const indent = "    "

// ---------------------
// ----- Functions -----
// ---------------------

// Generate writes the complete assembly of the program: the data section holding the
// virtual tables and interned strings, then one text block per method.
func Generate(p *tac.Program, alloc Allocator, w *util.Writer) error {
	genData(p, w)

	w.Line(".text")
	for _, e1 := range p.Funcs {
		instrs, frame, err := alloc.AllocMethod(e1)
		if err != nil {
			return fmt.Errorf("backend: method %s: %w", e1.Entry, err)
		}
		if err := genMethod(e1, instrs, frame, w); err != nil {
			return err
		}
	}
	return w.Flush()
}

// genData emits the data section: one virtual table per class followed by its class
// name string, then the string literal pool.
func genData(p *tac.Program, w *util.Writer) {
	w.Line(".data")
	for _, e1 := range p.VTables {
		name := nameLabel(e1)
		w.Label(e1.Label().String())
		if e1.Parent != nil {
			w.Write("%s%-8s %s\n", indent, ".long", e1.Parent.Label())
		} else {
			w.Write("%s%-8s 0\n", indent, ".long")
		}
		w.Write("%s%-8s %s\n", indent, ".long", name)
		for _, e2 := range e1.Entries {
			w.Write("%s%-8s %s\n", indent, ".long", e2.Entry)
		}
		w.Label(name.String())
		w.Write("%s%-8s %s\n", indent, ".asciz", strconv.Quote(e1.Class))
	}
	for i1, e1 := range p.Strings {
		w.Label(tac.StringLabel(i1).String())
		w.Write("%s%-8s %s\n", indent, ".asciz", strconv.Quote(e1))
	}
	w.Line("")
}

// genMethod emits one method: entry label, frame setup, the allocator's native
// stream and the shared epilogue. The native stream's leading entry marker is
// replaced by the framed label so the prologue precedes every body instruction.
func genMethod(f *tac.Func, instrs []*tac.NativeInstr, frame int32, w *util.Writer) error {
	if len(instrs) == 0 || instrs[0].Op != tac.OpMark || instrs[0].Lab != f.Entry {
		return fmt.Errorf("backend: method %s: native stream does not start with its entry marker", f.Entry)
	}

	w.Line("")
	if f.Entry == tac.LabelMain {
		w.Write("%-8s %s\n", ".globl", f.Entry)
	}
	w.Label(f.Entry.String())
	emit(w, tac.NativePush(tac.EBP))
	emit(w, tac.NativeMove(tac.EBP, tac.ESP))
	if frame > 0 {
		emit(w, tac.RSPAdd(-frame))
	}
	for _, e1 := range instrs[1:] {
		emit(w, e1)
	}
	w.Label(f.Epilogue.String())
	emit(w, tac.NativeLeave())
	emit(w, tac.NativeReturn())
	return nil
}

// emit writes one rendered native instruction; label markers are flush left, every
// other instruction is indented.
func emit(w *util.Writer, i *tac.NativeInstr) {
	if i.Op == tac.OpMark {
		w.Line(i.String())
		return
	}
	w.Line(indent + i.String())
}

// nameLabel returns the label of the class name string of a virtual table. The
// trailing sigil keeps it out of the namespace of class and method labels.
func nameLabel(v *tac.VTable) tac.Label {
	return v.Label() + "$"
}
