// Tests the program writer: argument temp numbering, string interning, label
// generation, fall-through completion and the call protocol contract.

package tac

import "testing"

// helperWriter creates a program writer over the given classes and emits the virtual
// tables, leaving the writer ready to open methods.
func helperWriter(t *testing.T, infos []*ClassInfo) *ProgramWriter {
	t.Helper()
	pw, err := NewProgramWriter(infos)
	if err != nil {
		t.Fatalf("failed to create program writer: %v", err)
	}
	pw.VisitVTables()
	return pw
}

// helperExpectContract fails the test unless fn panics with a ContractError.
func helperExpectContract(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%s: expected a contract violation panic, got none", name)
			return
		}
		if _, ok := r.(ContractError); !ok {
			t.Errorf("%s: expected ContractError, got %T: %v", name, r, r)
		}
	}()
	fn()
}

func TestArgumentTemps(t *testing.T) {
	pw := helperWriter(t, []*ClassInfo{{Name: "A", Methods: []string{"m"}}})

	// An instance method with two parameters occupies three slots: the receiver in
	// slot 0 and the parameters in slots 1 and 2. Temps number from zero per method.
	mv := pw.VisitMethod("A", "m", 3)
	if mv.NumArgs() != 3 {
		t.Errorf("expected 3 argument slots, got %d", mv.NumArgs())
	}
	if mv.Entry() != "_A.m" {
		t.Errorf("expected entry label _A.m, got %s", mv.Entry())
	}
	for i1 := 0; i1 < 3; i1++ {
		if got := mv.GetArgTemp(i1); got.Index != i1 {
			t.Errorf("argument slot %d: expected temp _T%d, got %s", i1, i1, got)
		}
	}
	if next := mv.FreshTemp(); next.Index != 3 {
		t.Errorf("expected the first local temp after 3 argument slots to be _T3, got %s", next)
	}
	helperExpectContract(t, "argument slot out of range", func() { mv.GetArgTemp(3) })
	mv.VisitEnd()

	// The entry method has no receiver and no slots, and temps restart at zero.
	main := pw.VisitMainMethod()
	if main.NumArgs() != 0 {
		t.Errorf("expected no argument slots for the entry method, got %d", main.NumArgs())
	}
	if main.Entry() != LabelMain {
		t.Errorf("expected entry label %s, got %s", LabelMain, main.Entry())
	}
	if first := main.FreshTemp(); first.Index != 0 {
		t.Errorf("expected temp numbering to restart per method, got %s", first)
	}
	helperExpectContract(t, "receiver slot of the entry method", func() { main.GetArgTemp(0) })
	main.VisitEnd()
}

func TestFallThroughCompletion(t *testing.T) {
	pw := helperWriter(t, []*ClassInfo{{Name: "A"}})

	// A body without an explicit return gets a jump to the epilogue appended.
	mv := pw.VisitMainMethod()
	mv.VisitEnd()
	prog := pw.VisitEnd()

	if len(prog.Funcs) != 1 {
		t.Fatalf("expected 1 method, got %d", len(prog.Funcs))
	}
	fn := prog.Funcs[0]
	if fn.Epilogue != "main_exit" {
		t.Errorf("expected epilogue label main_exit, got %s", fn.Epilogue)
	}
	last := fn.Instrs[len(fn.Instrs)-1]
	if last.Op != OpJumpToEpilogue || last.Kind != Ret {
		t.Errorf("expected a trailing jump to the epilogue, got %s", last)
	}
	if got := last.String(); got != "jmp      main_exit" {
		t.Errorf("expected %q, got %q", "jmp      main_exit", got)
	}
}

func TestExplicitReturnNotDuplicated(t *testing.T) {
	pw := helperWriter(t, []*ClassInfo{{Name: "A"}})
	mv := pw.VisitMainMethod()
	mv.VisitReturnVoid()
	n := len(mv.fn.Instrs)
	mv.VisitEnd()
	if len(mv.fn.Instrs) != n {
		t.Errorf("expected no completion after an explicit return, stream grew from %d to %d",
			n, len(mv.fn.Instrs))
	}
}

func TestCallConvention(t *testing.T) {
	pw := helperWriter(t, []*ClassInfo{{Name: "A"}})
	mv := pw.VisitMainMethod()
	a := mv.FreshTemp()
	b := mv.FreshTemp()

	d := mv.VisitCall("_A.m", []Temp{a, b}, true)

	// Arguments are pushed right to left, and the result is moved out of RV.
	instrs := mv.fn.Instrs[1:] // Skip the entry mark.
	if len(instrs) != 4 {
		t.Fatalf("expected 4 emitted instructions, got %d", len(instrs))
	}
	if instrs[0].Op != OpPush || instrs[0].Src[0] != b {
		t.Errorf("expected the last argument pushed first, got %s", instrs[0])
	}
	if instrs[1].Op != OpPush || instrs[1].Src[0] != a {
		t.Errorf("expected the first argument pushed second, got %s", instrs[1])
	}
	if instrs[2].Op != OpCall || instrs[2].Lab != "_A.m" {
		t.Errorf("expected a direct call to _A.m, got %s", instrs[2])
	}
	if instrs[3].Op != OpMove || instrs[3].Dst[0] != d || instrs[3].Src[0] != RV {
		t.Errorf("expected the result moved out of %s into %s, got %s", RV, d, instrs[3])
	}
	mv.VisitEnd()
}

func TestStringInterning(t *testing.T) {
	pw := helperWriter(t, []*ClassInfo{{Name: "A"}})
	mv := pw.VisitMainMethod()

	t1 := mv.VisitString("hello")
	t2 := mv.VisitString("world")
	t3 := mv.VisitString("hello")

	instrs := mv.fn.Instrs[1:]
	if instrs[0].Lab != "_S0" || instrs[1].Lab != "_S1" {
		t.Errorf("expected labels _S0 and _S1 for distinct literals, got %s and %s",
			instrs[0].Lab, instrs[1].Lab)
	}
	if instrs[2].Lab != "_S0" {
		t.Errorf("expected the repeated literal to reuse _S0, got %s", instrs[2].Lab)
	}
	if t1 == t2 || t2 == t3 || t1 == t3 {
		t.Errorf("expected distinct destination temps, got %s %s %s", t1, t2, t3)
	}
	mv.VisitEnd()

	prog := pw.VisitEnd()
	if len(prog.Strings) != 2 {
		t.Fatalf("expected 2 interned literals, got %d", len(prog.Strings))
	}
	if prog.Strings[0] != "hello" || prog.Strings[1] != "world" {
		t.Errorf("expected pool [hello world], got %v", prog.Strings)
	}
}

func TestFreshLabels(t *testing.T) {
	pw := helperWriter(t, []*ClassInfo{{Name: "A"}})
	mv := pw.VisitMainMethod()

	if l := mv.FreshLabel(LabelIf); l != "_LIf_000" {
		t.Errorf("expected _LIf_000, got %s", l)
	}
	if l := mv.FreshLabel(LabelIf); l != "_LIf_001" {
		t.Errorf("expected _LIf_001, got %s", l)
	}
	if l := mv.FreshLabel(LabelWhileHead); l != "_LWhileHead_000" {
		t.Errorf("expected per-kind counters, got %s", l)
	}
	mv.VisitEnd()

	// Label counters are writer-scoped, so labels stay unique across methods.
	mv = pw.VisitMethod("A", "m", 0)
	if l := mv.FreshLabel(LabelIf); l != "_LIf_002" {
		t.Errorf("expected _LIf_002 in the next method, got %s", l)
	}
	mv.VisitEnd()
}

func TestWriterContract(t *testing.T) {
	infos := []*ClassInfo{{Name: "A"}}

	pw, _ := NewProgramWriter(infos)
	helperExpectContract(t, "method before vtables", func() { pw.VisitMethod("A", "m", 0) })
	helperExpectContract(t, "finalize before vtables", func() { pw.VisitEnd() })
	pw.VisitVTables()
	helperExpectContract(t, "vtables twice", func() { pw.VisitVTables() })

	mv := pw.VisitMethod("A", "m", 0)
	helperExpectContract(t, "overlapping methods", func() { pw.VisitMethod("A", "n", 0) })
	helperExpectContract(t, "finalize with an open method", func() { pw.VisitEnd() })
	mv.VisitEnd()
	helperExpectContract(t, "method closed twice", func() { mv.VisitEnd() })
	helperExpectContract(t, "emit on a closed method", func() { mv.Emit(Mark("label")) })

	pw.VisitEnd()
	helperExpectContract(t, "finalize twice", func() { pw.VisitEnd() })
	helperExpectContract(t, "method after finalize", func() { pw.VisitMethod("A", "m", 0) })
}
