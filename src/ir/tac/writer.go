// writer.go implements the two-pass program writer. The writer first emits the
// virtual tables of every class, then one instruction stream per method, managing
// temp numbering and the calling convention. Contract violations of the call
// protocol panic with a ContractError: they indicate a defect in the emission
// driver, not bad source input.

package tac

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// writerState tracks the writer through NEW, VTABLES-EMITTED, METHOD-OPEN and
// FINALIZED. A closed method returns the writer to the VTABLES-EMITTED state.
type writerState int

// LabelKind selects the prefix of generated control flow labels.
type LabelKind int

// ProgramWriter assembles a complete TAC program. Create one per compilation with
// NewProgramWriter, call VisitVTables exactly once, open and close every method in
// declaration order and retrieve the finished program with VisitEnd.
type ProgramWriter struct {
	layout *Layout
	prog   *Program
	state  writerState
	cur    *MethodVisitor
	pool   map[string]int      // Interned string literals, literal to index.
	labels [labelKindCount]int // Numerical suffixes of generated labels, per kind.
}

// MethodVisitor is the emission handle of one open method. The tree-to-TAC emitter
// appends pseudo instructions to it and closes it with VisitEnd.
type MethodVisitor struct {
	pw     *ProgramWriter
	fn     *Func
	args   []Temp // Argument slot temps, in slot order.
	seq    int    // Next temp index. Temps reset per method.
	closed bool
}

// ---------------------
// ----- Constants -----
// ---------------------

const (
	stateNew writerState = iota
	stateVTables
	stateOpen
	stateFinal
)

// Label kinds of generated control flow labels.
const (
	LabelIf LabelKind = iota
	LabelIfElse
	LabelIfEnd
	LabelWhileHead
	LabelWhileEnd
	LabelForHead
	LabelForEnd
	LabelJump
	labelKindCount
)

// labelPrefixes stores the string literal prefixes for labels of kinds.
var labelPrefixes = [labelKindCount]string{
	"_LIf_",
	"_LIfElse_",
	"_LIfEnd_",
	"_LWhileHead_",
	"_LWhileEnd_",
	"_LForHead_",
	"_LForEnd_",
	"_LJump_",
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewProgramWriter creates a writer for a program consisting of the given classes.
// An error of type *ConfigurationError is returned when class metadata is absent or
// inconsistent.
func NewProgramWriter(infos []*ClassInfo) (*ProgramWriter, error) {
	layout, err := NewLayout(infos)
	if err != nil {
		return nil, err
	}
	return &ProgramWriter{
		layout: layout,
		prog:   &Program{},
		pool:   make(map[string]int, 16),
	}, nil
}

// Layout returns the resolved class layout of the program under construction.
func (pw *ProgramWriter) Layout() *Layout {
	return pw.layout
}

// VisitVTables emits the virtual table of every class in declaration order. It must
// be called exactly once, before any method is opened.
func (pw *ProgramWriter) VisitVTables() {
	if pw.state != stateNew {
		panic(ContractError("VisitVTables must be called exactly once, before any method is opened"))
	}
	pw.prog.VTables = pw.layout.VTables()
	pw.state = stateVTables
}

// VisitMethod opens an ordinary method for emission and returns its handle. The
// writer allocates one fresh temp per argument slot; for instance methods slot 0 is
// the implicit receiver. The previous method must have been closed.
func (pw *ProgramWriter) VisitMethod(class, method string, numArgs int) *MethodVisitor {
	return pw.open(&Func{
		Class:   class,
		Method:  method,
		NumArgs: numArgs,
		Entry:   FuncLabel(class, method),
	})
}

// VisitMainMethod opens the distinguished program entry method: no receiver, no user
// parameters and the fixed entry label "main".
func (pw *ProgramWriter) VisitMainMethod() *MethodVisitor {
	return pw.open(&Func{
		Method: "main",
		Entry:  LabelMain,
	})
}

// open transitions the writer to METHOD-OPEN and pre-allocates the argument temps.
func (pw *ProgramWriter) open(fn *Func) *MethodVisitor {
	if pw.state != stateVTables {
		switch pw.state {
		case stateNew:
			panic(ContractError("method opened before VisitVTables"))
		case stateOpen:
			panic(ContractError(fmt.Sprintf("method %s.%s opened while %s.%s is still open",
				fn.Class, fn.Method, pw.cur.fn.Class, pw.cur.fn.Method)))
		default:
			panic(ContractError("method opened after the program was finalized"))
		}
	}
	fn.Epilogue = fn.Entry.Epilogue()
	mv := &MethodVisitor{pw: pw, fn: fn}
	if fn.NumArgs > 0 {
		mv.args = make([]Temp, fn.NumArgs)
		for i1 := range mv.args {
			mv.args[i1] = mv.FreshTemp()
		}
	}
	mv.Emit(Mark(fn.Entry))
	pw.cur = mv
	pw.state = stateOpen
	return mv
}

// VisitEnd finalizes the program and returns the immutable result. It panics when a
// method is still open or the virtual tables were never emitted.
func (pw *ProgramWriter) VisitEnd() *Program {
	switch pw.state {
	case stateOpen:
		panic(ContractError(fmt.Sprintf("program finalized while method %s.%s is still open",
			pw.cur.fn.Class, pw.cur.fn.Method)))
	case stateNew:
		panic(ContractError("program finalized before VisitVTables"))
	case stateFinal:
		panic(ContractError("program finalized twice"))
	}
	pw.prog.Strings = make([]string, len(pw.pool))
	for s, i1 := range pw.pool {
		pw.prog.Strings[i1] = s
	}
	pw.state = stateFinal
	return pw.prog
}

// freshLabel returns a new program-unique label of the given kind.
func (pw *ProgramWriter) freshLabel(kind LabelKind) Label {
	if kind < 0 || kind >= labelKindCount {
		panic(ContractError(fmt.Sprintf("unknown label kind %d", kind)))
	}
	l := Label(fmt.Sprintf("%s%03d", labelPrefixes[kind], pw.labels[kind]))
	pw.labels[kind]++
	return l
}

// stringLabel interns a string literal program-wide and returns its label.
func (pw *ProgramWriter) stringLabel(s string) Label {
	if i1, ok := pw.pool[s]; ok {
		return StringLabel(i1)
	}
	i1 := len(pw.pool)
	pw.pool[s] = i1
	return StringLabel(i1)
}

// --------------------------------
// ----- MethodVisitor methods ----
// --------------------------------

// NumArgs returns the number of argument slots of the open method.
func (mv *MethodVisitor) NumArgs() int {
	return mv.fn.NumArgs
}

// Entry returns the entry label of the open method.
func (mv *MethodVisitor) Entry() Label {
	return mv.fn.Entry
}

// GetArgTemp returns the temp bound to argument slot i. Parameter symbols bind their
// storage by slot position; for instance methods slot 0 holds the receiver.
func (mv *MethodVisitor) GetArgTemp(i int) Temp {
	if i < 0 || i >= len(mv.args) {
		panic(ContractError(fmt.Sprintf("argument slot %d out of range, method %s has %d",
			i, mv.fn.Entry, len(mv.args))))
	}
	return mv.args[i]
}

// FreshTemp returns a new virtual register scoped to the open method.
func (mv *MethodVisitor) FreshTemp() Temp {
	t := Temp{Index: mv.seq}
	mv.seq++
	return t
}

// FreshLabel returns a new program-unique control flow label of the given kind.
func (mv *MethodVisitor) FreshLabel(kind LabelKind) Label {
	return mv.pw.freshLabel(kind)
}

// Emit appends instruction i to the open method's stream.
func (mv *MethodVisitor) Emit(i *PseudoInstr) {
	if mv.closed {
		panic(ContractError(fmt.Sprintf("emit on closed method %s", mv.fn.Entry)))
	}
	mv.fn.Instrs = append(mv.fn.Instrs, i)
}

// VisitString interns a string literal and returns a fresh temp holding its address.
func (mv *MethodVisitor) VisitString(s string) Temp {
	d := mv.FreshTemp()
	mv.Emit(LoadAddr(d, mv.pw.stringLabel(s)))
	return d
}

// VisitCall emits a direct call under the stack calling convention: arguments are
// pushed right to left, stack cleanup is left to native lowering. When hasResult is
// set the callee's result is moved out of RV into a fresh temp, which is returned;
// otherwise the zero Temp is returned.
func (mv *MethodVisitor) VisitCall(to Label, args []Temp, hasResult bool) Temp {
	for i1 := len(args) - 1; i1 >= 0; i1-- {
		mv.Emit(Push(args[i1]))
	}
	mv.Emit(Call(to))
	if !hasResult {
		return Temp{}
	}
	d := mv.FreshTemp()
	mv.Emit(Move(d, RV))
	return d
}

// VisitIndirectCall emits a call through the code address held in fn, under the same
// convention as VisitCall.
func (mv *MethodVisitor) VisitIndirectCall(fn Temp, args []Temp, hasResult bool) Temp {
	for i1 := len(args) - 1; i1 >= 0; i1-- {
		mv.Emit(Push(args[i1]))
	}
	mv.Emit(IndirectCall(fn))
	if !hasResult {
		return Temp{}
	}
	d := mv.FreshTemp()
	mv.Emit(Move(d, RV))
	return d
}

// VisitReturn moves the return value into RV and jumps to the method epilogue.
func (mv *MethodVisitor) VisitReturn(t Temp) {
	mv.Emit(Move(RV, t))
	mv.Emit(JumpToEpilogue(mv.fn.Entry))
}

// VisitReturnVoid jumps to the method epilogue without producing a value.
func (mv *MethodVisitor) VisitReturnVoid() {
	mv.Emit(JumpToEpilogue(mv.fn.Entry))
}

// VisitEnd freezes the method's instruction stream and appends it to the program.
// A fall-through exit is completed with a jump to the epilogue first. VisitEnd must
// be called exactly once per opened method.
func (mv *MethodVisitor) VisitEnd() {
	if mv.closed {
		panic(ContractError(fmt.Sprintf("method %s closed twice", mv.fn.Entry)))
	}
	if last := mv.fn.Instrs[len(mv.fn.Instrs)-1]; last.Kind != Ret {
		mv.Emit(JumpToEpilogue(mv.fn.Entry))
	}
	mv.closed = true
	mv.pw.prog.Funcs = append(mv.pw.prog.Funcs, mv.fn)
	mv.pw.cur = nil
	mv.pw.state = stateVTables
}
