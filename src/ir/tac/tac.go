// Package tac implements the three-address code intermediate representation of the
// compiler. It defines virtual registers (temps), labels, the pseudo and native
// instruction families with their use/def metadata, per-class layout information and
// the program writer that assembles complete TAC programs.
package tac

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Temp is a virtual register. Temps are in unlimited supply and valid until register
// allocation replaces them with physical registers or stack slots. A Temp has no
// storage and no type; it holds one machine word.
type Temp struct {
	Index int // Unique identifier of the temp within its method.
}

// Label names a position in the emitted code. Labels are resolved to symbolic
// addresses by the assembler.
type Label string

// Kind is the control flow classification of an instruction. Liveness analysis and
// control flow graph construction operate purely on the Kind, never on the
// instruction identity.
type Kind int

// ContractError reports a violation of the program writer's call protocol. It
// indicates a defect in the emission driver, not bad input, and is raised as a panic.
type ContractError string

// ConfigurationError reports absent or inconsistent class metadata handed to the
// program writer.
type ConfigurationError struct {
	Msg string
}

// ---------------------
// ----- Constants -----
// ---------------------

// Control flow kinds. The zero value is Sequential.
const (
	Sequential Kind = iota // Execution falls through to the next instruction.
	Jmp                    // Unconditional branch to the instruction's label.
	CondJmp                // Conditional branch; may fall through or branch to the label.
	Ret                    // Terminates the method; has no successor.
)

// EpilogueSuffix is appended to a method's entry label to name its epilogue.
const EpilogueSuffix = "_exit"

// StrPrefix is the label prefix of interned string literals.
const StrPrefix = "_S"

// WordSize is the size in bytes of a machine word on the 32-bit x86 target.
const WordSize = 4

// -------------------
// ----- Globals -----
// -------------------

// RV is the designated return value temp. The calling convention moves a method's
// result into RV before jumping to the epilogue, and callers read the result out of
// RV right after a call. Register allocation maps RV to EAX.
var RV = Temp{Index: -1}

// Entry labels of the runtime intrinsics linked into every program.
var (
	LabelAlloc       = Label("_Alloc")
	LabelReadInt     = Label("_ReadInt")
	LabelReadLine    = Label("_ReadLine")
	LabelStringEqual = Label("_StringEqual")
	LabelPrintInt    = Label("_PrintInt")
	LabelPrintString = Label("_PrintString")
	LabelPrintBool   = Label("_PrintBool")
	LabelHalt        = Label("_Halt")
)

// LabelMain is the entry label of the program's main method.
var LabelMain = Label("main")

// ---------------------
// ----- Functions -----
// ---------------------

// String returns the textual TAC representation of Temp t.
func (t Temp) String() string {
	if t == RV {
		return "_RV"
	}
	return fmt.Sprintf("_T%d", t.Index)
}

// String returns the label name.
func (l Label) String() string {
	return string(l)
}

// Epilogue returns the epilogue label derived from entry label l.
func (l Label) Epilogue() Label {
	return l + EpilogueSuffix
}

// FuncLabel returns the entry label of an ordinary method.
func FuncLabel(class, method string) Label {
	return Label(fmt.Sprintf("_%s.%s", class, method))
}

// VTableLabel returns the label of a class's virtual table.
func VTableLabel(class string) Label {
	return Label("_" + class)
}

// StringLabel returns the label of the k'th interned string literal.
func StringLabel(k int) Label {
	return Label(fmt.Sprintf("%s%d", StrPrefix, k))
}

// String returns a readable name of Kind k.
func (k Kind) String() string {
	switch k {
	case Sequential:
		return "sequential"
	case Jmp:
		return "jump"
	case CondJmp:
		return "conditional jump"
	case Ret:
		return "return"
	}
	return "unknown"
}

// Error returns the contract violation description.
func (e ContractError) Error() string {
	return "tac: contract violation: " + string(e)
}

// Error returns the configuration error description.
func (e *ConfigurationError) Error() string {
	return "tac: configuration error: " + e.Msg
}
