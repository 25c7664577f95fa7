// x86.go defines the physical register catalog and the instruction constructors of
// the 32-bit x86 target, AT&T syntax.

package tac

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Reg is a physical machine register drawn from a closed enumeration of 8 entries.
type Reg struct {
	Index int    // Fixed numeric identity of the register.
	name  string // Assembly mnemonic.
}

// ---------------------
// ----- Constants -----
// ---------------------

// mnemonicWidth is the column width the mnemonic of every rendered instruction is
// left-justified to. Golden file tests depend on the exact spacing.
const mnemonicWidth = 8

// -------------------
// ----- Globals -----
// -------------------

// The physical register set.
var (
	EAX = Reg{0, "%eax"}
	EBX = Reg{1, "%ebx"}
	ECX = Reg{2, "%ecx"}
	EDX = Reg{3, "%edx"}
	EDI = Reg{4, "%edi"}
	ESI = Reg{5, "%esi"}
	EBP = Reg{6, "%ebp"}
	ESP = Reg{7, "%esp"}
)

// CallerSaved registers are clobbered by calls; callers spill them across call sites.
var CallerSaved = []Reg{EAX, ECX, EDX}

// CalleeSaved registers are preserved across calls; callees save and restore them.
var CalleeSaved = []Reg{EBX, EDI, ESI}

// Allocatable is the register set available to register allocation, caller-saved
// first. The array position of a register is its color index; the order is fixed.
// EBP and ESP are reserved for the frame and stack pointers and never allocated.
var Allocatable = append(append([]Reg{}, CallerSaved...), CalleeSaved...)

// ArgRegs is empty: this target passes every argument on the stack.
var ArgRegs = []Reg{}

// ---------------------
// ----- Functions -----
// ---------------------

// String returns the assembly mnemonic of Reg r.
func (r Reg) String() string {
	return r.name
}

// ------------------------------
// ----- Rendering helpers ------
// ------------------------------

// immediate renders an integer literal operand with the immediate value sigil.
func immediate(v int32) string {
	return fmt.Sprintf("$%d", v)
}

// formatUnary renders a mnemonic and a single operand.
func formatUnary(op string, operand interface{}) string {
	return fmt.Sprintf("%-*s %s", mnemonicWidth, op, operand)
}

// formatBinary renders a mnemonic, a source operand and a destination operand.
func formatBinary(op string, src, dst interface{}) string {
	return fmt.Sprintf("%-*s %s, %s", mnemonicWidth, op, src, dst)
}

// formatLoadWord renders a load of the word at offset(base) into dst.
func formatLoadWord(base interface{}, offset int32, dst interface{}) string {
	return fmt.Sprintf("%-*s %d(%s), %s", mnemonicWidth, "movl", offset, base, dst)
}

// formatStoreWord renders a store of src into the word at offset(base).
func formatStoreWord(src, base interface{}, offset int32) string {
	return fmt.Sprintf("%-*s %s, %d(%s)", mnemonicWidth, "movl", src, offset, base)
}

// ----------------------------------------
// ----- Pseudo instruction family --------
// ----------------------------------------

// Move copies src into dst.
func Move(dst, src Temp) *PseudoInstr {
	return move(dst, src)
}

// Push pushes operand onto the stack.
func Push(operand Temp) *PseudoInstr {
	return push(operand)
}

// Pop pops the stack into operand.
func Pop(operand Temp) *PseudoInstr {
	return pop(operand)
}

// Unary applies op to operand in place.
func Unary(op UnaryOp, operand Temp) *PseudoInstr {
	return unary(op, operand)
}

// Binary computes dst := dst op src.
func Binary(op BinaryOp, dst, src Temp) *PseudoInstr {
	return binary(op, dst, src)
}

// LoadWord loads the word at offset(base) into dst.
func LoadWord(dst, base Temp, offset int32) *PseudoInstr {
	return loadWord(dst, base, offset)
}

// StoreWord stores src into the word at offset(base).
func StoreWord(src, base Temp, offset int32) *PseudoInstr {
	return storeWord(src, base, offset)
}

// LoadImm loads an immediate into dst.
func LoadImm(dst Temp, value int32) *PseudoInstr {
	return loadImm(dst, value)
}

// LoadAddr loads the address of label into dst.
func LoadAddr(dst Temp, label Label) *PseudoInstr {
	return loadAddr(dst, label)
}

// Mark defines a jump target at the current position. It carries no register effect.
func Mark(label Label) *PseudoInstr {
	return mark[Temp](label)
}

// Call calls a routine directly by symbolic name. The caller is responsible for
// spilling caller-saved temps around the call site.
func Call(to Label) *PseudoInstr {
	return call[Temp](to)
}

// IndirectCall calls through the code address held in fn. Virtual dispatch loads the
// method entry out of the vtable into fn first.
func IndirectCall(fn Temp) *PseudoInstr {
	return indirectCall(fn)
}

// Jump branches unconditionally to label to.
func Jump(to Label) *PseudoInstr {
	return jump[Temp](to)
}

// CondJump branches to label to when the condition code holds for the flags set by
// the preceding cmp.
func CondJump(cc CondCode, to Label) *PseudoInstr {
	return condJump[Temp](cc, to)
}

// JumpToEpilogue branches to the epilogue of the method with the given entry label.
// It is the canonical return exit of a method body.
func JumpToEpilogue(entry Label) *PseudoInstr {
	return jumpToEpilogue[Temp](entry)
}

// ----------------------------------------
// ----- Native instruction family --------
// ----------------------------------------

// NativeMove copies src into dst.
func NativeMove(dst, src Reg) *NativeInstr {
	return move(dst, src)
}

// NativePush pushes r onto the stack.
func NativePush(r Reg) *NativeInstr {
	return push(r)
}

// NativePop pops the stack into r.
func NativePop(r Reg) *NativeInstr {
	return pop(r)
}

// NativeUnary applies op to r in place.
func NativeUnary(op UnaryOp, r Reg) *NativeInstr {
	return unary(op, r)
}

// NativeBinary computes dst := dst op src.
func NativeBinary(op BinaryOp, dst, src Reg) *NativeInstr {
	return binary(op, dst, src)
}

// NativeLoadWord loads the word at offset(base) into dst.
func NativeLoadWord(dst, base Reg, offset int32) *NativeInstr {
	return loadWord(dst, base, offset)
}

// NativeStoreWord stores src into the word at offset(base).
func NativeStoreWord(src, base Reg, offset int32) *NativeInstr {
	return storeWord(src, base, offset)
}

// NativeLoadImm loads an immediate into dst.
func NativeLoadImm(dst Reg, value int32) *NativeInstr {
	return loadImm(dst, value)
}

// NativeLoadAddr loads the address of label into dst.
func NativeLoadAddr(dst Reg, label Label) *NativeInstr {
	return loadAddr(dst, label)
}

// NativeMark defines a jump target at the current position.
func NativeMark(label Label) *NativeInstr {
	return mark[Reg](label)
}

// NativeCall calls a routine directly by symbolic name.
func NativeCall(to Label) *NativeInstr {
	return call[Reg](to)
}

// NativeIndirectCall calls through the code address held in fn.
func NativeIndirectCall(fn Reg) *NativeInstr {
	return indirectCall(fn)
}

// NativeJump branches unconditionally to label to.
func NativeJump(to Label) *NativeInstr {
	return jump[Reg](to)
}

// NativeCondJump branches to label to when the condition code holds.
func NativeCondJump(cc CondCode, to Label) *NativeInstr {
	return condJump[Reg](cc, to)
}

// NativeJumpToEpilogue branches to the epilogue of the method with the given entry
// label.
func NativeJumpToEpilogue(entry Label) *NativeInstr {
	return jumpToEpilogue[Reg](entry)
}

// Syscall issues a raw system call.
func Syscall() *NativeInstr {
	return &NativeInstr{Op: OpSyscall}
}

// NativeReturn terminates the method.
func NativeReturn() *NativeInstr {
	return &NativeInstr{Op: OpReturn, Kind: Ret}
}

// NativeLeave restores the caller's frame and terminates the return path.
func NativeLeave() *NativeInstr {
	return &NativeInstr{Op: OpLeave, Kind: Ret}
}

// RSPAdd adjusts the stack pointer by a signed offset. It both defines and uses ESP.
func RSPAdd(offset int32) *NativeInstr {
	return &NativeInstr{Op: OpSPAdd, Dst: []Reg{ESP}, Src: []Reg{ESP}, Imm: offset}
}
