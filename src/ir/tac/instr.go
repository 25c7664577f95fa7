package tac

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Op enumerates the instruction variants of the abstract instruction model. The
// catalog is closed: register allocation and printing switch exhaustively over it.
type Op int

// UnaryOp enumerates the in-place unary operations.
type UnaryOp int

// BinaryOp enumerates the in-place binary operations, dst := dst op src.
type BinaryOp int

// CondCode enumerates the x86 condition codes usable by conditional jumps.
type CondCode int

// Instr is one abstract instruction over operand type T. The pseudo instruction
// family instantiates T with Temp, the native family with Reg; both families share
// the variant catalog.
//
// Dst and Src are exactly the operands the instruction's semantic effect writes and
// reads. Register allocation must not infer additional ones.
type Instr[T fmt.Stringer] struct {
	Op   Op
	Dst  []T      // Operands defined (written) by the instruction.
	Src  []T      // Operands used (read) by the instruction.
	Kind Kind     // Control flow classification.
	Lab  Label    // Jump target, call target or the marker's own label.
	Un   UnaryOp  // Operation of OpUnary.
	Bin  BinaryOp // Operation of OpBinary.
	Cond CondCode // Condition code of OpCondJump.
	Imm  int32    // Immediate of OpLoadImm and OpSPAdd.
	Off  int32    // Memory offset of OpLoadWord and OpStoreWord.
}

// PseudoInstr is an instruction over virtual registers, produced by the TAC emitter.
type PseudoInstr = Instr[Temp]

// NativeInstr is an instruction over physical registers, produced when register
// allocation substitutes each Temp with a concrete Reg or a stack slot.
type NativeInstr = Instr[Reg]

// ---------------------
// ----- Constants -----
// ---------------------

// Instruction variants.
const (
	OpMove           Op = iota // dst := src
	OpPush                     // push src onto the stack
	OpPop                      // pop the stack into dst
	OpUnary                    // dst := un(dst)
	OpBinary                   // dst := dst bin src
	OpLoadWord                 // dst := *(base + off)
	OpStoreWord                // *(base + off) := src
	OpLoadImm                  // dst := imm
	OpLoadAddr                 // dst := address of label
	OpMark                     // label marker; defines a jump target
	OpCall                     // direct call by symbolic name
	OpIndirectCall             // call through the code address held in src
	OpJump                     // unconditional branch
	OpCondJump                 // conditional branch on the preceding cmp
	OpJumpToEpilogue           // branch to the method epilogue; the canonical return
	OpSyscall                  // native: raw system call
	OpReturn                   // native: ret
	OpLeave                    // native: leave
	OpSPAdd                    // native: adjust the stack pointer by a signed offset
)

// Unary operations.
const (
	NEG UnaryOp = iota // Arithmetic negation.
	NOT                // Logical not of a canonical 0/1 value.
)

// Binary operations.
const (
	ADD BinaryOp = iota
	SUB
	MUL
	DIV
	REM
	AND
	OR
	CMP
)

// Condition codes.
const (
	E  CondCode = iota // Equal.
	NE                 // Not equal.
	L                  // Less than, signed.
	LE                 // Less than or equal, signed.
	G                  // Greater than, signed.
	GE                 // Greater than or equal, signed.
)

// ---------------------
// ----- Functions -----
// ---------------------

// String returns the lower case mnemonic of UnaryOp u.
func (u UnaryOp) String() string {
	switch u {
	case NEG:
		return "neg"
	case NOT:
		return "not"
	}
	return "unknown"
}

// String returns the lower case mnemonic of BinaryOp b.
func (b BinaryOp) String() string {
	switch b {
	case ADD:
		return "add"
	case SUB:
		return "sub"
	case MUL:
		return "mul"
	case DIV:
		return "div"
	case REM:
		return "rem"
	case AND:
		return "and"
	case OR:
		return "or"
	case CMP:
		return "cmp"
	}
	return "unknown"
}

// String returns the condition code suffix of CondCode c.
func (c CondCode) String() string {
	switch c {
	case E:
		return "e"
	case NE:
		return "ne"
	case L:
		return "l"
	case LE:
		return "le"
	case G:
		return "g"
	case GE:
		return "ge"
	}
	return "unknown"
}

// String returns the canonical single-line assembly form of the instruction.
// Rendering is a pure function of the instruction value; calling String twice yields
// byte-identical text. The exact spacing is part of the compiler's observable output.
func (i *Instr[T]) String() string {
	switch i.Op {
	case OpMove:
		return formatBinary("mov", i.Src[0], i.Dst[0])
	case OpPush:
		return formatUnary("push", i.Src[0])
	case OpPop:
		return formatUnary("pop", i.Dst[0])
	case OpUnary:
		return formatUnary(i.Un.String(), i.Dst[0])
	case OpBinary:
		return formatBinary(i.Bin.String(), i.Src[0], i.Dst[0])
	case OpLoadWord:
		return formatLoadWord(i.Src[0], i.Off, i.Dst[0])
	case OpStoreWord:
		return formatStoreWord(i.Src[0], i.Src[1], i.Off)
	case OpLoadImm:
		return formatBinary("mov", immediate(i.Imm), i.Dst[0])
	case OpLoadAddr:
		return formatBinary("lea", i.Lab, i.Dst[0])
	case OpMark:
		return fmt.Sprintf("%s:", i.Lab)
	case OpCall:
		return formatUnary("call", i.Lab)
	case OpIndirectCall:
		return formatUnary("call", fmt.Sprintf("*%s", i.Src[0]))
	case OpJump, OpJumpToEpilogue:
		return formatUnary("jmp", i.Lab)
	case OpCondJump:
		return formatUnary("j"+i.Cond.String(), i.Lab)
	case OpSyscall:
		return "syscall"
	case OpReturn:
		return "ret"
	case OpLeave:
		return "leave"
	case OpSPAdd:
		return formatBinary("add", immediate(i.Imm), i.Dst[0])
	}
	panic(fmt.Sprintf("tac: cannot render unknown instruction variant %d", i.Op))
}

// ---------------------------------
// ----- Shared variant makers -----
// ---------------------------------

// The unexported makers build the shared variant catalog for either operand
// universe. The exported pseudo and native constructors in x86.go are thin
// instantiations of these.

func move[T fmt.Stringer](dst, src T) *Instr[T] {
	return &Instr[T]{Op: OpMove, Dst: []T{dst}, Src: []T{src}}
}

func push[T fmt.Stringer](operand T) *Instr[T] {
	return &Instr[T]{Op: OpPush, Src: []T{operand}}
}

func pop[T fmt.Stringer](operand T) *Instr[T] {
	return &Instr[T]{Op: OpPop, Dst: []T{operand}}
}

func unary[T fmt.Stringer](op UnaryOp, operand T) *Instr[T] {
	return &Instr[T]{Op: OpUnary, Un: op, Dst: []T{operand}, Src: []T{operand}}
}

func binary[T fmt.Stringer](op BinaryOp, dst, src T) *Instr[T] {
	return &Instr[T]{Op: OpBinary, Bin: op, Dst: []T{dst}, Src: []T{src}}
}

func loadWord[T fmt.Stringer](dst, base T, off int32) *Instr[T] {
	return &Instr[T]{Op: OpLoadWord, Dst: []T{dst}, Src: []T{base}, Off: off}
}

func storeWord[T fmt.Stringer](src, base T, off int32) *Instr[T] {
	return &Instr[T]{Op: OpStoreWord, Src: []T{src, base}, Off: off}
}

func loadImm[T fmt.Stringer](dst T, value int32) *Instr[T] {
	return &Instr[T]{Op: OpLoadImm, Dst: []T{dst}, Imm: value}
}

func loadAddr[T fmt.Stringer](dst T, label Label) *Instr[T] {
	return &Instr[T]{Op: OpLoadAddr, Dst: []T{dst}, Lab: label}
}

func mark[T fmt.Stringer](label Label) *Instr[T] {
	return &Instr[T]{Op: OpMark, Lab: label}
}

func call[T fmt.Stringer](to Label) *Instr[T] {
	return &Instr[T]{Op: OpCall, Lab: to}
}

func indirectCall[T fmt.Stringer](fn T) *Instr[T] {
	return &Instr[T]{Op: OpIndirectCall, Src: []T{fn}}
}

func jump[T fmt.Stringer](to Label) *Instr[T] {
	return &Instr[T]{Op: OpJump, Kind: Jmp, Lab: to}
}

func condJump[T fmt.Stringer](cc CondCode, to Label) *Instr[T] {
	return &Instr[T]{Op: OpCondJump, Kind: CondJmp, Cond: cc, Lab: to}
}

func jumpToEpilogue[T fmt.Stringer](entry Label) *Instr[T] {
	return &Instr[T]{Op: OpJumpToEpilogue, Kind: Ret, Lab: entry.Epilogue()}
}
