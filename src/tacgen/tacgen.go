// Package tacgen lowers the typed syntax tree into three-address code. The emitter
// walks every class and method declaration, establishes the calling convention temp
// bindings and drives the two-pass program writer: virtual tables first, then one
// instruction stream per method.
package tacgen

import (
	"fmt"

	"decafc/src/ir/tac"
	"decafc/src/ir/tree"
	"decafc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// ICE is the panic value raised when the emitter reaches a tree node with no defined
// lowering. Well typed input never reaches this state; an ICE is attributable to the
// compiler itself, not to the source program.
type ICE string

// Simulator executes a finished TAC program directly, bypassing native code
// generation. It is implemented by the external TAC interpreter and selected by the
// driver for the PA3 build target.
type Simulator interface {
	Execute(p *tac.Program) error
}

// generator holds the emission state of one compilation: the program writer, the
// handle of the currently open method, the break target stack and the buffered
// user visible codegen errors.
type generator struct {
	pw    *tac.ProgramWriter
	mv    *tac.MethodVisitor
	loops util.Stack // Exit labels of the enclosing loops, innermost on top.
	diag  *util.Diagnostics
}

// -------------------
// ----- Globals -----
// -------------------

// condCodes maps comparison operators to the x86 condition code of the branch taken
// when the comparison holds.
var condCodes = map[tree.BinaryOpTag]tac.CondCode{
	tree.EqOp: tac.E,
	tree.NeOp: tac.NE,
	tree.LtOp: tac.L,
	tree.LeOp: tac.LE,
	tree.GtOp: tac.G,
	tree.GeOp: tac.GE,
}

// binaryOps maps arithmetic and logical operators to their in-place TAC operation.
var binaryOps = map[tree.BinaryOpTag]tac.BinaryOp{
	tree.AddOp: tac.ADD,
	tree.SubOp: tac.SUB,
	tree.MulOp: tac.MUL,
	tree.DivOp: tac.DIV,
	tree.ModOp: tac.REM,
	tree.AndOp: tac.AND,
	tree.OrOp:  tac.OR,
}

// ---------------------
// ----- Functions -----
// ---------------------

// Error returns the internal error description.
func (e ICE) Error() string {
	return "internal compiler error: " + string(e)
}

// ice aborts compilation on a defect inside the code generator.
func ice(format string, args ...interface{}) {
	panic(ICE(fmt.Sprintf(format, args...)))
}

// Gen lowers the typed program into a complete TAC program. Virtual tables are
// emitted before any method body; methods follow in declaration order, each fully
// closed before the next is opened. The returned program is immutable.
//
// User visible errors, such as literals outside the representable target range, are
// reported with their source position; the first one is returned after the whole
// tree has been visited. Defects in the emitter itself panic with an ICE value.
func Gen(prog *tree.Program, opt util.Options) (*tac.Program, error) {
	// Collect class metadata resolved by the type checker.
	infos := make([]*tac.ClassInfo, 0, len(prog.Classes))
	for _, e1 := range prog.Classes {
		if e1.Symbol == nil || e1.Symbol.Info == nil {
			return nil, &tac.ConfigurationError{Msg: "class " + e1.Name + " has no resolved metadata"}
		}
		infos = append(infos, e1.Symbol.Info)
	}
	pw, err := tac.NewProgramWriter(infos)
	if err != nil {
		return nil, err
	}

	// Step 1: create virtual tables.
	pw.VisitVTables()

	// Step 2: emit tac instructions for every method.
	g := &generator{pw: pw, diag: util.NewDiagnostics(0)}
	for _, class := range prog.Classes {
		for _, method := range class.Methods {
			var mv *tac.MethodVisitor
			if method.Main {
				mv = pw.VisitMainMethod()
			} else {
				// Calling convention: pass the receiver (if non-static) as an extra
				// argument occupying slot 0; parameters bind the following slots.
				numArgs := len(method.Params)
				i1 := 0
				if !method.Static {
					numArgs++
					i1++
				}
				mv = pw.VisitMethod(class.Name, method.Name, numArgs)
				for _, param := range method.Params {
					param.Symbol.Temp = mv.GetArgTemp(i1)
					param.Symbol.Bound = true
					i1++
				}
			}
			g.mv = mv
			g.stmt(method.Body)
			mv.VisitEnd()
		}
	}

	if g.diag.Len() > 0 {
		return nil, g.diag.First()
	}
	p := pw.VisitEnd()

	if opt.Verbose {
		n := 0
		for _, e1 := range p.Funcs {
			n += len(e1.Instrs)
		}
		fmt.Printf("tacgen: %d classes, %d methods, %d instructions\n",
			len(p.VTables), len(p.Funcs), n)
	}
	return p, nil
}

// stmt emits the instruction sequence of one statement.
func (g *generator) stmt(s tree.Stmt) {
	switch n := s.(type) {
	case *tree.Block:
		for _, e1 := range n.Stmts {
			g.stmt(e1)
		}
	case *tree.LocalVarDef:
		sym := n.Def.Symbol
		sym.Temp = g.mv.FreshTemp()
		sym.Bound = true
		if n.Def.Init != nil {
			v := g.expr(n.Def.Init)
			g.mv.Emit(tac.Move(sym.Temp, v))
		}
	case *tree.Assign:
		g.assign(n)
	case *tree.ExprStmt:
		g.expr(n.E)
	case *tree.If:
		end := g.mv.FreshLabel(tac.LabelIfEnd)
		c := g.expr(n.Cond)
		if n.Else == nil {
			g.branchFalse(c, end)
			g.stmt(n.Then)
		} else {
			els := g.mv.FreshLabel(tac.LabelIfElse)
			g.branchFalse(c, els)
			g.stmt(n.Then)
			g.mv.Emit(tac.Jump(end))
			g.mv.Emit(tac.Mark(els))
			g.stmt(n.Else)
		}
		g.mv.Emit(tac.Mark(end))
	case *tree.While:
		head := g.mv.FreshLabel(tac.LabelWhileHead)
		end := g.mv.FreshLabel(tac.LabelWhileEnd)
		g.mv.Emit(tac.Mark(head))
		c := g.expr(n.Cond)
		g.branchFalse(c, end)
		g.loops.Push(end)
		g.stmt(n.Body)
		g.loops.Pop()
		g.mv.Emit(tac.Jump(head))
		g.mv.Emit(tac.Mark(end))
	case *tree.For:
		head := g.mv.FreshLabel(tac.LabelForHead)
		end := g.mv.FreshLabel(tac.LabelForEnd)
		if n.Init != nil {
			g.stmt(n.Init)
		}
		g.mv.Emit(tac.Mark(head))
		if n.Cond != nil {
			c := g.expr(n.Cond)
			g.branchFalse(c, end)
		}
		g.loops.Push(end)
		g.stmt(n.Body)
		g.loops.Pop()
		if n.Update != nil {
			g.stmt(n.Update)
		}
		g.mv.Emit(tac.Jump(head))
		g.mv.Emit(tac.Mark(end))
	case *tree.Break:
		end := g.loops.Peek()
		if end == nil {
			ice("break outside of a loop reached code generation")
		}
		g.mv.Emit(tac.Jump(end.(tac.Label)))
	case *tree.Return:
		if n.Expr == nil {
			g.mv.VisitReturnVoid()
		} else {
			g.mv.VisitReturn(g.expr(n.Expr))
		}
	case *tree.Print:
		for _, e1 := range n.Args {
			t := g.expr(e1)
			switch e1.Type() {
			case tree.Int:
				g.mv.VisitCall(tac.LabelPrintInt, []tac.Temp{t}, false)
			case tree.Bool:
				g.mv.VisitCall(tac.LabelPrintBool, []tac.Temp{t}, false)
			case tree.String:
				g.mv.VisitCall(tac.LabelPrintString, []tac.Temp{t}, false)
			default:
				ice("no print routine for operand type %s", e1.Type())
			}
		}
	default:
		ice("statement %T has no lowering", s)
	}
}

// assign emits the store sequence of an assignment statement.
func (g *generator) assign(n *tree.Assign) {
	switch lhs := n.LHS.(type) {
	case *tree.VarRef:
		if !lhs.Symbol.Bound {
			ice("assignment to unbound variable %s", lhs.Symbol.Name)
		}
		v := g.expr(n.RHS)
		g.mv.Emit(tac.Move(lhs.Symbol.Temp, v))
	case *tree.FieldSel:
		recv := g.expr(lhs.Recv)
		off := g.fieldOffset(lhs.Symbol)
		v := g.expr(n.RHS)
		g.mv.Emit(tac.StoreWord(v, recv, off))
	case *tree.IndexSel:
		addr := g.elementAddr(lhs)
		v := g.expr(n.RHS)
		g.mv.Emit(tac.StoreWord(v, addr, tac.WordSize))
	default:
		ice("assignment target %T has no lowering", n.LHS)
	}
}

// expr emits the instruction sequence of one expression and returns the temp
// designated to hold its result.
func (g *generator) expr(e tree.Expr) tac.Temp {
	switch n := e.(type) {
	case *tree.IntLit:
		d := g.mv.FreshTemp()
		v := n.Value
		if v < -1<<31 || v > 1<<31-1 {
			g.diag.Append(util.Errorf(n.Position(), "integer literal %d exceeds the 32-bit target range", v))
			v = 0
		}
		g.mv.Emit(tac.LoadImm(d, int32(v)))
		return d
	case *tree.BoolLit:
		d := g.mv.FreshTemp()
		if n.Value {
			g.mv.Emit(tac.LoadImm(d, 1))
		} else {
			g.mv.Emit(tac.LoadImm(d, 0))
		}
		return d
	case *tree.StringLit:
		return g.mv.VisitString(n.Value)
	case *tree.NullLit:
		d := g.mv.FreshTemp()
		g.mv.Emit(tac.LoadImm(d, 0))
		return d
	case *tree.This:
		return g.mv.GetArgTemp(0)
	case *tree.VarRef:
		if !n.Symbol.Bound {
			ice("read of unbound variable %s", n.Symbol.Name)
		}
		return n.Symbol.Temp
	case *tree.FieldSel:
		recv := g.expr(n.Recv)
		d := g.mv.FreshTemp()
		g.mv.Emit(tac.LoadWord(d, recv, g.fieldOffset(n.Symbol)))
		return d
	case *tree.IndexSel:
		addr := g.elementAddr(n)
		d := g.mv.FreshTemp()
		g.mv.Emit(tac.LoadWord(d, addr, tac.WordSize))
		return d
	case *tree.UnaryExpr:
		v := g.expr(n.Operand)
		d := g.mv.FreshTemp()
		g.mv.Emit(tac.Move(d, v))
		switch n.Op {
		case tree.NegOp:
			g.mv.Emit(tac.Unary(tac.NEG, d))
		case tree.NotOp:
			g.mv.Emit(tac.Unary(tac.NOT, d))
		default:
			ice("unary operator %d has no lowering", n.Op)
		}
		return d
	case *tree.BinaryExpr:
		return g.binary(n)
	case *tree.CallExpr:
		return g.call(n)
	case *tree.NewClass:
		return g.newClass(n)
	case *tree.NewArray:
		return g.newArray(n)
	case *tree.ReadInt:
		return g.mv.VisitCall(tac.LabelReadInt, nil, true)
	case *tree.ReadLine:
		return g.mv.VisitCall(tac.LabelReadLine, nil, true)
	default:
		ice("expression %T has no lowering", e)
	}
	return tac.Temp{}
}

// binary emits a binary expression. Arithmetic and logical operators lower to the
// in-place TAC operation; comparisons lower to a cmp followed by a conditional jump
// over the false constant.
func (g *generator) binary(n *tree.BinaryExpr) tac.Temp {
	if op, ok := binaryOps[n.Op]; ok {
		l := g.expr(n.L)
		r := g.expr(n.R)
		d := g.mv.FreshTemp()
		g.mv.Emit(tac.Move(d, l))
		g.mv.Emit(tac.Binary(op, d, r))
		return d
	}
	cc, ok := condCodes[n.Op]
	if !ok {
		ice("binary operator %d has no lowering", n.Op)
	}

	// String equality dispatches to the runtime.
	if (n.Op == tree.EqOp || n.Op == tree.NeOp) && n.L.Type() == tree.String {
		l := g.expr(n.L)
		r := g.expr(n.R)
		d := g.mv.VisitCall(tac.LabelStringEqual, []tac.Temp{l, r}, true)
		if n.Op == tree.NeOp {
			g.mv.Emit(tac.Unary(tac.NOT, d))
		}
		return d
	}

	l := g.expr(n.L)
	r := g.expr(n.R)
	d := g.mv.FreshTemp()
	g.mv.Emit(tac.LoadImm(d, 1))
	t := g.mv.FreshTemp()
	g.mv.Emit(tac.Move(t, l))
	g.mv.Emit(tac.Binary(tac.CMP, t, r))
	done := g.mv.FreshLabel(tac.LabelJump)
	g.mv.Emit(tac.CondJump(cc, done))
	g.mv.Emit(tac.LoadImm(d, 0))
	g.mv.Emit(tac.Mark(done))
	return d
}

// call emits a method call. Static calls are direct; instance calls dispatch through
// the receiver's virtual table using the slot index of the receiver's static class.
func (g *generator) call(n *tree.CallExpr) tac.Temp {
	args := make([]tac.Temp, len(n.Args))
	hasResult := n.Type() != tree.Void

	if n.Symbol.Static {
		for i1, e1 := range n.Args {
			args[i1] = g.expr(e1)
		}
		return g.mv.VisitCall(tac.FuncLabel(n.Symbol.Owner, n.Symbol.Name), args, hasResult)
	}

	recv := g.expr(n.Recv)
	for i1, e1 := range n.Args {
		args[i1] = g.expr(e1)
	}
	slot, ok := g.pw.Layout().SlotOf(n.RecvClass, n.Symbol.Name)
	if !ok {
		ice("method %s has no slot in the vtable of %s", n.Symbol.Name, n.RecvClass)
	}
	vt := g.mv.FreshTemp()
	g.mv.Emit(tac.LoadWord(vt, recv, 0))
	fn := g.mv.FreshTemp()
	g.mv.Emit(tac.LoadWord(fn, vt, tac.SlotOffset(slot)))
	return g.mv.VisitIndirectCall(fn, append([]tac.Temp{recv}, args...), hasResult)
}

// newClass emits the allocation sequence of a fresh instance: allocate the object,
// then install the class's vtable pointer in word 0.
func (g *generator) newClass(n *tree.NewClass) tac.Temp {
	if g.pw.Layout().VTable(n.Class) == nil {
		ice("new of unknown class %s", n.Class)
	}
	size := g.mv.FreshTemp()
	g.mv.Emit(tac.LoadImm(size, g.pw.Layout().ObjectSize(n.Class)))
	obj := g.mv.VisitCall(tac.LabelAlloc, []tac.Temp{size}, true)
	vt := g.mv.FreshTemp()
	g.mv.Emit(tac.LoadAddr(vt, tac.VTableLabel(n.Class)))
	g.mv.Emit(tac.StoreWord(vt, obj, 0))
	return obj
}

// newArray emits the allocation sequence of a fresh array: one word per element plus
// the length word, which is stored at offset 0.
func (g *generator) newArray(n *tree.NewArray) tac.Temp {
	length := g.expr(n.Length)
	bytes := g.mv.FreshTemp()
	g.mv.Emit(tac.Move(bytes, length))
	w := g.mv.FreshTemp()
	g.mv.Emit(tac.LoadImm(w, tac.WordSize))
	g.mv.Emit(tac.Binary(tac.MUL, bytes, w))
	g.mv.Emit(tac.Binary(tac.ADD, bytes, w))
	arr := g.mv.VisitCall(tac.LabelAlloc, []tac.Temp{bytes}, true)
	g.mv.Emit(tac.StoreWord(length, arr, 0))
	return arr
}

// elementAddr computes the address of an array element minus the fixed length word
// offset; the element itself lives at WordSize(addr).
func (g *generator) elementAddr(n *tree.IndexSel) tac.Temp {
	a := g.expr(n.Array)
	i := g.expr(n.Index)
	off := g.mv.FreshTemp()
	g.mv.Emit(tac.Move(off, i))
	w := g.mv.FreshTemp()
	g.mv.Emit(tac.LoadImm(w, tac.WordSize))
	g.mv.Emit(tac.Binary(tac.MUL, off, w))
	g.mv.Emit(tac.Binary(tac.ADD, off, a))
	return off
}

// fieldOffset resolves a member variable's byte offset from the object base.
func (g *generator) fieldOffset(sym *tree.FieldSymbol) int32 {
	off, ok := g.pw.Layout().OffsetOf(sym.Owner, sym.Name)
	if !ok {
		ice("field %s has no offset in the layout of %s", sym.Name, sym.Owner)
	}
	return off
}

// branchFalse branches to label to when the canonical 0/1 value in c is false.
// The cmp reports its destination as defined, so the condition value is copied into
// a scratch temp first; comparing c in place would cut the live range of a variable
// that is read again after the branch.
func (g *generator) branchFalse(c tac.Temp, to tac.Label) {
	t := g.mv.FreshTemp()
	g.mv.Emit(tac.Move(t, c))
	z := g.mv.FreshTemp()
	g.mv.Emit(tac.LoadImm(z, 0))
	g.mv.Emit(tac.Binary(tac.CMP, t, z))
	g.mv.Emit(tac.CondJump(tac.E, to))
}
