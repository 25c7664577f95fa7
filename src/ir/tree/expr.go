package tree

import "decafc/src/util"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Expr is implemented by every expression node. Every expression carries the result
// type attached by the type checker and its source position.
type Expr interface {
	exprNode()
	Type() Type
	Position() util.Pos
}

// ExprBase is the embedded base of every expression node.
type ExprBase struct {
	Pos util.Pos
	Typ Type
}

// UnaryOpTag enumerates the unary expression operators.
type UnaryOpTag int

// BinaryOpTag enumerates the binary expression operators.
type BinaryOpTag int

// IntLit is an integer literal.
type IntLit struct {
	ExprBase
	Value int64
}

// BoolLit is a boolean literal.
type BoolLit struct {
	ExprBase
	Value bool
}

// StringLit is a string literal.
type StringLit struct {
	ExprBase
	Value string
}

// NullLit is the null reference literal.
type NullLit struct {
	ExprBase
}

// This is the implicit receiver of the enclosing instance method.
type This struct {
	ExprBase
}

// VarRef reads a parameter or local variable.
type VarRef struct {
	ExprBase
	Symbol *VarSymbol
}

// FieldSel reads a member variable of the receiver object.
type FieldSel struct {
	ExprBase
	Recv   Expr
	Symbol *FieldSymbol
}

// IndexSel reads an array element.
type IndexSel struct {
	ExprBase
	Array Expr
	Index Expr
}

// UnaryExpr applies a unary operator.
type UnaryExpr struct {
	ExprBase
	Op      UnaryOpTag
	Operand Expr
}

// BinaryExpr applies a binary operator.
type BinaryExpr struct {
	ExprBase
	Op BinaryOpTag
	L  Expr
	R  Expr
}

// CallExpr calls a method. Recv is <nil> for static calls; for instance calls
// RecvClass names the receiver's static class, which decides the vtable slot.
type CallExpr struct {
	ExprBase
	Recv      Expr
	RecvClass string
	Symbol    *MethodSymbol
	Args      []Expr
}

// NewClass allocates a fresh instance of the named class.
type NewClass struct {
	ExprBase
	Class string
}

// NewArray allocates a fresh array with the given element type and length.
type NewArray struct {
	ExprBase
	Elem   Type
	Length Expr
}

// ReadInt reads an integer from standard input.
type ReadInt struct {
	ExprBase
}

// ReadLine reads a line from standard input.
type ReadLine struct {
	ExprBase
}

// ---------------------
// ----- Constants -----
// ---------------------

// Unary operators.
const (
	NegOp UnaryOpTag = iota
	NotOp
)

// Binary operators.
const (
	AddOp BinaryOpTag = iota
	SubOp
	MulOp
	DivOp
	ModOp
	AndOp
	OrOp
	EqOp
	NeOp
	LtOp
	LeOp
	GtOp
	GeOp
)

// ---------------------
// ----- Functions -----
// ---------------------

func (e *ExprBase) exprNode() {}

// Type returns the result type attached by the type checker.
func (e *ExprBase) Type() Type {
	return e.Typ
}

// Position returns the source position of the expression.
func (e *ExprBase) Position() util.Pos {
	return e.Pos
}
