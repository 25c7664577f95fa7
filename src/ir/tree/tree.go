// Package tree defines the typed abstract syntax tree the back end consumes. The
// tree is produced by the frontend phases: name resolution has attached a symbol to
// every declaration and reference, and type checking has attached a result type to
// every expression. The back end never rejects a tree; malformed input is ruled out
// before code generation starts.
package tree

import (
	"decafc/src/ir/tac"
	"decafc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Type is the resolved type of an expression or declaration.
type Type int

// Program is the typed top level: every class of the compilation unit in
// declaration order.
type Program struct {
	Classes []*ClassDef
}

// ClassDef is one class declaration.
type ClassDef struct {
	Pos     util.Pos
	Name    string
	Parent  string // Parent class name, or empty for a root class.
	Fields  []*VarDef
	Methods []*MethodDef
	Symbol  *ClassSymbol
}

// MethodDef is one method declaration.
type MethodDef struct {
	Pos    util.Pos
	Name   string
	Static bool
	Main   bool // Set on the program entry method.
	Params []*VarDef
	Return Type
	Body   *Block
	Symbol *MethodSymbol
}

// VarDef declares a field, a parameter or a local variable. Locals may carry an
// initializer expression.
type VarDef struct {
	Pos    util.Pos
	Name   string
	Typ    Type
	Init   Expr // Optional initializer; only meaningful for locals.
	Symbol *VarSymbol
}

// ClassSymbol carries the class metadata resolved by the type checker.
type ClassSymbol struct {
	Info *tac.ClassInfo
}

// MethodSymbol identifies a resolved method.
type MethodSymbol struct {
	Owner  string // Name of the class that declares the method.
	Name   string
	Static bool
	Main   bool
}

// VarSymbol identifies a resolved parameter or local variable. The TAC emitter binds
// Temp to the symbol's storage when the enclosing method is opened or the local is
// declared.
type VarSymbol struct {
	Name  string
	Temp  tac.Temp
	Bound bool // Set once Temp has been assigned.
}

// FieldSymbol identifies a resolved member variable.
type FieldSymbol struct {
	Owner string // Name of the class the field is laid out in.
	Name  string
}

// ---------------------
// ----- Constants -----
// ---------------------

// Resolved types.
const (
	Void Type = iota
	Int
	Bool
	String
	Class
	Array
)

// ---------------------
// ----- Functions -----
// ---------------------

// String returns a readable name of Type t.
func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Class:
		return "class"
	case Array:
		return "array"
	}
	return "unknown"
}
