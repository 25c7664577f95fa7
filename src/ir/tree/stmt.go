package tree

import "decafc/src/util"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
}

// Block is a brace-delimited statement sequence.
type Block struct {
	Pos   util.Pos
	Stmts []Stmt
}

// LocalVarDef declares a local variable, optionally with an initializer.
type LocalVarDef struct {
	Def *VarDef
}

// Assign stores the value of RHS into the location named by LHS. The type checker
// guarantees LHS is a variable reference, a field selection or an array element.
type Assign struct {
	Pos util.Pos
	LHS Expr
	RHS Expr
}

// ExprStmt evaluates an expression for its side effect and discards the result.
type ExprStmt struct {
	E Expr
}

// If executes Then when the condition holds, Else otherwise. Else may be <nil>.
type If struct {
	Pos  util.Pos
	Cond Expr
	Then Stmt
	Else Stmt
}

// While repeats Body while the condition holds.
type While struct {
	Pos  util.Pos
	Cond Expr
	Body Stmt
}

// For is the classic three-clause loop. Init, Cond and Update may each be <nil>.
type For struct {
	Pos    util.Pos
	Init   Stmt
	Cond   Expr
	Update Stmt
	Body   Stmt
}

// Break leaves the innermost enclosing loop.
type Break struct {
	Pos util.Pos
}

// Return leaves the enclosing method. Expr is <nil> for void methods.
type Return struct {
	Pos  util.Pos
	Expr Expr
}

// Print writes each argument to standard output. The argument types select the
// runtime print routine.
type Print struct {
	Pos  util.Pos
	Args []Expr
}

// ---------------------
// ----- Functions -----
// ---------------------

func (*Block) stmtNode()       {}
func (*LocalVarDef) stmtNode() {}
func (*Assign) stmtNode()      {}
func (*ExprStmt) stmtNode()    {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*For) stmtNode()         {}
func (*Break) stmtNode()       {}
func (*Return) stmtNode()      {}
func (*Print) stmtNode()       {}
