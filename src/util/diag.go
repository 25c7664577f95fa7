package util

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Pos identifies a position in the source file. The zero value means the position is unknown.
type Pos struct {
	Line int // Line number, starting at 1.
	Col  int // Column number, starting at 1.
}

// Diagnostic is a user visible compiler error attributed to a source position.
type Diagnostic struct {
	Pos Pos    // Source position of the offending construct.
	Msg string // Human readable error message.
}

// Diagnostics buffers the compiler errors reported by a phase. The pipeline is single
// threaded; the buffer is filled in source order and inspected when the phase returns.
type Diagnostics struct {
	errors []error // Buffer of error messages.
}

// ----------------------
// ----- Constants ------
// ----------------------

// defaultBufferSize defines the fallback buffer size of the error array.
const defaultBufferSize = 16

// ---------------------
// ----- functions -----
// ---------------------

// String returns the source position on the conventional line:column form.
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Error returns the diagnostic message prefixed with its source position, if known.
func (d Diagnostic) Error() string {
	if d.Pos.Line > 0 {
		return fmt.Sprintf("%s: %s", d.Pos, d.Msg)
	}
	return d.Msg
}

// Errorf creates a Diagnostic at position pos from a format string.
func Errorf(pos Pos, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// NewDiagnostics returns a Diagnostics buffer with n pre-allocated slots.
func NewDiagnostics(n int) *Diagnostics {
	if n < 1 {
		n = defaultBufferSize
	}
	return &Diagnostics{errors: make([]error, 0, n)}
}

// Append adds the error message err to the buffer. <nil> errors are ignored.
func (ds *Diagnostics) Append(err error) {
	if err != nil {
		ds.errors = append(ds.errors, err)
	}
}

// Len returns the number of buffered errors.
func (ds *Diagnostics) Len() int {
	return len(ds.errors)
}

// Errors returns the buffered errors in the order they were reported.
func (ds *Diagnostics) Errors() []error {
	return ds.errors
}

// First returns the first reported error, or <nil> if no error was reported.
func (ds *Diagnostics) First() error {
	if len(ds.errors) == 0 {
		return nil
	}
	return ds.errors[0]
}
