// Tests assembly emission: section layout, virtual table data, string pool and the
// frame around the allocator's native streams. A fixed fake allocator stands in for
// the external register allocator.

package backend

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"decafc/src/ir/tac"
	"decafc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// fakeAllocator returns a canned native stream, frame size and error for every method.
type fakeAllocator struct {
	instrs []*tac.NativeInstr
	frame  int32
	err    error
}

// ---------------------
// ----- Functions -----
// ---------------------

func (f *fakeAllocator) AllocMethod(_ *tac.Func) ([]*tac.NativeInstr, int32, error) {
	return f.instrs, f.frame, f.err
}

// helperProgram builds a one-class, one-method program with an interned string.
func helperProgram() *tac.Program {
	fn := &tac.Func{
		Method:   "main",
		Entry:    tac.LabelMain,
		Epilogue: tac.LabelMain.Epilogue(),
		Instrs:   []*tac.PseudoInstr{tac.Mark(tac.LabelMain), tac.JumpToEpilogue(tac.LabelMain)},
	}
	return &tac.Program{
		VTables: []*tac.VTable{{Class: "A", Entries: []tac.VTableEntry{{Method: "m", Entry: "_A.m"}}}},
		Funcs:   []*tac.Func{fn},
		Strings: []string{"hi"},
	}
}

func TestGenerate(t *testing.T) {
	alloc := &fakeAllocator{
		instrs: []*tac.NativeInstr{
			tac.NativeMark(tac.LabelMain),
			tac.NativeLoadImm(tac.EAX, 0),
			tac.NativeJumpToEpilogue(tac.LabelMain),
		},
		frame: 8,
	}

	expected := `.data
_A:
    .long    0
    .long    _A$
    .long    _A.m
_A$:
    .asciz   "A"
_S0:
    .asciz   "hi"

.text

.globl   main
main:
    push     %ebp
    mov      %esp, %ebp
    add      $-8, %esp
    mov      $0, %eax
    jmp      main_exit
main_exit:
    leave
    ret
`

	var buf bytes.Buffer
	if err := Generate(helperProgram(), alloc, util.NewWriterTo(&buf)); err != nil {
		t.Fatalf("assembly emission failed: %v", err)
	}
	if got := buf.String(); got != expected {
		t.Errorf("unexpected assembly.\nexpected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestGenerateNoFrame(t *testing.T) {
	alloc := &fakeAllocator{
		instrs: []*tac.NativeInstr{
			tac.NativeMark(tac.LabelMain),
			tac.NativeJumpToEpilogue(tac.LabelMain),
		},
	}

	var buf bytes.Buffer
	if err := Generate(helperProgram(), alloc, util.NewWriterTo(&buf)); err != nil {
		t.Fatalf("assembly emission failed: %v", err)
	}
	if strings.Contains(buf.String(), "add      $") {
		t.Errorf("expected no stack adjustment for an empty frame:\n%s", buf.String())
	}
}

func TestParentTablePointer(t *testing.T) {
	parent := &tac.VTable{Class: "A"}
	child := &tac.VTable{Class: "B", Parent: parent}
	p := &tac.Program{VTables: []*tac.VTable{parent, child}}

	var buf bytes.Buffer
	if err := Generate(p, &fakeAllocator{}, util.NewWriterTo(&buf)); err != nil {
		t.Fatalf("assembly emission failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "_B:\n    .long    _A\n") {
		t.Errorf("expected the table of B to point at the table of A:\n%s", out)
	}
	if !strings.Contains(out, "_A:\n    .long    0\n") {
		t.Errorf("expected a null parent pointer in the root table:\n%s", out)
	}
}

func TestGenerateErrors(t *testing.T) {
	// The allocator's own error is reported with the failing method.
	fail := errors.New("spilled out of stack slots")
	err := Generate(helperProgram(), &fakeAllocator{err: fail}, util.NewWriterTo(&bytes.Buffer{}))
	if err == nil || !errors.Is(err, fail) {
		t.Errorf("expected the allocator error to propagate, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "main") {
		t.Errorf("expected the failing method to be named, got %v", err)
	}

	// A native stream not starting with the method's entry marker is rejected.
	alloc := &fakeAllocator{instrs: []*tac.NativeInstr{tac.NativeReturn()}}
	if err := Generate(helperProgram(), alloc, util.NewWriterTo(&bytes.Buffer{})); err == nil {
		t.Errorf("expected a stream without an entry marker to be rejected")
	}
}
