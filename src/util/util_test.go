// Tests the utility types shared by the compiler phases: command line parsing, the
// break target stack and the diagnostics buffer.

package util

import (
	"os"
	"testing"
)

// helperParse parses the given command line, restoring os.Args afterwards.
func helperParse(t *testing.T, args ...string) (Options, error) {
	t.Helper()
	saved := os.Args
	defer func() { os.Args = saved }()
	os.Args = append([]string{"decafc"}, args...)
	return ParseArgs()
}

func TestParseArgs(t *testing.T) {
	opt, err := helperParse(t, "-o", "out.s", "-target", "pa3", "-vb", "prog.decaf")
	if err != nil {
		t.Fatalf("failed to parse arguments: %v", err)
	}
	if opt.Out != "out.s" {
		t.Errorf("expected output file out.s, got %q", opt.Out)
	}
	if opt.Target != PA3 {
		t.Errorf("expected build target pa3, got %d", opt.Target)
	}
	if !opt.Verbose {
		t.Errorf("expected verbose mode on")
	}
	if opt.Src != "prog.decaf" {
		t.Errorf("expected source file prog.decaf, got %q", opt.Src)
	}
}

func TestParseArgsDefaults(t *testing.T) {
	opt, err := helperParse(t, "prog.decaf")
	if err != nil {
		t.Fatalf("failed to parse arguments: %v", err)
	}
	if opt.Target != PA5 {
		t.Errorf("expected the default build target pa5, got %d", opt.Target)
	}
	if len(opt.Out) != 0 {
		t.Errorf("expected output to default to stdout, got %q", opt.Out)
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := [][]string{
		{"-x", "prog.decaf"},
		{"-target", "pa4", "prog.decaf"},
		{"-o", "-vb", "prog.decaf"},
	}
	for _, e1 := range tests {
		if _, err := helperParse(t, e1...); err == nil {
			t.Errorf("expected an error for arguments %v, got none", e1)
		}
	}
}

func TestStack(t *testing.T) {
	s := Stack{}
	if s.Pop() != nil || s.Peek() != nil || s.Size() != 0 {
		t.Errorf("expected an empty stack to yield nil")
	}

	s.Push(1)
	s.Push(2)
	s.Push(nil) // Ignored.
	if s.Size() != 2 {
		t.Errorf("expected 2 elements, got %d", s.Size())
	}
	if e := s.Peek(); e != 2 {
		t.Errorf("expected to peek the last pushed element, got %v", e)
	}
	if e := s.Pop(); e != 2 {
		t.Errorf("expected to pop the last pushed element, got %v", e)
	}
	if e := s.Pop(); e != 1 {
		t.Errorf("expected to pop the first pushed element last, got %v", e)
	}
	if s.Pop() != nil {
		t.Errorf("expected nil after draining the stack")
	}
}

func TestDiagnostics(t *testing.T) {
	ds := NewDiagnostics(0)
	if ds.Len() != 0 || ds.First() != nil {
		t.Errorf("expected an empty buffer")
	}

	ds.Append(nil) // Ignored.
	ds.Append(Errorf(Pos{Line: 3, Col: 7}, "integer literal %d exceeds the 32-bit target range", 1<<40))
	ds.Append(Errorf(Pos{}, "something else"))

	if ds.Len() != 2 {
		t.Fatalf("expected 2 buffered errors, got %d", ds.Len())
	}
	if got := ds.First().Error(); got != "3:7: integer literal 1099511627776 exceeds the 32-bit target range" {
		t.Errorf("unexpected first error: %q", got)
	}
	// The zero position means unknown and is omitted from the message.
	if got := ds.Errors()[1].Error(); got != "something else" {
		t.Errorf("expected no position prefix for an unknown position, got %q", got)
	}
}
