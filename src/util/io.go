package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Writer buffers the textual output of the compiler phases. The compilation pipeline is
// single threaded and strictly ordered, so the Writer is a plain buffered writer; the
// phases share one instance and write their output in pipeline order.
type Writer struct {
	w *bufio.Writer
	f *os.File // Destination file, if any. <nil> means stdout.
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewWriter returns a Writer that writes to the output file named by opt, or to stdout
// if no output file was configured.
func NewWriter(opt Options) (*Writer, error) {
	if len(opt.Out) > 0 {
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		return &Writer{w: bufio.NewWriter(f), f: f}, nil
	}
	return &Writer{w: bufio.NewWriter(os.Stdout)}, nil
}

// NewWriterTo returns a Writer that writes to an arbitrary io.Writer. Used by tests.
func NewWriterTo(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a format string to the Writer's buffer.
func (w *Writer) Write(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w.w, format, args...)
}

// Line writes a single line of output followed by a newline.
func (w *Writer) Line(s string) {
	_, _ = w.w.WriteString(s)
	_ = w.w.WriteByte('\n')
}

// Label writes a one-line label with the given name.
func (w *Writer) Label(name string) {
	_, _ = fmt.Fprintf(w.w, "%s:\n", name)
}

// Flush empties the Writer's buffer into the destination writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Close flushes the Writer's buffer and closes the destination file, if any.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}

// ReadSource reads source code from the file named by the Options structure, or from
// stdin when no source path was given.
func ReadSource(opt Options) (string, error) {
	if len(opt.Src) > 0 {
		b, err := os.ReadFile(opt.Src)
		return string(b), err
	}
	b, err := io.ReadAll(os.Stdin)
	return string(b), err
}
