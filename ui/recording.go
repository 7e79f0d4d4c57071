package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Entry records a single UI method call for test assertions.
type Entry struct {
	Method string
	Value  string
}

// RecordingUI implements UI for tests. Every call is captured in an entry
// log; Writer output goes to an internal buffer.
type RecordingUI struct {
	entries []Entry
	buf     bytes.Buffer
}

func NewRecordingUI() *RecordingUI {
	return &RecordingUI{}
}

func (r *RecordingUI) record(method, value string) {
	r.entries = append(r.entries, Entry{Method: method, Value: value})
}

// Style returns the plain text of t without any colour markup.
func (r *RecordingUI) Style(t StyledText) string {
	return t.Text
}

func (r *RecordingUI) Info(format string, args ...any) {
	r.record("Info", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Success(format string, args ...any) {
	r.record("Success", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Warn(format string, args ...any) {
	r.record("Warn", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Error(format string, args ...any) {
	r.record("Error", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Section(title string) {
	r.record("Section", title)
}

// KeyValue records each row as "label: value".
func (r *RecordingUI) KeyValue(rows [][2]string) {
	for _, row := range rows {
		r.record("KeyValue", row[0]+": "+row[1])
	}
}

// Table records each row as its cells joined by " | ".
func (r *RecordingUI) Table(headers []string, rows [][]string) {
	if len(headers) > 0 {
		r.record("TableHeader", strings.Join(headers, " | "))
	}
	for _, row := range rows {
		r.record("Table", strings.Join(row, " | "))
	}
}

func (r *RecordingUI) Spinner(msg string) func() {
	r.record("Spinner", msg)
	return func() {}
}

func (r *RecordingUI) Writer() io.Writer {
	return &r.buf
}

// --- Test helpers ---

func (r *RecordingUI) Entries() []Entry {
	return r.entries
}

func (r *RecordingUI) ErrorMessages() []string {
	return r.methodValues("Error")
}

// HasMessage returns true if any recorded entry's value contains substr
// (case-insensitive).
func (r *RecordingUI) HasMessage(substr string) bool {
	lower := strings.ToLower(substr)
	for _, e := range r.entries {
		if strings.Contains(strings.ToLower(e.Value), lower) {
			return true
		}
	}
	return false
}

// Output returns everything written to Writer().
func (r *RecordingUI) Output() string {
	return r.buf.String()
}

func (r *RecordingUI) methodValues(method string) []string {
	var out []string
	for _, e := range r.entries {
		if e.Method == method {
			out = append(out, e.Value)
		}
	}
	return out
}
