package ui

import (
	"encoding/json"
	"io"
)

// Severity classifies the visual weight of a piece of inline text. The
// terminal maps each value to a colour; data consumers (JSON, tests) see
// plain text.
type Severity uint8

const (
	SeverityInfo    Severity = iota // plain
	SeveritySuccess                 // green
	SeverityWarn                    // yellow
	SeverityError                   // red
)

// StyledText pairs a plain string with a Severity annotation.
type StyledText struct {
	Text     string
	Severity Severity
}

// MarshalJSON serializes StyledText as a plain JSON string (just Text).
func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI is the output surface of the onchaincheck CLI commands.
//
// Production code uses TerminalUI; tests use RecordingUI, which captures
// every call so assertions don't depend on colours or spacing.
type UI interface {
	// Style returns the text from t coloured according to its Severity.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error writes a failure in red. It does not exit.
	Error(format string, args ...any)

	// Section writes a visual separator centred around a title.
	Section(title string)

	// KeyValue renders an aligned 2-column block.
	KeyValue(rows [][2]string)

	// Table renders a bordered table with an optional header row.
	Table(headers []string, rows [][]string)

	// Spinner starts an animated spinner and returns the function that
	// stops it. It is a no-op outside a terminal.
	Spinner(msg string) func()

	// Writer returns the raw output, e.g. for JSON encoding.
	Writer() io.Writer
}
