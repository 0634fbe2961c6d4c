// Package output provides formatting utilities for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Format represents an output format.
type Format int

const (
	// FormatText is plain text output.
	FormatText Format = iota
	// FormatJSON is JSON output.
	FormatJSON
)

// Writer handles formatted output to a destination.
type Writer struct {
	dest   io.Writer
	format Format
}

// NewWriter creates a new output writer with the given format.
func NewWriter(format Format) *Writer {
	return &Writer{
		dest:   os.Stdout,
		format: format,
	}
}

// WriteJSON encodes a value as pretty-printed JSON.
func (w *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(w.dest)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteText writes plain text.
func (w *Writer) WriteText(s string) error {
	_, err := fmt.Fprint(w.dest, s)
	return err
}

// WriteLn writes a line of text.
func (w *Writer) WriteLn(s string) error {
	_, err := fmt.Fprintln(w.dest, s)
	return err
}

// WriteError writes an error message to stderr.
func WriteError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// Field is one labeled value in a verbose result block.
type Field struct {
	Label string
	Value string
}

// FormatResultBlock renders the banner block the --verbose row output uses:
// a framed title, the row context, then a ruled section of result fields.
// Fields with empty values are printed anyway so a blank lookup is visible.
func FormatResultBlock(title, section string, context, fields []Field) string {
	var sb strings.Builder

	rule := strings.Repeat("=", 80)
	sb.WriteString("\n" + rule + "\n")
	sb.WriteString(title + "\n")
	sb.WriteString(rule + "\n")
	for _, f := range context {
		sb.WriteString(fmt.Sprintf("%s: %s\n", f.Label, f.Value))
	}
	sb.WriteString("\n" + section + ":\n")
	sb.WriteString(strings.Repeat("─", 40) + "\n")
	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("%s: %s\n", f.Label, f.Value))
	}
	sb.WriteString(rule + "\n")

	return sb.String()
}
