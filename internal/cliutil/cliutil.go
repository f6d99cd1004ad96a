// Package cliutil provides output helpers for the pig CLI.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// SuccessMark returns a green check mark, plain when color is disabled.
func SuccessMark() string {
	return color.New(color.FgGreen).Sprint("✓")
}

// FailureMark returns a red cross, plain when color is disabled.
func FailureMark() string {
	return color.New(color.FgRed).Sprint("✗")
}

// Bold returns s in bold, plain when color is disabled.
func Bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}
