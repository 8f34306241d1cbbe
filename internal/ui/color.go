// Package ui provides colored console status messages.
//
// Messages go to Output, which defaults to stderr so that merged manifests
// printed to stdout stay clean.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	// Colors
	Red    = color.New(color.FgRed)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Blue   = color.New(color.FgBlue)
	Bold   = color.New(color.Bold)
)

// Output receives every message.
var Output io.Writer = color.Error

// ConfigureColor disables colors unless f is a terminal.
func ConfigureColor(f *os.File) {
	color.NoColor = color.NoColor || !term.IsTerminal(int(f.Fd()))
}

// Success prints a green success message with checkmark.
func Success(format string, args ...any) {
	Green.Fprintf(Output, "✓ "+format+"\n", args...)
}

// Error prints a red error message with X.
func Error(format string, args ...any) {
	Red.Fprintf(Output, "✗ "+format+"\n", args...)
}

// Warning prints a yellow warning message.
func Warning(format string, args ...any) {
	Yellow.Fprintf(Output, "⚠ "+format+"\n", args...)
}

// Info prints a blue info message.
func Info(format string, args ...any) {
	Blue.Fprintf(Output, format+"\n", args...)
}

// Header prints a bold header.
func Header(format string, args ...any) {
	Bold.Fprintf(Output, format+"\n", args...)
}

// Detail prints an indented plain line under a header.
func Detail(format string, args ...any) {
	fmt.Fprintf(Output, "  "+format+"\n", args...)
}
