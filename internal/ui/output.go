// Package ui renders workflow progress and results to the terminal.
package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	errs "github.com/lcgerke/gitflow/internal/errors"
)

// Output writes user-facing messages, with color when the target is a TTY
type Output struct {
	writer       io.Writer
	colorEnabled bool
}

// NewOutput creates an Output writing to w, enabling color only when w is a
// terminal.
func NewOutput(w io.Writer) *Output {
	o := &Output{writer: w}
	if file, ok := w.(*os.File); ok {
		if info, err := file.Stat(); err == nil && (info.Mode()&os.ModeCharDevice) != 0 {
			o.colorEnabled = true
		}
	}
	return o
}

// SetColorEnabled overrides the TTY detection
func (o *Output) SetColorEnabled(enabled bool) {
	o.colorEnabled = enabled
}

func (o *Output) mark(symbol string, colorize func(format string, a ...interface{}) string, message string) {
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "%s %s\n", colorize(symbol), message)
	} else {
		fmt.Fprintf(o.writer, "%s %s\n", symbol, message)
	}
}

// Success prints a success message
func (o *Output) Success(message string) {
	o.mark("✓", color.GreenString, message)
}

// Warning prints a warning message
func (o *Output) Warning(message string) {
	o.mark("⚠", color.YellowString, message)
}

// Info prints a plain informational message
func (o *Output) Info(message string) {
	fmt.Fprintln(o.writer, message)
}

// Step prints a progress line for one workflow step
func (o *Output) Step(message string) {
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "%s %s\n", color.CyanString("→"), message)
	} else {
		fmt.Fprintf(o.writer, "→ %s\n", message)
	}
}

// Header prints a bold section title
func (o *Output) Header(title string) {
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "\n%s\n", color.New(color.Bold).Sprint(title))
	} else {
		fmt.Fprintf(o.writer, "\n%s\n", title)
	}
}

// Successf prints a formatted success message
func (o *Output) Successf(format string, args ...interface{}) {
	o.Success(fmt.Sprintf(format, args...))
}

// Warningf prints a formatted warning message
func (o *Output) Warningf(format string, args ...interface{}) {
	o.Warning(fmt.Sprintf(format, args...))
}

// Infof prints a formatted info message
func (o *Output) Infof(format string, args ...interface{}) {
	o.Info(fmt.Sprintf(format, args...))
}

// Stepf prints a formatted step message
func (o *Output) Stepf(format string, args ...interface{}) {
	o.Step(fmt.Sprintf(format, args...))
}

// Error renders an error, using the friendly message and hint when the error
// is part of the workflow taxonomy.
func (o *Output) Error(err error) {
	message := err.Error()
	var fe *errs.FlowError
	if stderrors.As(err, &fe) {
		message = fe.UserFriendlyMessage()
	}

	if o.colorEnabled {
		fmt.Fprintf(o.writer, "%s %s\n", color.RedString("✗"), message)
	} else {
		fmt.Fprintf(o.writer, "✗ %s\n", message)
	}
}

// Warnings prints each warning from a phase result
func (o *Output) Warnings(warnings []string) {
	for _, warning := range warnings {
		o.Warning(warning)
	}
}
