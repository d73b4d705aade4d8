package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Output receives all messages, it defaults to the colorable stdout.
var Output io.Writer = color.Output

// Silent silences all the non-error messages
var Silent bool

// Verbose allows printing info messages.
var Verbose bool

type kind int

const (
	info kind = iota
	success
	warning
	failure
)

// prefix returns the colored marker of the message kind.
func (k kind) prefix() string {
	switch k {
	case success:
		return "[" + color.GreenString("✓") + "] "
	case warning:
		return "[" + color.YellowString("!") + "] "
	case failure:
		return "[" + color.RedString("x") + "] "
	default:
		return "[" + color.BlueString("•") + "] "
	}
}

// write writes a message unless it is silenced.
// Failures are never silenced.
func write(k kind, verbose bool, msg string) {
	if k != failure && (Silent || verbose && !Verbose) {
		return
	}
	fmt.Fprint(Output, k.prefix()+msg)
}

// Warningln formats warning message
func Warningln(content ...interface{}) {
	write(warning, false, fmt.Sprint(content...)+"\n")
}

// Successln formats success message
func Successln(content ...interface{}) {
	write(success, false, fmt.Sprint(content...)+"\n")
}

// Infoln formats info message
func Infoln(content ...interface{}) {
	write(info, false, fmt.Sprint(content...)+"\n")
}

// Verboseln formats info message, printed only if Verbose is set.
func Verboseln(content ...interface{}) {
	write(info, true, fmt.Sprint(content...)+"\n")
}

// Failureln formats failure message
func Failureln(content ...interface{}) {
	write(failure, false, fmt.Sprint(content...)+"\n")
}

// Warningf formats warning message
func Warningf(format string, values ...interface{}) {
	write(warning, false, fmt.Sprintf(format, values...))
}

// Successf formats success message
func Successf(format string, values ...interface{}) {
	write(success, false, fmt.Sprintf(format, values...))
}

// Infof formats info message
func Infof(format string, values ...interface{}) {
	write(info, false, fmt.Sprintf(format, values...))
}

// Verbosef formats info message, printed only if Verbose is set.
func Verbosef(format string, values ...interface{}) {
	write(info, true, fmt.Sprintf(format, values...))
}

// Failuref formats failure message
func Failuref(format string, values ...interface{}) {
	write(failure, false, fmt.Sprintf(format, values...))
}
