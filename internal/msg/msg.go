// Package msg prints user-facing diagnostics. The compile core never prints;
// only the CLI and project orchestration report through here.
package msg

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

func report(label string, format string, a ...any) {
	fmt.Print(label)
	fmt.Print(": ")
	fmt.Printf(format, a...)
	fmt.Print("\n")
}

func Error(format string, a ...any) {
	report(color.HiRedString("error"), format, a...)
}

func Warn(format string, a ...any) {
	report(color.YellowString("warn"), format, a...)
}

func Info(format string, a ...any) {
	report(color.HiGreenString("info"), format, a...)
}

func Fatal(format string, a ...any) {
	report(color.RedString("fatal"), format, a...)
	os.Exit(1)
}

// IndentWriter prefixes every line written through it, used to nest the
// progress output of subprocesses and clones under our own messages.
type IndentWriter struct {
	Indent    string
	W         io.Writer
	didIndent bool
}

func (w *IndentWriter) Write(p []byte) (n int, err error) {
	start := 0
	for i, c := range p {
		if !w.didIndent {
			if _, err := io.WriteString(w.W, w.Indent); err != nil {
				return i, err
			}
			w.didIndent = true
		}
		if c == '\n' || c == '\r' {
			if _, err := w.W.Write(p[start : i+1]); err != nil {
				return i, err
			}
			start = i + 1
			w.didIndent = false
		}
	}
	if start < len(p) {
		if _, err := w.W.Write(p[start:]); err != nil {
			return start, err
		}
	}
	return len(p), nil
}
