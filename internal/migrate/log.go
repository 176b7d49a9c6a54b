package migrate

import (
	"fmt"
	"io"
)

// Logger mirrors the two printf tiers the original tool used: action
// traces ("patching X -> Y", "X needs patching") print unconditionally,
// while per-record inspection traces ("announced symbol version Y at idx
// Z") only print under --verbose.
type Logger struct {
	w       io.Writer
	verbose bool
}

// NewLogger builds a Logger writing to w, gating Tracef on verbose.
func NewLogger(w io.Writer, verbose bool) *Logger {
	return &Logger{w: w, verbose: verbose}
}

// Printf always prints, matching the original tool's unconditional
// "patching"/"needs patching" messages.
func (l *Logger) Printf(format string, args ...any) {
	fmt.Fprintf(l.w, format, args...)
}

// Tracef prints only when verbose is set.
func (l *Logger) Tracef(format string, args ...any) {
	if !l.verbose {
		return
	}
	fmt.Fprintf(l.w, format, args...)
}
