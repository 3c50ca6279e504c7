// Package console provides terminal output: a colored structured logger and
// the report table.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/ochairo/cppgrade/internal/domain/interfaces"
)

// Logger writes leveled, key=value log lines. Debug lines are dropped
// unless verbose is set.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	now     func() time.Time

	debug *color.Color
	info  *color.Color
	warn  *color.Color
	err   *color.Color
	key   *color.Color
}

// NewLogger creates a logger writing to out
func NewLogger(out io.Writer, verbose bool) *Logger {
	return &Logger{
		out:     out,
		verbose: verbose,
		now:     time.Now,
		debug:   color.New(color.FgHiBlack),
		info:    color.New(color.FgCyan),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed, color.Bold),
		key:     color.New(color.Faint),
	}
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	if !l.verbose {
		return
	}
	l.log(l.debug, "DEBUG", msg, fields)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.log(l.info, "INFO", msg, fields)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.log(l.warn, "WARN", msg, fields)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.log(l.err, "ERROR", msg, fields)
}

func (l *Logger) log(c *color.Color, level, msg string, fields []interfaces.Field) {
	var b strings.Builder
	b.WriteString(l.now().Format("15:04:05"))
	b.WriteByte(' ')
	b.WriteString(c.Sprintf("%-5s", level))
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(l.key.Sprint(f.Key + "="))
		b.WriteString(formatValue(f.Value))
	}
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

// formatValue quotes values that would otherwise break the key=value layout
func formatValue(v interface{}) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " \t\r\n=\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
