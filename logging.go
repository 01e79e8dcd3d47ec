package gi2d

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger is the sink for frame-building diagnostics. Overflow truncation and
// the identity camera fallback report through Warnf.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger sends DEBUG and INFO lines to out and WARN and ERROR lines to
// errOut, each tagged "[prefix] LEVEL: ".
type DefaultLogger struct {
	mu    sync.Mutex
	debug bool
	tag   string
	out   *log.Logger
	err   *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewDefaultLoggerTo(prefix, debug, os.Stdout, os.Stderr)
}

func NewDefaultLoggerTo(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	tag := ""
	if prefix != "" {
		tag = "[" + prefix + "] "
	}
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug: debug,
		tag:   tag,
		out:   log.New(out, "", flags),
		err:   log.New(errOut, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) logf(dst *log.Logger, level, format string, args []any) {
	dst.Printf("%s%s: %s", l.tag, level, fmt.Sprintf(format, args...))
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if l.DebugEnabled() {
		l.logf(l.out, "DEBUG", format, args)
	}
}

func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(l.out, "INFO", format, args) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(l.err, "WARN", format, args) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(l.err, "ERROR", format, args) }

type nopLogger struct{}

func NewNopLogger() Logger { return &nopLogger{} }

func (*nopLogger) DebugEnabled() bool    { return false }
func (*nopLogger) SetDebug(bool)         {}
func (*nopLogger) Debugf(string, ...any) {}
func (*nopLogger) Infof(string, ...any)  {}
func (*nopLogger) Warnf(string, ...any)  {}
func (*nopLogger) Errorf(string, ...any) {}

// orNop never returns nil.
func orNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
