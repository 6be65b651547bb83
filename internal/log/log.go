// Package log provides a small leveled logger shared by the core and
// the reference frontend, so hot emulation paths never pay for
// ad hoc fmt.Printf debugging.
package log

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

// Level controls which messages a Logger emits.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelSilent suppresses all output.
	LevelSilent
)

var threshold atomic.Int32

func init() {
	threshold.Store(int32(LevelWarn))
}

// SetLevel changes the global emission threshold. Components below
// this level are dropped before formatting, so Debug-level call sites
// are effectively free once silenced.
func SetLevel(l Level) {
	threshold.Store(int32(l))
}

// Logger is a per-component handle wrapping its own stdlib logger
// that writes to stderr.
type Logger struct {
	component string
	out       *log.Logger
}

// For returns a Logger scoped to the named component, e.g. "ppu".
func For(component string) *Logger {
	return &Logger{
		component: component,
		out:       log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *Logger) log(level Level, tag, format string, args ...any) {
	if Level(threshold.Load()) > level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.out.Printf("[%s] %s: %s", tag, l.component, msg)
}

func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, "DEBUG", format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, "INFO", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, "WARN", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, "ERROR", format, args...) }
