// Package rlog is a small leveled wrapper around the standard log
// package, matching how debug_monitor.go and runtime_status.go in the
// teacher format their diagnostic lines: plain fmt.Fprintf(os.Stderr,
// ...) calls rather than a structured logging library. The one thing
// added here is a verbosity gate, since this renderer's hot paths
// (per-tile, per-pixel) would otherwise flood stderr.
package rlog

import (
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// Level is the verbosity gate. Only messages at or below the current
// Level are written.
type Level int32

const (
	LevelSilent Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

var current atomic.Int32

func init() {
	current.Store(int32(LevelWarn))
}

// SetLevel changes the process-wide verbosity gate.
func SetLevel(l Level) { current.Store(int32(l)) }

func enabled(l Level) bool { return Level(current.Load()) >= l }

var std = log.New(os.Stderr, "", log.LstdFlags)

func Errorf(format string, args ...any) {
	if enabled(LevelError) {
		std.Output(2, "ERROR "+fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...any) {
	if enabled(LevelWarn) {
		std.Output(2, "WARN  "+fmt.Sprintf(format, args...))
	}
}

func Infof(format string, args ...any) {
	if enabled(LevelInfo) {
		std.Output(2, "INFO  "+fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...any) {
	if enabled(LevelDebug) {
		std.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
	}
}

// onceWarnings tracks which benign-fallback messages (e.g.
// ESubtapePoolExhausted) have already been logged once for the life of
// the process (spec §7: "benign fallbacks are counted, not thrown").
var (
	onceMu       sync.Mutex
	onceWarnings = map[string]bool{}
)

// WarnOnce logs key's message only the first time it's seen, matching
// the spec's "log once" handling for pool exhaustion.
func WarnOnce(key, format string, args ...any) {
	onceMu.Lock()
	seen := onceWarnings[key]
	onceWarnings[key] = true
	onceMu.Unlock()
	if !seen {
		Warnf(format, args...)
	}
}
