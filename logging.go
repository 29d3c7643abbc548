// logging.go - structured logging for the simulation core.
//
// Package-level configuration, following the same shape as the rest of
// this module's ambient stack: a process-wide, mutex-guarded logger
// pointer plus an atomic enabled flag, so the hot path (every suspension
// point, every queue/signal/resource operation) pays one atomic load when
// logging is disabled.
//
// Unlike a hand-rolled os.Stdout writer, records are emitted through
// logiface (github.com/joeycumines/logiface), a generic structured
// logging facade, backed by stumpy (github.com/joeycumines/stumpy), a
// concrete allocation-light JSON Event implementation for it. Both are
// real dependencies already present in this module's lineage.
package desim

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

var (
	loggerMu     sync.RWMutex
	activeLogger *logiface.Logger[*stumpy.Event]
	loggingOn    atomic.Bool
)

// SetLogger installs the structured logger used by every Scheduler,
// Process, Queue, Signal, and Resource in the current process. Passing
// nil disables logging. This is process-wide by design: the external
// structured-logger collaborator this package wires against is enabled
// or disabled for the whole process, not per Scheduler instance.
func SetLogger(logger *logiface.Logger[*stumpy.Event]) {
	loggerMu.Lock()
	activeLogger = logger
	loggerMu.Unlock()
	loggingOn.Store(logger != nil)
}

// DisableLogging turns off structured logging process-wide. Equivalent
// to SetLogger(nil).
func DisableLogging() {
	SetLogger(nil)
}

// NewJSONLogger builds a structured logger that writes newline-delimited
// JSON records to w, emitting only records at or above level. Pass the
// result to SetLogger to activate it.
func NewJSONLogger(w io.Writer, level logiface.Level) *logiface.Logger[*stumpy.Event] {
	return stumpy.L.New(
		stumpy.L.WithLevel(level),
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
	)
}

func getLogger() *logiface.Logger[*stumpy.Event] {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return activeLogger
}

// trace emits one structured log record in the shape mandated by this
// package's external structured-logger contract: level, virtual time,
// the name of the process that was current (empty outside any process),
// the kind and name of the object raising the record, the event's own
// name, and a small set of extra parameters. It costs one atomic load
// when disabled, and nothing else.
func trace(level logiface.Level, now float64, processName, objectKind, objectName, eventName string, params map[string]any) {
	if !loggingOn.Load() {
		return
	}
	logger := getLogger()
	if logger == nil {
		return
	}
	b := logger.Build(level)
	if !b.Enabled() {
		b.Release()
		return
	}
	b.Float64("virtual_time", now)
	if processName != "" {
		b.Str("process", processName)
	}
	b.Str("object_kind", objectKind)
	b.Str("object_name", objectName)
	for k, v := range params {
		b.Any(k, v)
	}
	b.Log(eventName)
}
