package gpuimage

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for gpuimage and every device that was
// registered with [RegisterLoggerSink]. By default nothing is logged.
//
// Pass nil to restore the default silent behavior.
//
// Log levels used by gpuimage:
//   - [slog.LevelDebug]: per-frame diagnostics (drained commands, framebuffer reallocation)
//   - [slog.LevelInfo]: lifecycle events (device opened, pipeline replaced)
//   - [slog.LevelWarn]: ignored parameters, absent registry entries, release failures
//
// Example:
//
//	gpuimage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	sinksMu.Lock()
	sinks := append([]loggerSetter(nil), sinks...)
	sinksMu.Unlock()
	for _, s := range sinks {
		s.SetLogger(l)
	}
}

// Logger returns the current logger. Backends call this to share the same
// configuration without import cycles. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

var (
	sinksMu sync.Mutex
	sinks   []loggerSetter
)

// RegisterLoggerSink hands the current logger to s and keeps s updated on
// every later [SetLogger] call. Devices call it from their constructors.
func RegisterLoggerSink(s interface{ SetLogger(*slog.Logger) }) {
	if s == nil {
		return
	}
	sinksMu.Lock()
	sinks = append(sinks, s)
	sinksMu.Unlock()
	s.SetLogger(Logger())
}

// UnregisterLoggerSink stops propagating logger changes to s.
func UnregisterLoggerSink(s interface{ SetLogger(*slog.Logger) }) {
	sinksMu.Lock()
	defer sinksMu.Unlock()
	for i, x := range sinks {
		if x == s {
			sinks = append(sinks[:i], sinks[i+1:]...)
			return
		}
	}
}
