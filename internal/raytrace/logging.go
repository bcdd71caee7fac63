package raytrace

import (
	"io"
	"log"
	"os"
	"sync/atomic"

	"github.com/banshee-data/occupancy/internal/config"
)

// LogWriters holds the io.Writers for each logging stream.
type LogWriters struct {
	Ops   io.Writer // cancelled batches, failed merges
	Diag  io.Writer // one summary line per batch
	Trace io.Writer // per-worker progress
}

type logStreams struct {
	ops, diag, trace *log.Logger
}

// streams is swapped atomically so workers never take a lock to log.
var streams atomic.Pointer[logStreams]

// SetLogWriters configures all three logging streams at once.
// Pass nil for any writer to disable that stream.
func SetLogWriters(w LogWriters) {
	streams.Store(&logStreams{
		ops:   newLogger(w.Ops),
		diag:  newLogger(w.Diag),
		trace: newLogger(w.Trace),
	})
}

// ConfigureLogging points the streams at stdout/stderr as cfg selects.
func ConfigureLogging(cfg *config.TracingConfig) {
	if cfg == nil {
		cfg = config.EmptyTracingConfig()
	}
	ops, diag, trace := cfg.LogWriters(os.Stdout, os.Stderr)
	SetLogWriters(LogWriters{Ops: ops, Diag: diag, Trace: trace})
}

func newLogger(w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, "[raytrace] ", log.LstdFlags|log.Lmicroseconds)
}

func logTo(pick func(*logStreams) *log.Logger, format string, args ...interface{}) {
	s := streams.Load()
	if s == nil {
		return
	}
	if l := pick(s); l != nil {
		l.Printf(format, args...)
	}
}

// Opsf logs to the ops stream.
func Opsf(format string, args ...interface{}) {
	logTo(func(s *logStreams) *log.Logger { return s.ops }, format, args...)
}

// Diagf logs to the diag stream.
func Diagf(format string, args ...interface{}) {
	logTo(func(s *logStreams) *log.Logger { return s.diag }, format, args...)
}

// Tracef logs to the trace stream.
func Tracef(format string, args ...interface{}) {
	logTo(func(s *logStreams) *log.Logger { return s.trace }, format, args...)
}
