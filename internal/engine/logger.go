package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StepLogger receives the derivation's progress. Implementations must be
// safe to call from a single pipeline goroutine.
type StepLogger interface {
	// Step announces a pipeline step about to run.
	Step(num, total int, name string)
	// Info, Warning and Error report within the current step.
	Info(msg string, kv ...any)
	Warning(msg string, kv ...any)
	Error(msg string, kv ...any)
	// Success reports a completed step.
	Success(name string, elapsed time.Duration)
	// Finalize reports the end of the whole run.
	Finalize(ok bool, elapsed time.Duration)
}

// ZapLogger adapts a zap.SugaredLogger to the StepLogger interface.
type ZapLogger struct {
	log *zap.SugaredLogger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{log: l.Sugar()}
}

func (z *ZapLogger) Step(num, total int, name string) {
	z.log.Infow(fmt.Sprintf("step %d/%d: %s", num, total, name), "step", num, "total", total, "name", name)
}

func (z *ZapLogger) Info(msg string, kv ...any)    { z.log.Infow(msg, kv...) }
func (z *ZapLogger) Warning(msg string, kv ...any) { z.log.Warnw(msg, kv...) }
func (z *ZapLogger) Error(msg string, kv ...any)   { z.log.Errorw(msg, kv...) }

func (z *ZapLogger) Success(name string, elapsed time.Duration) {
	z.log.Infow("step complete", "name", name, "elapsed", elapsed.String())
}

func (z *ZapLogger) Finalize(ok bool, elapsed time.Duration) {
	if ok {
		z.log.Infow("derivation complete", "elapsed", elapsed.String())
		return
	}
	z.log.Errorw("derivation failed", "elapsed", elapsed.String())
}

// NullLogger discards everything; the default for library use and tests.
type NullLogger struct{}

func (NullLogger) Step(int, int, string)             {}
func (NullLogger) Info(string, ...any)               {}
func (NullLogger) Warning(string, ...any)            {}
func (NullLogger) Error(string, ...any)              {}
func (NullLogger) Success(string, time.Duration)     {}
func (NullLogger) Finalize(bool, time.Duration)      {}
