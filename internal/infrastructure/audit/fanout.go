package audit

import (
	"context"
	"sync"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
	"github.com/alem-hub/roster/pkg/logger"
)

// Fanout delivers every action to all registered sinks.
// Sink failures are logged and never returned.
type Fanout struct {
	mu    sync.RWMutex
	sinks []namedSink
	log   *logger.Logger
}

type namedSink struct {
	name string
	sink student.AuditLogger
}

var _ student.AuditLogger = (*Fanout)(nil)

// NewFanout creates an empty fan-out.
func NewFanout(log *logger.Logger) *Fanout {
	if log == nil {
		log = logger.Nop()
	}
	return &Fanout{log: log.With(logger.Component("audit"))}
}

// Add registers a sink. Sinks added later see only later actions.
func (f *Fanout) Add(name string, sink student.AuditLogger) {
	if sink == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, namedSink{name: name, sink: sink})
}

// Len returns the number of registered sinks.
func (f *Fanout) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sinks)
}

// LogAction always returns nil.
func (f *Fanout) LogAction(ctx context.Context, action shared.AuditAction, details string) error {
	f.mu.RLock()
	sinks := make([]namedSink, len(f.sinks))
	copy(sinks, f.sinks)
	f.mu.RUnlock()

	for _, s := range sinks {
		if err := s.sink.LogAction(ctx, action, details); err != nil {
			f.log.Warn("audit sink failed",
				logger.String("sink", s.name),
				logger.Action(action.String()),
				logger.Err(err),
			)
		}
	}
	return nil
}

// LogSink mirrors audit actions into the structured application log.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

// LogAction writes one info line; failed logins are warnings.
func (s *LogSink) LogAction(_ context.Context, action shared.AuditAction, details string) error {
	fields := []logger.Field{logger.Action(action.String()), logger.String("details", details)}
	if action == shared.ActionLoginFailed {
		s.log.Warn("audit", fields...)
		return nil
	}
	s.log.Info("audit", fields...)
	return nil
}
