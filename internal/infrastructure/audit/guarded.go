package audit

import (
	"context"
	"errors"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
	"github.com/alem-hub/roster/pkg/circuitbreaker"
)

// Guarded puts a circuit breaker in front of a remote sink so a dead
// server costs one fast rejection per action instead of a dial timeout.
type Guarded struct {
	sink    student.AuditLogger
	breaker *circuitbreaker.CircuitBreaker
}

var _ student.AuditLogger = (*Guarded)(nil)

// NewGuarded wraps sink with breaker.
func NewGuarded(sink student.AuditLogger, breaker *circuitbreaker.CircuitBreaker) *Guarded {
	return &Guarded{sink: sink, breaker: breaker}
}

// LogAction forwards to the sink unless the breaker is open.
func (g *Guarded) LogAction(ctx context.Context, action shared.AuditAction, details string) error {
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.sink.LogAction(ctx, action, details)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		return shared.WrapIOError("audit", "LogAction", "remote audit sink unavailable", err)
	}
	return err
}

// State reports the breaker state.
func (g *Guarded) State() circuitbreaker.State {
	return g.breaker.State()
}
