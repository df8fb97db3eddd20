// Package persistence connects the roster to its store at start-up and
// after every mutation.
package persistence

import (
	"context"
	"time"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
	"github.com/alem-hub/roster/pkg/logger"
	"github.com/alem-hub/roster/pkg/retry"
)

// LoadRoster restores the roster from store.
// Missing or unreadable state yields an empty roster; the cause is logged.
func LoadRoster(ctx context.Context, store student.Store, log *logger.Logger) *student.Roster {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("persistence"))

	start := time.Now()
	snap, err := store.Load(ctx)
	if err != nil {
		log.Warn("failed to load data, starting with an empty roster", logger.Err(err))
		return student.NewRoster()
	}
	if snap.IsEmpty() {
		log.Info("no saved roster, starting empty")
		return student.NewRoster()
	}

	roster, err := student.RestoreRoster(snap)
	if err != nil {
		log.Warn("stored roster is invalid, starting with an empty roster", logger.Err(err))
		return student.NewRoster()
	}

	log.Info("roster loaded",
		logger.Int("students", roster.TotalStudents()),
		logger.Int("next_sequence", roster.NextSequence()),
		logger.Latency(time.Since(start)),
	)
	return roster
}

// SaveRoster writes a snapshot of roster to store, retrying transient failures.
// The returned error matches shared.ErrIO.
func SaveRoster(ctx context.Context, store student.Store, roster *student.Roster, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	snap := roster.Snapshot()

	r := retry.SaveRetrier(func(attempt int, err error, delay time.Duration) {
		log.Debug("retrying save",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Err(err),
		)
	})

	err := r.Do(ctx, func(ctx context.Context) error {
		err := store.Save(ctx, snap)
		if shared.IsValidation(err) {
			// the store rejected the data itself; another attempt cannot succeed
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return shared.WrapIOError("storage", "SaveRoster", "Failed to save data", err)
	}
	return nil
}
