package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/pkg/timeutil"
)

// AuditChannel is the pub/sub channel every audit entry is mirrored to.
var AuditChannel = PubSubChannel("audit")

// AuditStream ships audit entries to Redis: one list per session plus a
// broadcast on AuditChannel for live followers.
type AuditStream struct {
	cache     *Cache
	sessionID string
	ttl       time.Duration
	clock     timeutil.Clock
}

// NewAuditStream creates a stream for one console session.
// A zero ttl falls back to TTLAuditSession.
func NewAuditStream(cache *Cache, sessionID string, ttl time.Duration, clock timeutil.Clock) *AuditStream {
	if ttl <= 0 {
		ttl = TTLAuditSession
	}
	return &AuditStream{
		cache:     cache,
		sessionID: sessionID,
		ttl:       ttl,
		clock:     clock.OrSystem(),
	}
}

// Key returns the list key this stream appends to.
func (s *AuditStream) Key() string {
	return AuditKey(s.sessionID)
}

// LogAction appends the entry to the session list and publishes it.
func (s *AuditStream) LogAction(ctx context.Context, action shared.AuditAction, details string) error {
	entry := shared.AuditEntry{
		Timestamp: s.clock(),
		SessionID: s.sessionID,
		Action:    action,
		Details:   details,
	}

	if err := s.cache.AppendJSON(ctx, s.Key(), entry, s.ttl); err != nil {
		return shared.WrapIOError("audit", "LogAction", "failed to append audit entry", err)
	}
	if err := s.cache.Publish(ctx, AuditChannel, entry); err != nil {
		return shared.WrapIOError("audit", "LogAction", "failed to publish audit entry", err)
	}
	return nil
}

// Entries reads back the session's audit entries in order.
func (s *AuditStream) Entries(ctx context.Context) ([]shared.AuditEntry, error) {
	raw, err := s.cache.Range(ctx, s.Key(), 0, -1)
	if err != nil {
		return nil, shared.WrapIOError("audit", "Entries", "failed to read audit entries", err)
	}

	entries := make([]shared.AuditEntry, 0, len(raw))
	for i, item := range raw {
		e, err := shared.UnmarshalAuditEntry([]byte(item))
		if err != nil {
			return nil, fmt.Errorf("decode audit entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close closes the underlying client.
func (s *AuditStream) Close() error {
	return s.cache.Close()
}
