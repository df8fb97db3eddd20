// Package audit implements the audit trail sinks: a per-session log file,
// a circuit-breaker guard for remote sinks and a fan-out that never fails
// the caller.
package audit

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
	"github.com/alem-hub/roster/pkg/timeutil"
)

// SessionLog writes one file per console session:
//
//	<dir>/session-<yyyyMMddHHmmss>-<uuid>.log
//
// Every line is "<timestamp> | <session> | <ACTION> | <details>".
type SessionLog struct {
	mu       sync.Mutex
	id       string
	username string
	path     string
	file     *os.File
	w        *bufio.Writer
	clock    timeutil.Clock
	closed   bool
}

var _ student.AuditLogger = (*SessionLog)(nil)

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}

// OpenSessionLog creates the session file under dir and writes SESSION_START.
// An empty sessionID gets a fresh uuid.
func OpenSessionLog(dir, sessionID, username string, clock timeutil.Clock) (*SessionLog, error) {
	clock = clock.OrSystem()
	if sessionID == "" {
		sessionID = NewSessionID()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, shared.WrapIOError("audit", "OpenSessionLog", "failed to create sessions directory", err)
	}

	name := fmt.Sprintf("session-%s-%s.log", timeutil.FileStamp(clock()), sessionID)
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, shared.WrapIOError("audit", "OpenSessionLog", "failed to open session log", err)
	}

	s := &SessionLog{
		id:       sessionID,
		username: username,
		path:     path,
		file:     f,
		w:        bufio.NewWriter(f),
		clock:    clock,
	}
	if err := s.write(shared.ActionSessionStart, shared.UsernameDetails(username)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

// ID returns the session id.
func (s *SessionLog) ID() string { return s.id }

// Path returns the session file path.
func (s *SessionLog) Path() string { return s.path }

// LogAction appends one line and flushes it.
func (s *SessionLog) LogAction(ctx context.Context, action shared.AuditAction, details string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(action, details)
}

func (s *SessionLog) write(action shared.AuditAction, details string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return shared.WrapIOError("audit", "LogAction", "session log is closed", os.ErrClosed)
	}

	entry := shared.AuditEntry{
		Timestamp: s.clock(),
		SessionID: s.id,
		Action:    action,
		Details:   details,
	}
	if _, err := s.w.WriteString(entry.Format() + "\n"); err != nil {
		return shared.WrapIOError("audit", "LogAction", "failed to write session log", err)
	}
	if err := s.w.Flush(); err != nil {
		return shared.WrapIOError("audit", "LogAction", "failed to flush session log", err)
	}
	return nil
}

// Close writes SESSION_END and closes the file. Calling Close twice is a no-op.
func (s *SessionLog) Close() error {
	if s == nil {
		return nil
	}
	endErr := s.write(shared.ActionSessionEnd, shared.UsernameDetails(s.username))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.file.Close(); err != nil {
		return shared.WrapIOError("audit", "Close", "failed to close session log", err)
	}
	return endErr
}
