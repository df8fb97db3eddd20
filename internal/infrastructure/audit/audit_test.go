package audit

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/pkg/circuitbreaker"
	"github.com/alem-hub/roster/pkg/logger"
	"github.com/alem-hub/roster/pkg/timeutil"
)

var fixedTime = time.Date(2026, 3, 1, 9, 30, 5, 0, time.Local)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// ─────────────────────────────────────────────────────────────────────────────
// SessionLog
// ─────────────────────────────────────────────────────────────────────────────

func TestSessionLog_Lifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	s, err := OpenSessionLog(dir, "abc-123", "admin", timeutil.FixedClock(fixedTime))
	require.NoError(t, err)

	assert.Equal(t, "abc-123", s.ID())
	assert.Equal(t, filepath.Join(dir, "session-20260301093005-abc-123.log"), s.Path())

	ctx := context.Background()
	require.NoError(t, s.LogAction(ctx, shared.ActionLoginSuccess, shared.UsernameDetails("admin")))
	require.NoError(t, s.LogAction(ctx, shared.ActionCreateStudent, shared.CreateStudentDetails("STU1001", "ada@example.com")))
	require.NoError(t, s.Close())

	lines := readLines(t, s.Path())
	require.Len(t, lines, 4)
	assert.Equal(t, "2026-03-01 09:30:05 | abc-123 | SESSION_START | username=admin", lines[0])
	assert.Equal(t, "2026-03-01 09:30:05 | abc-123 | LOGIN_SUCCESS | username=admin", lines[1])
	assert.Equal(t, "2026-03-01 09:30:05 | abc-123 | CREATE_STUDENT | id=STU1001, email=ada@example.com", lines[2])
	assert.Equal(t, "2026-03-01 09:30:05 | abc-123 | SESSION_END | username=admin", lines[3])
}

func TestSessionLog_GeneratesID(t *testing.T) {
	s, err := OpenSessionLog(t.TempDir(), "", "admin", nil)
	require.NoError(t, err)
	defer s.Close()

	assert.Len(t, s.ID(), 36)
	assert.Contains(t, filepath.Base(s.Path()), s.ID())
}

func TestSessionLog_WriteAfterClose(t *testing.T) {
	s, err := OpenSessionLog(t.TempDir(), "x", "admin", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.LogAction(context.Background(), shared.ActionDeleteStudent, "id=STU1001")
	require.Error(t, err)
	assert.True(t, shared.IsIO(err))

	assert.NoError(t, s.Close())
	assert.Len(t, readLines(t, s.Path()), 2)
}

func TestSessionLog_UnwritableDir(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := OpenSessionLog(filepath.Join(blocker, "sessions"), "", "admin", nil)
	require.Error(t, err)
	assert.True(t, shared.IsIO(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Guarded / Fanout
// ─────────────────────────────────────────────────────────────────────────────

type recordingSink struct {
	err     error
	calls   int
	actions []shared.AuditAction
}

func (r *recordingSink) LogAction(_ context.Context, action shared.AuditAction, _ string) error {
	r.calls++
	r.actions = append(r.actions, action)
	return r.err
}

func TestGuarded_OpensAfterThreshold(t *testing.T) {
	sink := &recordingSink{err: errors.New("connection refused")}
	g := NewGuarded(sink, circuitbreaker.AuditSinkBreaker("redis", 2, time.Minute, nil))
	ctx := context.Background()

	assert.Error(t, g.LogAction(ctx, shared.ActionCreateStudent, ""))
	assert.Error(t, g.LogAction(ctx, shared.ActionCreateStudent, ""))
	assert.Equal(t, circuitbreaker.StateOpen, g.State())

	err := g.LogAction(ctx, shared.ActionCreateStudent, "")
	require.Error(t, err)
	assert.True(t, shared.IsIO(err))
	assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, 2, sink.calls)
}

func TestGuarded_PassesThrough(t *testing.T) {
	sink := &recordingSink{}
	g := NewGuarded(sink, circuitbreaker.AuditSinkBreaker("redis", 2, time.Minute, nil))

	require.NoError(t, g.LogAction(context.Background(), shared.ActionAssignCourse, "id=STU1001, course=CS101"))
	assert.Equal(t, []shared.AuditAction{shared.ActionAssignCourse}, sink.actions)
	assert.Equal(t, circuitbreaker.StateClosed, g.State())
}

func TestFanout_SwallowsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Output: &buf, Level: logger.LevelDebug})

	ok := &recordingSink{}
	bad := &recordingSink{err: errors.New("disk full")}

	f := NewFanout(log)
	f.Add("bad", bad)
	f.Add("ok", ok)
	f.Add("nil", nil)
	assert.Equal(t, 2, f.Len())

	require.NoError(t, f.LogAction(context.Background(), shared.ActionRemoveCourse, "id=STU1001, course=CS101"))
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, bad.calls)
	assert.Contains(t, buf.String(), "audit sink failed")
	assert.Contains(t, buf.String(), "disk full")
}

func TestFanout_LateSinkSeesLaterActionsOnly(t *testing.T) {
	early := &recordingSink{}
	late := &recordingSink{}
	f := NewFanout(nil)
	ctx := context.Background()

	f.Add("early", early)
	_ = f.LogAction(ctx, shared.ActionLoginFailed, "username=root")
	f.Add("late", late)
	_ = f.LogAction(ctx, shared.ActionLoginSuccess, "username=admin")

	assert.Equal(t, []shared.AuditAction{shared.ActionLoginFailed, shared.ActionLoginSuccess}, early.actions)
	assert.Equal(t, []shared.AuditAction{shared.ActionLoginSuccess}, late.actions)
}

func TestLogSink_Levels(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSink(logger.New(logger.Options{Output: &buf, Level: logger.LevelWarn}))
	ctx := context.Background()

	require.NoError(t, s.LogAction(ctx, shared.ActionLoginSuccess, "username=admin"))
	assert.Empty(t, buf.String())

	require.NoError(t, s.LogAction(ctx, shared.ActionLoginFailed, "username=root"))
	assert.Contains(t, buf.String(), "LOGIN_FAILED")
}
