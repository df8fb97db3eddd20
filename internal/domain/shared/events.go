package shared

import (
	"encoding/json"
	"fmt"
	"time"
)

// AuditAction names a significant thing that happened during a console session.
type AuditAction string

// Audit actions written to the session log and the remote audit stream.
const (
	// Session lifecycle
	ActionSessionStart AuditAction = "SESSION_START"
	ActionSessionEnd   AuditAction = "SESSION_END"

	// Admin gate
	ActionLoginSuccess AuditAction = "LOGIN_SUCCESS"
	ActionLoginFailed  AuditAction = "LOGIN_FAILED"

	// Roster mutations
	ActionCreateStudent AuditAction = "CREATE_STUDENT"
	ActionUpdateStudent AuditAction = "UPDATE_STUDENT"
	ActionDeleteStudent AuditAction = "DELETE_STUDENT"
	ActionAssignCourse  AuditAction = "ASSIGN_COURSE"
	ActionRemoveCourse  AuditAction = "REMOVE_COURSE"
)

// String returns the action name.
func (a AuditAction) String() string {
	return string(a)
}

// IsMutation reports whether the action records a change to roster state.
func (a AuditAction) IsMutation() bool {
	switch a {
	case ActionCreateStudent, ActionUpdateStudent, ActionDeleteStudent,
		ActionAssignCourse, ActionRemoveCourse:
		return true
	default:
		return false
	}
}

// AuditTimeLayout is the timestamp layout used in session log lines.
const AuditTimeLayout = "2006-01-02 15:04:05"

// AuditEntry is one record of the audit trail.
type AuditEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	SessionID string      `json:"session_id"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details"`
}

// NewAuditEntry creates an entry stamped with the current time.
func NewAuditEntry(sessionID string, action AuditAction, details string) AuditEntry {
	return AuditEntry{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Action:    action,
		Details:   details,
	}
}

// Format renders the entry as a single session log line:
//
//	2024-01-02 15:04:05 | <session> | CREATE_STUDENT | id=STU1001, email=a@b.co
func (e AuditEntry) Format() string {
	return fmt.Sprintf("%s | %s | %s | %s",
		e.Timestamp.Format(AuditTimeLayout), e.SessionID, e.Action, e.Details)
}

// MarshalPayload serializes the entry for transport over a remote sink.
func (e AuditEntry) MarshalPayload() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalAuditEntry deserializes an entry produced by MarshalPayload.
func UnmarshalAuditEntry(data []byte) (AuditEntry, error) {
	var e AuditEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return AuditEntry{}, err
	}
	return e, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Detail formatters
// ═══════════════════════════════════════════════════════════════════════════

// CreateStudentDetails formats the details of a CREATE_STUDENT entry.
func CreateStudentDetails(id, email string) string {
	return fmt.Sprintf("id=%s, email=%s", id, email)
}

// UpdateStudentDetails formats the details of an UPDATE_STUDENT entry.
func UpdateStudentDetails(id, field string) string {
	return fmt.Sprintf("id=%s, field=%s", id, field)
}

// DeleteStudentDetails formats the details of a DELETE_STUDENT entry.
func DeleteStudentDetails(id string) string {
	return fmt.Sprintf("id=%s", id)
}

// CourseDetails formats the details of ASSIGN_COURSE and REMOVE_COURSE entries.
func CourseDetails(id, code string) string {
	return fmt.Sprintf("id=%s, course=%s", id, code)
}

// UsernameDetails formats the details of session and login entries.
func UsernameDetails(username string) string {
	return fmt.Sprintf("username=%s", username)
}
