package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// Identity Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentIDPrefix is prepended to every generated student sequence number.
const StudentIDPrefix = "STU"

// FirstStudentSequence is the sequence number of the first generated id.
const FirstStudentSequence = 1001

// StudentID is the roster-assigned identifier of a student, e.g. "STU1001".
type StudentID string

// NewStudentIDFromSequence builds the id for a sequence number.
func NewStudentIDFromSequence(seq int) StudentID {
	return StudentID(fmt.Sprintf("%s%d", StudentIDPrefix, seq))
}

// ParseStudentID normalizes console input: trims spaces and upper-cases.
func ParseStudentID(raw string) StudentID {
	return StudentID(strings.ToUpper(strings.TrimSpace(raw)))
}

// String returns the string representation.
func (s StudentID) String() string {
	return string(s)
}

// IsEmpty returns true if the StudentID is empty.
func (s StudentID) IsEmpty() bool {
	return s == ""
}

// Sequence returns the numeric part of a generated id.
// ok is false for ids that were not produced by the sequence.
func (s StudentID) Sequence() (seq int, ok bool) {
	str := string(s)
	if !strings.HasPrefix(str, StudentIDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(str[len(StudentIDPrefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Less orders ids by sequence: shorter ids first, then lexically.
// For generated ids this is numeric order ("STU999" < "STU1001").
func (s StudentID) Less(other StudentID) bool {
	if len(s) != len(other) {
		return len(s) < len(other)
	}
	return s < other
}

// ═══════════════════════════════════════════════════════════════════════════
// Course Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// CourseCode is a canonical uppercase course code such as "CS101".
type CourseCode string

// NormalizeCourseCode trims and upper-cases raw input.
func NormalizeCourseCode(raw string) CourseCode {
	return CourseCode(strings.ToUpper(strings.TrimSpace(raw)))
}

// String returns the string representation.
func (c CourseCode) String() string {
	return string(c)
}

// Equal compares codes case-insensitively.
func (c CourseCode) Equal(other CourseCode) bool {
	return strings.EqualFold(string(c), string(other))
}
