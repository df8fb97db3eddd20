package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type memStore struct {
	last    student.Snapshot
	saves   int
	failing bool
}

func (m *memStore) Load(context.Context) (student.Snapshot, error) { return m.last, nil }

func (m *memStore) Save(_ context.Context, snap student.Snapshot) error {
	m.saves++
	if m.failing {
		return errors.New("read-only file system")
	}
	m.last = snap
	return nil
}

func (m *memStore) Close() error { return nil }

type auditEntry struct {
	action  shared.AuditAction
	details string
}

type memAudit struct {
	entries []auditEntry
	err     error
}

func (m *memAudit) LogAction(_ context.Context, action shared.AuditAction, details string) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, auditEntry{action, details})
	return nil
}

type fixture struct {
	roster *student.Roster
	store  *memStore
	audit  *memAudit
	deps   Dependencies
}

func newFixture() *fixture {
	f := &fixture{
		roster: student.NewRoster(),
		store:  &memStore{},
		audit:  &memAudit{},
	}
	f.deps = Dependencies{Roster: f.roster, Store: f.store, Audit: f.audit}
	return f
}

func (f *fixture) create(t *testing.T, first, last, email string, age int) string {
	t.Helper()
	res, err := NewCreateStudentHandler(f.deps).Handle(context.Background(), CreateStudentCommand{
		FirstName: first, LastName: last, Email: email, Age: age,
	})
	require.NoError(t, err)
	return res.StudentID
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateStudent(t *testing.T) {
	f := newFixture()

	res, err := NewCreateStudentHandler(f.deps).Handle(context.Background(), CreateStudentCommand{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Age: 36,
	})
	require.NoError(t, err)

	assert.Equal(t, "STU1001", res.StudentID)
	assert.Equal(t, "Ada Lovelace", res.Student.FullName())
	assert.True(t, res.Saved())
	assert.NoError(t, res.AuditErr)

	assert.Equal(t, 1, f.store.saves)
	require.Len(t, f.store.last.Students, 1)
	assert.Equal(t, 1002, f.store.last.NextSequence)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, shared.ActionCreateStudent, f.audit.entries[0].action)
	assert.Equal(t, "id=STU1001, email=ada@example.com", f.audit.entries[0].details)
}

func TestCreateStudent_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     CreateStudentCommand
		message string
	}{
		{"empty first name", CreateStudentCommand{LastName: "L", Email: "a@b.co", Age: 20}, "First name cannot be empty"},
		{"empty last name", CreateStudentCommand{FirstName: "F", Email: "a@b.co", Age: 20}, "Last name cannot be empty"},
		{"empty email", CreateStudentCommand{FirstName: "F", LastName: "L", Age: 20}, "Email cannot be empty"},
		{"bad email", CreateStudentCommand{FirstName: "F", LastName: "L", Email: "nope", Age: 20}, "Invalid email format: nope"},
		{"bad age", CreateStudentCommand{FirstName: "F", LastName: "L", Email: "a@b.co", Age: 150}, "Age must be between 1 and 149"},
		{"digits in name", CreateStudentCommand{FirstName: "F1", LastName: "L", Email: "a@b.co", Age: 20}, "First name must contain only letters and spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := NewCreateStudentHandler(f.deps).Handle(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
			assert.Equal(t, tt.message, shared.Message(err))

			assert.Zero(t, f.store.saves)
			assert.Empty(t, f.audit.entries)
			assert.Equal(t, 0, f.roster.TotalStudents())
		})
	}
}

func TestCreateStudent_SaveFailureKeepsStudent(t *testing.T) {
	f := newFixture()
	f.store.failing = true

	res, err := NewCreateStudentHandler(f.deps).Handle(context.Background(), CreateStudentCommand{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Age: 36,
	})
	require.NoError(t, err)

	assert.False(t, res.Saved())
	assert.True(t, shared.IsIO(res.SaveErr))
	assert.True(t, f.roster.StudentExists(res.StudentID))
	assert.Len(t, f.audit.entries, 1)
}

func TestCreateStudent_AuditFailureIsReported(t *testing.T) {
	f := newFixture()
	f.audit.err = errors.New("sink down")

	res, err := NewCreateStudentHandler(f.deps).Handle(context.Background(), CreateStudentCommand{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Age: 36,
	})
	require.NoError(t, err)
	assert.True(t, res.Saved())
	assert.Error(t, res.AuditErr)
	assert.Equal(t, 1, f.roster.TotalStudents())
}

func TestCreateStudent_NoStoreNoAudit(t *testing.T) {
	r := student.NewRoster()
	res, err := NewCreateStudentHandler(Dependencies{Roster: r}).Handle(context.Background(), CreateStudentCommand{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Age: 36,
	})
	require.NoError(t, err)
	assert.True(t, res.Saved())
	assert.Equal(t, 1, r.TotalStudents())
}

// ─────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdateStudent(t *testing.T) {
	f := newFixture()
	id := f.create(t, "Ada", "Lovelace", "ada@example.com", 36)
	h := NewUpdateStudentHandler(f.deps)

	res, err := h.Handle(context.Background(), UpdateStudentCommand{StudentID: " stu1001 ", Field: "Email", Value: "ada@math.org"})
	require.NoError(t, err)
	assert.Equal(t, id, res.StudentID)
	assert.Equal(t, "email", res.Field)

	s, err := f.roster.GetStudent(id)
	require.NoError(t, err)
	assert.Equal(t, "ada@math.org", s.Email())

	last := f.audit.entries[len(f.audit.entries)-1]
	assert.Equal(t, shared.ActionUpdateStudent, last.action)
	assert.Equal(t, "id=STU1001, field=email", last.details)
}

func TestUpdateStudent_Errors(t *testing.T) {
	f := newFixture()
	f.create(t, "Ada", "Lovelace", "ada@example.com", 36)
	h := NewUpdateStudentHandler(f.deps)
	ctx := context.Background()

	_, err := h.Handle(ctx, UpdateStudentCommand{StudentID: "STU1001", Field: "gpa", Value: "4"})
	require.Error(t, err)
	assert.Equal(t, "Invalid field: gpa", shared.Message(err))

	_, err = h.Handle(ctx, UpdateStudentCommand{StudentID: "STU1001", Field: "age", Value: "old"})
	require.Error(t, err)
	assert.Equal(t, "Invalid value for field age: old", shared.Message(err))

	_, err = h.Handle(ctx, UpdateStudentCommand{StudentID: "STU9999", Field: "age", Value: "20"})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Student not found with ID: STU9999", shared.Message(err))

	_, err = h.Handle(ctx, UpdateStudentCommand{Field: "age", Value: "20"})
	require.Error(t, err)
	assert.Equal(t, "Student ID cannot be empty", shared.Message(err))

	// only the create was audited
	assert.Len(t, f.audit.entries, 1)
}

func TestDeleteStudent(t *testing.T) {
	f := newFixture()
	id := f.create(t, "Ada", "Lovelace", "ada@example.com", 36)
	h := NewDeleteStudentHandler(f.deps)

	res, err := h.Handle(context.Background(), DeleteStudentCommand{StudentID: "stu1001"})
	require.NoError(t, err)
	assert.Equal(t, id, res.StudentID)
	assert.False(t, f.roster.StudentExists(id))
	assert.Empty(t, f.store.last.Students)
	assert.Equal(t, "id=STU1001", f.audit.entries[1].details)

	_, err = h.Handle(context.Background(), DeleteStudentCommand{StudentID: id})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

func TestAssignCourse(t *testing.T) {
	f := newFixture()
	id := f.create(t, "Ada", "Lovelace", "ada@example.com", 36)
	h := NewAssignCourseHandler(f.deps)
	ctx := context.Background()

	res, err := h.Handle(ctx, AssignCourseCommand{StudentID: id, CourseCode: "cs101", CourseName: "Intro", Credits: 3, Grade: 95})
	require.NoError(t, err)
	assert.Equal(t, "CS101", res.CourseCode)
	assert.Equal(t, 4.0, res.GPA)

	res, err = h.Handle(ctx, AssignCourseCommand{StudentID: id, CourseCode: "MA201", CourseName: "Calculus", Credits: 4, Grade: 65})
	require.NoError(t, err)
	assert.InDelta(t, 16.0/7.0, res.GPA, 1e-9)

	last := f.audit.entries[len(f.audit.entries)-1]
	assert.Equal(t, shared.ActionAssignCourse, last.action)
	assert.Equal(t, "id=STU1001, course=MA201", last.details)
	assert.Len(t, f.store.last.Students[0].Courses, 2)
}

func TestAssignCourse_Errors(t *testing.T) {
	f := newFixture()
	id := f.create(t, "Ada", "Lovelace", "ada@example.com", 36)
	h := NewAssignCourseHandler(f.deps)
	ctx := context.Background()

	tests := []struct {
		name    string
		cmd     AssignCourseCommand
		message string
	}{
		{"missing name", AssignCourseCommand{StudentID: id, CourseCode: "CS101", Credits: 3, Grade: 90}, "Course name cannot be empty"},
		{"bad code", AssignCourseCommand{StudentID: id, CourseCode: "C1", CourseName: "X", Credits: 3, Grade: 90}, `Invalid course code: "C1" (expected 2-4 letters followed by 3 digits, e.g. CS101)`},
		{"credits", AssignCourseCommand{StudentID: id, CourseCode: "CS101", CourseName: "X", Credits: 11, Grade: 90}, "Credits must be between 1 and 10"},
		{"grade", AssignCourseCommand{StudentID: id, CourseCode: "CS101", CourseName: "X", Credits: 3, Grade: 101}, "Grade must be between 0 and 100"},
		{"unknown student", AssignCourseCommand{StudentID: "STU2000", CourseCode: "CS101", CourseName: "X", Credits: 3, Grade: 90}, "Student not found with ID: STU2000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(ctx, tt.cmd)
			require.Error(t, err)
			assert.Equal(t, tt.message, shared.Message(err))
		})
	}
	assert.Len(t, f.audit.entries, 1)
}

func TestRemoveCourse(t *testing.T) {
	f := newFixture()
	id := f.create(t, "Ada", "Lovelace", "ada@example.com", 36)
	ctx := context.Background()

	_, err := NewAssignCourseHandler(f.deps).Handle(ctx, AssignCourseCommand{StudentID: id, CourseCode: "CS101", CourseName: "Intro", Credits: 3, Grade: 95})
	require.NoError(t, err)

	h := NewRemoveCourseHandler(f.deps)
	res, err := h.Handle(ctx, RemoveCourseCommand{StudentID: id, CourseCode: "cs101"})
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Equal(t, 0.0, res.GPA)
	assert.Equal(t, "id=STU1001, course=CS101", f.audit.entries[len(f.audit.entries)-1].details)

	res, err = h.Handle(ctx, RemoveCourseCommand{StudentID: id, CourseCode: "CS101"})
	require.NoError(t, err)
	assert.False(t, res.Removed)

	_, err = h.Handle(ctx, RemoveCourseCommand{StudentID: "STU4242", CourseCode: "CS101"})
	assert.True(t, shared.IsNotFound(err))
}
