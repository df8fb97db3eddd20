package student

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/roster/internal/domain/shared"
)

func ids(students []*Student) []string {
	out := make([]string, 0, len(students))
	for _, s := range students {
		out = append(out, s.ID())
	}
	return out
}

func TestRoster_CreateThenGet(t *testing.T) {
	r := NewRoster()

	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)
	assert.Equal(t, "STU1001", id)

	s, err := r.GetStudent(id)
	require.NoError(t, err)
	assert.Equal(t, id, s.ID())
	assert.Equal(t, "Ada", s.FirstName())
	assert.Equal(t, "Lovelace", s.LastName())
	assert.Equal(t, "ada@example.com", s.Email())
	assert.Equal(t, 28, s.Age())
	assert.Equal(t, 0.0, s.GPA())
	assert.Empty(t, s.Courses())
}

func TestRoster_ConsecutiveIDs(t *testing.T) {
	r := NewRoster()

	first, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)
	second, err := r.CreateStudent("Alan", "Turing", "alan@example.com", 41)
	require.NoError(t, err)

	assert.Equal(t, "STU1001", first)
	assert.Equal(t, "STU1002", second)
	assert.True(t, shared.StudentID(first).Less(shared.StudentID(second)))
}

func TestRoster_FailedCreateDoesNotStore(t *testing.T) {
	r := NewRoster()

	_, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 0)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, 0, r.TotalStudents())

	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)
	assert.Equal(t, "STU1001", id)
}

func TestRoster_SkipsCollidingIDs(t *testing.T) {
	r := NewRoster()
	taken, err := NewStudent("STU1001", "Out", "Of Band", "oob@example.com", 30)
	require.NoError(t, err)
	r.students[taken.id] = taken

	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)
	assert.Equal(t, "STU1002", id)
	assert.Equal(t, 1003, r.NextSequence())
}

func TestRoster_DeletedIDNotReused(t *testing.T) {
	r := NewRoster()
	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)
	require.True(t, r.DeleteStudent(id))

	next, err := r.CreateStudent("Alan", "Turing", "alan@example.com", 41)
	require.NoError(t, err)
	assert.Equal(t, "STU1002", next)
}

func TestRoster_GetStudentNotFound(t *testing.T) {
	r := NewRoster()

	s, err := r.GetStudent("STU9999")
	assert.Nil(t, s)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Student not found with ID: STU9999", shared.Message(err))
}

func TestRoster_GetStudentReturnsCopy(t *testing.T) {
	r := NewRoster()
	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)

	s, err := r.GetStudent(id)
	require.NoError(t, err)
	require.NoError(t, s.SetFirstName("Grace"))

	stored, err := r.GetStudent(id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.FirstName())
}

func TestRoster_UpdateStudent(t *testing.T) {
	r := NewRoster()
	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)

	require.NoError(t, r.UpdateStudent(id, "FirstName", "Augusta"))
	require.NoError(t, r.UpdateStudent(id, "LASTNAME", "King"))
	require.NoError(t, r.UpdateStudent(id, "email", "king@example.org"))
	require.NoError(t, r.UpdateStudent(id, "Age", " 36 "))

	s, err := r.GetStudent(id)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", s.FirstName())
	assert.Equal(t, "King", s.LastName())
	assert.Equal(t, "king@example.org", s.Email())
	assert.Equal(t, 36, s.Age())
}

func TestRoster_UpdateStudentErrors(t *testing.T) {
	r := NewRoster()
	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)

	err = r.UpdateStudent(id, "age", "abc")
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, "Invalid value for field age: abc", shared.Message(err))

	err = r.UpdateStudent(id, "age", "200")
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)

	err = r.UpdateStudent(id, "nickname", "Countess")
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, "Invalid field: nickname", shared.Message(err))

	err = r.UpdateStudent(id, "email", "broken")
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)

	err = r.UpdateStudent("STU4242", "age", "20")
	assert.True(t, shared.IsNotFound(err))

	s, err := r.GetStudent(id)
	require.NoError(t, err)
	assert.Equal(t, 28, s.Age())
	assert.Equal(t, "ada@example.com", s.Email())
}

func TestRoster_DeleteStudent(t *testing.T) {
	r := NewRoster()
	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)

	assert.True(t, r.DeleteStudent(id))
	_, err = r.GetStudent(id)
	assert.True(t, shared.IsNotFound(err))

	assert.False(t, r.DeleteStudent(id))
	assert.False(t, r.DeleteStudent("STU0000"))
	assert.False(t, r.StudentExists(id))
}

func TestRoster_SearchStudents(t *testing.T) {
	r := NewRoster()
	ada, _ := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	alan, _ := r.CreateStudent("Alan", "Turing", "alan@bletchley.uk", 41)
	grace, _ := r.CreateStudent("Grace", "Hopper", "grace@navy.mil", 85)

	assert.Equal(t, []string{ada}, ids(r.SearchStudents("stu1001")))
	assert.Equal(t, []string{ada, alan}, ids(r.SearchStudents("LA")))
	assert.Equal(t, []string{grace}, ids(r.SearchStudents("NAVY")))
	assert.Equal(t, []string{alan}, ids(r.SearchStudents("turing")))
	assert.Empty(t, r.SearchStudents("nobody"))
}

func TestRoster_AssignCourse(t *testing.T) {
	r := NewRoster()
	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)

	require.NoError(t, r.AssignCourse(id, "cs101", "Intro", 3, 95))
	require.NoError(t, r.AssignCourse(id, "MATH201", "Calculus", 4, 65))

	s, err := r.GetStudent(id)
	require.NoError(t, err)
	assert.Equal(t, 2, s.CourseCount())
	assert.True(t, s.HasCourse("CS101"))
	assert.InDelta(t, 16.0/7.0, s.GPA(), 1e-9)

	// duplicate code is a silent no-op
	require.NoError(t, r.AssignCourse(id, "CS101", "Other", 1, 0))
	s, _ = r.GetStudent(id)
	assert.Equal(t, 2, s.CourseCount())
	assert.InDelta(t, 16.0/7.0, s.GPA(), 1e-9)
}

func TestRoster_AssignCourseErrors(t *testing.T) {
	r := NewRoster()
	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, err)

	err = r.AssignCourse("STU9999", "CS101", "Intro", 3, 95)
	assert.True(t, shared.IsNotFound(err))

	err = r.AssignCourse(id, "CS101", "Intro", 0, 95)
	assert.True(t, shared.IsValidation(err))

	err = r.AssignCourse(id, "CS101", "Intro", 3, 120)
	assert.True(t, shared.IsValidation(err))

	s, _ := r.GetStudent(id)
	assert.Equal(t, 0, s.CourseCount())
}

func TestRoster_RemoveCourse(t *testing.T) {
	r := NewRoster()
	id, _ := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	require.NoError(t, r.AssignCourse(id, "CS101", "Intro", 3, 95))

	require.NoError(t, r.RemoveCourse(id, "BIO100"))
	s, _ := r.GetStudent(id)
	assert.Equal(t, 1, s.CourseCount())

	require.NoError(t, r.RemoveCourse(id, "cs101"))
	s, _ = r.GetStudent(id)
	assert.Equal(t, 0, s.CourseCount())
	assert.Equal(t, 0.0, s.GPA())

	assert.True(t, shared.IsNotFound(r.RemoveCourse("STU9999", "CS101")))
}

func TestRoster_GetAllStudentsIsSnapshot(t *testing.T) {
	r := NewRoster()
	_, _ = r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	_, _ = r.CreateStudent("Alan", "Turing", "alan@example.com", 41)

	all := r.GetAllStudents()
	require.Len(t, all, 2)
	require.NoError(t, all[0].SetFirstName("Changed"))

	again := r.GetAllStudents()
	require.Len(t, again, 2)
	assert.Equal(t, "Ada", again[0].FirstName())
}

func TestRoster_GetStudentsByMinGPABoundary(t *testing.T) {
	r := NewRoster()
	below, _ := r.CreateStudent("Below", "Line", "below@example.com", 20)
	exact, _ := r.CreateStudent("Exact", "Line", "exact@example.com", 20)
	above, _ := r.CreateStudent("Above", "Line", "above@example.com", 20)

	r.students[shared.StudentID(below)].gpa = 2.999
	r.students[shared.StudentID(exact)].gpa = 3.0
	r.students[shared.StudentID(above)].gpa = 3.7

	assert.Equal(t, []string{exact, above}, ids(r.GetStudentsByMinGPA(3.0)))
	assert.Len(t, r.GetStudentsByMinGPA(0), 3)
}

func TestRoster_OrderedByID(t *testing.T) {
	r, err := RestoreRoster(Snapshot{
		Students: []StudentRecord{
			{ID: "STU1001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Age: 28},
			{ID: "STU999", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com", Age: 41},
			{ID: "STU10000", FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Age: 85},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"STU999", "STU1001", "STU10000"}, ids(r.GetAllStudents()))
	assert.Equal(t, 10001, r.NextSequence())
}

func TestRoster_SnapshotRoundTrip(t *testing.T) {
	r := NewRoster()
	ada, _ := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
	_, _ = r.CreateStudent("Alan", "Turing", "alan@example.com", 41)
	require.NoError(t, r.AssignCourse(ada, "CS101", "Intro", 3, 95))
	require.NoError(t, r.AssignCourse(ada, "MATH201", "Calculus", 4, 65))
	require.True(t, r.DeleteStudent("STU1002"))

	snap := r.Snapshot()
	assert.Equal(t, 1003, snap.NextSequence)
	require.Len(t, snap.Students, 1)

	restored, err := RestoreRoster(snap)
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())

	s, err := restored.GetStudent(ada)
	require.NoError(t, err)
	assert.InDelta(t, 16.0/7.0, s.GPA(), 1e-9)

	id, err := restored.CreateStudent("Grace", "Hopper", "grace@example.com", 85)
	require.NoError(t, err)
	assert.Equal(t, "STU1003", id)
}

func TestRestoreRoster_Errors(t *testing.T) {
	_, err := RestoreRoster(Snapshot{Students: []StudentRecord{
		{ID: "STU1001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Age: 500},
	}})
	assert.True(t, shared.IsValidation(err))

	dup := StudentRecord{ID: "STU1001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Age: 28}
	_, err = RestoreRoster(Snapshot{Students: []StudentRecord{dup, dup}})
	assert.True(t, shared.IsAlreadyExists(err))
}

func TestRestoreRoster_EmptySnapshot(t *testing.T) {
	r, err := RestoreRoster(Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, 0, r.TotalStudents())
	assert.Equal(t, shared.FirstStudentSequence, r.NextSequence())
	assert.True(t, Snapshot{}.IsEmpty())
}

func TestRoster_ConcurrentCreateYieldsUniqueIDs(t *testing.T) {
	r := NewRoster()

	const n = 50
	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 28)
			if err == nil {
				results <- id
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for id := range results {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, r.TotalStudents())
}
