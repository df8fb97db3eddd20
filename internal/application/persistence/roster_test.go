package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
)

type fakeStore struct {
	snap     student.Snapshot
	loadErr  error
	saveErrs []error
	saves    int
}

func (f *fakeStore) Load(context.Context) (student.Snapshot, error) {
	return f.snap, f.loadErr
}

func (f *fakeStore) Save(_ context.Context, snap student.Snapshot) error {
	f.saves++
	if len(f.saveErrs) > 0 {
		err := f.saveErrs[0]
		f.saveErrs = f.saveErrs[1:]
		if err != nil {
			return err
		}
	}
	f.snap = snap
	return nil
}

func (f *fakeStore) Close() error { return nil }

func TestLoadRoster_Empty(t *testing.T) {
	r := LoadRoster(context.Background(), &fakeStore{}, nil)
	assert.Equal(t, 0, r.TotalStudents())
	assert.Equal(t, shared.FirstStudentSequence, r.NextSequence())
}

func TestLoadRoster_LoadErrorStartsEmpty(t *testing.T) {
	r := LoadRoster(context.Background(), &fakeStore{loadErr: errors.New("corrupt")}, nil)
	assert.Equal(t, 0, r.TotalStudents())
}

func TestLoadRoster_InvalidSnapshotStartsEmpty(t *testing.T) {
	store := &fakeStore{snap: student.Snapshot{
		NextSequence: 1002,
		Students: []student.StudentRecord{
			{ID: "STU1001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Age: 0},
		},
	}}
	r := LoadRoster(context.Background(), store, nil)
	assert.Equal(t, 0, r.TotalStudents())
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}

	r := student.NewRoster()
	id, err := r.CreateStudent("Ada", "Lovelace", "ada@example.com", 36)
	require.NoError(t, err)
	require.NoError(t, r.AssignCourse(id, "CS101", "Intro", 3, 95))

	require.NoError(t, SaveRoster(ctx, store, r, nil))

	restored := LoadRoster(ctx, store, nil)
	got, err := restored.GetStudent(id)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.GPA())
	assert.Equal(t, r.NextSequence(), restored.NextSequence())
}

func TestSaveRoster_RetriesTransientFailure(t *testing.T) {
	store := &fakeStore{saveErrs: []error{errors.New("database is locked"), nil}}

	require.NoError(t, SaveRoster(context.Background(), store, student.NewRoster(), nil))
	assert.Equal(t, 2, store.saves)
}

func TestSaveRoster_FailureIsIOError(t *testing.T) {
	boom := errors.New("disk full")
	store := &fakeStore{saveErrs: []error{boom, boom, boom}}

	err := SaveRoster(context.Background(), store, student.NewRoster(), nil)
	require.Error(t, err)
	assert.True(t, shared.IsIO(err))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, store.saves)
	assert.Equal(t, "Failed to save data: disk full", shared.Message(err))
}

func TestSaveRoster_RejectedSnapshotIsNotRetried(t *testing.T) {
	rejected := shared.NewValidationError("storage", "Save", "age", shared.ErrValueOutOfRange,
		"Invalid value for age: rejected by students_age_range on students")
	store := &fakeStore{saveErrs: []error{rejected, nil}}

	err := SaveRoster(context.Background(), store, student.NewRoster(), nil)
	require.Error(t, err)
	assert.True(t, shared.IsIO(err))
	assert.True(t, shared.IsValidation(err))
	assert.Equal(t, 1, store.saves)
}
