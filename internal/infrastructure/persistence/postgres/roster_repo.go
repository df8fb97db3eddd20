package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const metaNextSequence = "next_sequence"

// RosterRepository implements student.Store for PostgreSQL.
// Each Save replaces the whole roster inside one transaction.
type RosterRepository struct {
	conn         *Connection
	queryTimeout time.Duration
}

// NewRosterRepository creates a new RosterRepository.
// A zero queryTimeout leaves deadlines to the caller's context.
func NewRosterRepository(conn *Connection, queryTimeout time.Duration) *RosterRepository {
	return &RosterRepository{conn: conn, queryTimeout: queryTimeout}
}

var _ student.Store = (*RosterRepository)(nil)

func (r *RosterRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

// ─────────────────────────────────────────────────────────────────────────────
// Load
// ─────────────────────────────────────────────────────────────────────────────

// Load reads the whole roster. An empty database yields an empty snapshot.
func (r *RosterRepository) Load(ctx context.Context) (student.Snapshot, error) {
	if r.conn.IsClosed() {
		return student.Snapshot{}, shared.WrapIOError("storage", "Load", "failed to load roster", ErrStoreClosed)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var snap student.Snapshot
	err := r.conn.WithTx(ctx, ReadOnlyTxOptions(), func(tx pgx.Tx) error {
		var next int64
		err := tx.QueryRow(ctx,
			"SELECT value FROM roster_meta WHERE key = $1", metaNextSequence,
		).Scan(&next)
		if err != nil && !IsNoRows(err) {
			return fmt.Errorf("failed to read roster metadata: %w", err)
		}
		snap.NextSequence = int(next)

		records, index, err := loadStudents(ctx, tx)
		if err != nil {
			return err
		}
		if err := loadEnrollments(ctx, tx, records, index); err != nil {
			return err
		}
		snap.Students = records
		return nil
	})
	if err != nil {
		return student.Snapshot{}, shared.WrapIOError("storage", "Load", "failed to load roster", err)
	}

	return snap, nil
}

func loadStudents(ctx context.Context, tx pgx.Tx) ([]student.StudentRecord, map[string]int, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, first_name, last_name, email, age
		FROM students
		ORDER BY position
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var records []student.StudentRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec student.StudentRecord
		if err := rows.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.Email, &rec.Age); err != nil {
			return nil, nil, fmt.Errorf("failed to scan student: %w", err)
		}
		rec.Courses = []student.CourseRecord{}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}

	return records, index, rows.Err()
}

func loadEnrollments(ctx context.Context, tx pgx.Tx, records []student.StudentRecord, index map[string]int) error {
	rows, err := tx.Query(ctx, `
		SELECT student_id, code, name, credits, grade
		FROM enrollments
		ORDER BY student_id, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var c student.CourseRecord
		if err := rows.Scan(&id, &c.Code, &c.Name, &c.Credits, &c.Grade); err != nil {
			return fmt.Errorf("failed to scan enrollment: %w", err)
		}
		i, ok := index[id]
		if !ok {
			return fmt.Errorf("enrollment for unknown student %s", id)
		}
		records[i].Courses = append(records[i].Courses, c)
	}

	return rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Save
// ─────────────────────────────────────────────────────────────────────────────

// Save replaces the stored roster with snap. Rows are bulk loaded with COPY.
// A snapshot rejected by a table constraint is a validation error naming the field.
func (r *RosterRepository) Save(ctx context.Context, snap student.Snapshot) error {
	if r.conn.IsClosed() {
		return shared.WrapIOError("storage", "Save", "failed to save roster", ErrStoreClosed)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		// enrollments go with their students via ON DELETE CASCADE
		if _, err := tx.Exec(ctx, "DELETE FROM students"); err != nil {
			return fmt.Errorf("failed to clear students: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO roster_meta (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		`, metaNextSequence, int64(snap.NextSequence)); err != nil {
			return fmt.Errorf("failed to write roster metadata: %w", err)
		}

		studentRows, enrollmentRows := copyRows(snap)

		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"students"},
			[]string{"id", "position", "first_name", "last_name", "email", "age"},
			pgx.CopyFromRows(studentRows),
		); err != nil {
			if cerr := constraintError(err); cerr != nil {
				return cerr
			}
			return fmt.Errorf("failed to copy students: %w", err)
		}

		if len(enrollmentRows) == 0 {
			return nil
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"enrollments"},
			[]string{"student_id", "position", "code", "name", "credits", "grade"},
			pgx.CopyFromRows(enrollmentRows),
		); err != nil {
			if cerr := constraintError(err); cerr != nil {
				return cerr
			}
			return fmt.Errorf("failed to copy enrollments: %w", err)
		}
		return nil
	})
	if shared.IsValidation(err) {
		return err
	}
	if err != nil {
		return shared.WrapIOError("storage", "Save", "failed to save roster", err)
	}

	return nil
}

// ErrStoreClosed is returned by Load and Save after Close.
var ErrStoreClosed = errors.New("postgres: roster store is closed")

// constraintFields maps schema constraints to the snapshot field they guard.
var constraintFields = map[string]string{
	"students_pkey":               "id",
	"students_age_range":          "age",
	"enrollments_pkey":            "code",
	"enrollments_credits_range":   "credits",
	"enrollments_grade_range":     "grade",
	"enrollments_student_id_fkey": "student_id",
}

// constraintError turns a unique, foreign key or check violation into a
// validation error. Other errors yield nil.
func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	var kind error
	switch {
	case IsUniqueViolation(err):
		kind = shared.ErrAlreadyExists
	case IsForeignKeyViolation(err):
		kind = shared.ErrNotFound
	case IsCheckViolation(err):
		kind = shared.ErrValueOutOfRange
	default:
		return nil
	}

	field := constraintFields[pgErr.ConstraintName]
	if field == "" {
		field = pgErr.ColumnName
	}
	if field == "" {
		field = strings.TrimSuffix(pgErr.ConstraintName, "_check")
	}

	return shared.NewValidationError("storage", "Save", field, kind,
		fmt.Sprintf("Invalid value for %s: rejected by %s on %s", field, pgErr.ConstraintName, pgErr.TableName))
}

// Close closes the underlying pool.
func (r *RosterRepository) Close() error {
	r.conn.Close()
	return nil
}

// copyRows flattens a snapshot into COPY rows, keeping list order in position.
func copyRows(snap student.Snapshot) (students, enrollments [][]any) {
	students = make([][]any, 0, len(snap.Students))
	for pos, rec := range snap.Students {
		students = append(students, []any{
			rec.ID, int32(pos), rec.FirstName, rec.LastName, rec.Email, int32(rec.Age),
		})
		for cpos, c := range rec.Courses {
			enrollments = append(enrollments, []any{
				rec.ID, int32(cpos), c.Code, c.Name, int32(c.Credits), c.Grade,
			})
		}
	}
	return students, enrollments
}
