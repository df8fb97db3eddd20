// Package sqlite provides the default SQLite-backed roster store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
	"github.com/alem-hub/roster/pkg/logger"
)

const metaNextSequence = "next_sequence"

// Store persists roster snapshots in a single SQLite file.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string, log *logger.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer; keeps pragmas and WAL behaviour predictable.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(ctx, db, GetMigrations()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		db:  db,
		log: log.With(logger.Component("sqlite_store"), logger.String("path", cleanPath)),
	}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads the stored snapshot. An empty database yields an empty snapshot.
func (s *Store) Load(ctx context.Context) (student.Snapshot, error) {
	var snap student.Snapshot

	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM roster_meta WHERE key = ?", metaNextSequence,
	).Scan(&snap.NextSequence)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return student.Snapshot{}, shared.WrapIOError("storage", "Load", "failed to read roster metadata", err)
	}

	records, index, err := s.loadStudents(ctx)
	if err != nil {
		return student.Snapshot{}, shared.WrapIOError("storage", "Load", "failed to read students", err)
	}
	if err := s.loadEnrollments(ctx, records, index); err != nil {
		return student.Snapshot{}, shared.WrapIOError("storage", "Load", "failed to read enrollments", err)
	}

	snap.Students = records
	s.log.Debug("roster loaded", logger.Int("students", len(records)))
	return snap, nil
}

func (s *Store) loadStudents(ctx context.Context) ([]student.StudentRecord, map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, age
		FROM students
		ORDER BY position`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var records []student.StudentRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec student.StudentRecord
		if err := rows.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.Email, &rec.Age); err != nil {
			return nil, nil, err
		}
		rec.Courses = []student.CourseRecord{}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	return records, index, rows.Err()
}

func (s *Store) loadEnrollments(ctx context.Context, records []student.StudentRecord, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT student_id, code, name, credits, grade
		FROM enrollments
		ORDER BY student_id, position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var c student.CourseRecord
		if err := rows.Scan(&id, &c.Code, &c.Name, &c.Credits, &c.Grade); err != nil {
			return err
		}
		i, ok := index[id]
		if !ok {
			return fmt.Errorf("enrollment for unknown student %s", id)
		}
		records[i].Courses = append(records[i].Courses, c)
	}
	return rows.Err()
}

// Save replaces the stored state with snap in one transaction.
// On failure the previous state is left intact.
func (s *Store) Save(ctx context.Context, snap student.Snapshot) error {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM enrollments"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM students"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roster_meta (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			metaNextSequence, snap.NextSequence); err != nil {
			return err
		}

		insStudent, err := tx.PrepareContext(ctx, `
			INSERT INTO students (id, position, first_name, last_name, email, age)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insStudent.Close()

		insCourse, err := tx.PrepareContext(ctx, `
			INSERT INTO enrollments (student_id, position, code, name, credits, grade)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insCourse.Close()

		for pos, rec := range snap.Students {
			if _, err := insStudent.ExecContext(ctx,
				rec.ID, pos, rec.FirstName, rec.LastName, rec.Email, rec.Age); err != nil {
				return fmt.Errorf("insert student %s: %w", rec.ID, err)
			}
			for cpos, c := range rec.Courses {
				if _, err := insCourse.ExecContext(ctx,
					rec.ID, cpos, c.Code, c.Name, c.Credits, c.Grade); err != nil {
					return fmt.Errorf("insert enrollment %s/%s: %w", rec.ID, c.Code, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return shared.WrapIOError("storage", "Save", "failed to save roster", err)
	}

	s.log.Debug("roster saved", logger.Int("students", len(snap.Students)))
	return nil
}
