package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE ROSTER
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Roster-wide counters (next student sequence)
CREATE TABLE IF NOT EXISTS roster_meta (
    key   VARCHAR(64) PRIMARY KEY,
    value BIGINT NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

-- Students
CREATE TABLE IF NOT EXISTS students (
    id         VARCHAR(32) PRIMARY KEY,
    position   INTEGER NOT NULL,
    first_name VARCHAR(255) NOT NULL,
    last_name  VARCHAR(255) NOT NULL,
    email      VARCHAR(320) NOT NULL,
    age        INTEGER NOT NULL,

    CONSTRAINT students_age_range CHECK (age BETWEEN 1 AND 149)
);

CREATE INDEX IF NOT EXISTS idx_students_position ON students(position);
CREATE INDEX IF NOT EXISTS idx_students_email ON students(LOWER(email));

-- Course enrollments, ordered per student
CREATE TABLE IF NOT EXISTS enrollments (
    student_id VARCHAR(32) NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    code       VARCHAR(16) NOT NULL,
    name       VARCHAR(255) NOT NULL,
    credits    INTEGER NOT NULL,
    grade      DOUBLE PRECISION NOT NULL,

    PRIMARY KEY (student_id, code),
    CONSTRAINT enrollments_credits_range CHECK (credits BETWEEN 1 AND 10),
    CONSTRAINT enrollments_grade_range CHECK (grade BETWEEN 0 AND 100)
);

CREATE INDEX IF NOT EXISTS idx_enrollments_student_position ON enrollments(student_id, position);
`

const migration001Down = `
DROP TABLE IF EXISTS enrollments;
DROP TABLE IF EXISTS students;
DROP TABLE IF EXISTS roster_meta;
`
