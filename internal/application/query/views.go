// Package query contains read operations (CQRS - Queries).
// Handlers return flat views so the console never holds live roster state.
package query

import (
	"github.com/alem-hub/roster/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEWS
// ══════════════════════════════════════════════════════════════════════════════

// CourseView is a read-only course enrollment.
type CourseView struct {
	Code    string
	Name    string
	Credits int
	Grade   float64

	// Letter is the letter grade, e.g. "B".
	Letter string

	// Points is the grade point (4.0 - 0.0).
	Points float64
}

// StudentView is a read-only student.
type StudentView struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Age       int
	GPA       float64
	Courses   []CourseView
}

// FullName returns "First Last".
func (v StudentView) FullName() string {
	return v.FirstName + " " + v.LastName
}

// HasCourses reports whether the student is enrolled anywhere.
func (v StudentView) HasCourses() bool {
	return len(v.Courses) > 0
}

// NewStudentView builds a view from a student copy.
func NewStudentView(s *student.Student) StudentView {
	courses := s.Courses()
	views := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, CourseView{
			Code:    c.Code(),
			Name:    c.Name(),
			Credits: c.Credits(),
			Grade:   c.Grade(),
			Letter:  c.LetterGrade().String(),
			Points:  c.GradePoint(),
		})
	}

	return StudentView{
		ID:        s.ID(),
		FirstName: s.FirstName(),
		LastName:  s.LastName(),
		Email:     s.Email(),
		Age:       s.Age(),
		GPA:       s.GPA(),
		Courses:   views,
	}
}

func viewsOf(students []*student.Student) []StudentView {
	out := make([]StudentView, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentView(s))
	}
	return out
}
