package query

import (
	"context"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
)

// GetStudentQuery looks up one student.
type GetStudentQuery struct {
	// StudentID is trimmed and upper-cased before lookup.
	StudentID string
}

// GetStudentHandler handles GetStudentQuery.
type GetStudentHandler struct {
	roster *student.Roster
}

// NewGetStudentHandler creates a new GetStudentHandler.
func NewGetStudentHandler(roster *student.Roster) *GetStudentHandler {
	return &GetStudentHandler{roster: roster}
}

// Handle returns the student view or a NotFound error.
func (h *GetStudentHandler) Handle(ctx context.Context, q GetStudentQuery) (*StudentView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := h.roster.GetStudent(shared.ParseStudentID(q.StudentID).String())
	if err != nil {
		return nil, err
	}

	v := NewStudentView(s)
	return &v, nil
}
