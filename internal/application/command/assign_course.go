package command

import (
	"context"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGN COURSE COMMAND
// Enrolls a student in a course with a grade. Re-assigning an enrolled
// code is a successful no-op.
// ══════════════════════════════════════════════════════════════════════════════

// AssignCourseCommand contains the enrollment data.
type AssignCourseCommand struct {
	StudentID  string `validate:"required" label:"Student ID"`
	CourseCode string `validate:"required" label:"Course code"`
	CourseName string `validate:"required" label:"Course name"`

	// Credits and Grade ranges are checked by the domain.
	Credits int
	Grade   float64
}

// Validate validates the command.
func (c AssignCourseCommand) Validate() error {
	return validateStruct("AssignCourse", c)
}

// AssignCourseResult contains the result of an enrollment.
type AssignCourseResult struct {
	Outcome

	StudentID  string
	CourseCode string

	// GPA is the student's GPA after the enrollment.
	GPA float64
}

// AssignCourseHandler handles AssignCourseCommand.
type AssignCourseHandler struct {
	mutation
}

// NewAssignCourseHandler creates a new AssignCourseHandler.
func NewAssignCourseHandler(deps Dependencies) *AssignCourseHandler {
	return &AssignCourseHandler{mutation: newMutation(deps, "AssignCourse")}
}

// Handle executes the command.
func (h *AssignCourseHandler) Handle(ctx context.Context, cmd AssignCourseCommand) (*AssignCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := shared.ParseStudentID(cmd.StudentID).String()
	code := shared.NormalizeCourseCode(cmd.CourseCode).String()

	if err := h.roster.AssignCourse(id, code, cmd.CourseName, cmd.Credits, cmd.Grade); err != nil {
		return nil, err
	}

	updated, err := h.roster.GetStudent(id)
	if err != nil {
		return nil, err
	}

	h.log.Info("course assigned", logger.StudentID(id), logger.CourseCode(code))
	out := h.commit(ctx, shared.ActionAssignCourse, shared.CourseDetails(id, code))

	return &AssignCourseResult{
		Outcome:    out,
		StudentID:  id,
		CourseCode: code,
		GPA:        updated.GPA(),
	}, nil
}
