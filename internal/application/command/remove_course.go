package command

import (
	"context"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE COURSE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RemoveCourseCommand identifies the enrollment to drop.
type RemoveCourseCommand struct {
	StudentID  string `validate:"required" label:"Student ID"`
	CourseCode string `validate:"required" label:"Course code"`
}

// Validate validates the command.
func (c RemoveCourseCommand) Validate() error {
	return validateStruct("RemoveCourse", c)
}

// RemoveCourseResult contains the result of dropping a course.
type RemoveCourseResult struct {
	Outcome

	StudentID  string
	CourseCode string

	// Removed is false when the student was not enrolled in the course.
	Removed bool

	GPA float64
}

// RemoveCourseHandler handles RemoveCourseCommand.
type RemoveCourseHandler struct {
	mutation
}

// NewRemoveCourseHandler creates a new RemoveCourseHandler.
func NewRemoveCourseHandler(deps Dependencies) *RemoveCourseHandler {
	return &RemoveCourseHandler{mutation: newMutation(deps, "RemoveCourse")}
}

// Handle executes the command. Dropping a course the student does not take
// still succeeds and is still saved and audited.
func (h *RemoveCourseHandler) Handle(ctx context.Context, cmd RemoveCourseCommand) (*RemoveCourseResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := shared.ParseStudentID(cmd.StudentID).String()
	code := shared.NormalizeCourseCode(cmd.CourseCode).String()

	before, err := h.roster.GetStudent(id)
	if err != nil {
		return nil, err
	}
	enrolled := before.HasCourse(code)

	if err := h.roster.RemoveCourse(id, code); err != nil {
		return nil, err
	}

	after, err := h.roster.GetStudent(id)
	if err != nil {
		return nil, err
	}

	h.log.Info("course removed", logger.StudentID(id), logger.CourseCode(code), logger.Bool("enrolled", enrolled))
	out := h.commit(ctx, shared.ActionRemoveCourse, shared.CourseDetails(id, code))

	return &RemoveCourseResult{
		Outcome:    out,
		StudentID:  id,
		CourseCode: code,
		Removed:    enrolled,
		GPA:        after.GPA(),
	}, nil
}
