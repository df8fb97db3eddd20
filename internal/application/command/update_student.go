package command

import (
	"context"
	"strings"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE STUDENT COMMAND
// Changes one field of an existing student.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStudentCommand names the student, the field and its new raw value.
type UpdateStudentCommand struct {
	StudentID string `validate:"required" label:"Student ID"`

	// Field is one of student.FieldFirstName, FieldLastName, FieldEmail, FieldAge.
	Field string `validate:"required,oneof=firstname lastname email age" label:"Field"`

	// Value is parsed and validated by the domain.
	Value string
}

// Validate validates the command.
func (c UpdateStudentCommand) Validate() error {
	c.Field = strings.ToLower(strings.TrimSpace(c.Field))
	return validateStruct("UpdateStudent", c)
}

// UpdateStudentResult contains the result of an update.
type UpdateStudentResult struct {
	Outcome

	StudentID string
	Field     string
}

// UpdateStudentHandler handles UpdateStudentCommand.
type UpdateStudentHandler struct {
	mutation
}

// NewUpdateStudentHandler creates a new UpdateStudentHandler.
func NewUpdateStudentHandler(deps Dependencies) *UpdateStudentHandler {
	return &UpdateStudentHandler{mutation: newMutation(deps, "UpdateStudent")}
}

// Handle executes the command.
func (h *UpdateStudentHandler) Handle(ctx context.Context, cmd UpdateStudentCommand) (*UpdateStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := shared.ParseStudentID(cmd.StudentID).String()
	field := strings.ToLower(strings.TrimSpace(cmd.Field))

	if err := h.roster.UpdateStudent(id, field, cmd.Value); err != nil {
		return nil, err
	}

	h.log.Info("student updated", logger.StudentID(id), logger.String("field", field))
	out := h.commit(ctx, shared.ActionUpdateStudent, shared.UpdateStudentDetails(id, field))

	return &UpdateStudentResult{
		Outcome:   out,
		StudentID: id,
		Field:     field,
	}, nil
}
