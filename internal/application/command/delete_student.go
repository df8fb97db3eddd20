package command

import (
	"context"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteStudentCommand identifies the student to remove.
type DeleteStudentCommand struct {
	StudentID string `validate:"required" label:"Student ID"`
}

// Validate validates the command.
func (c DeleteStudentCommand) Validate() error {
	return validateStruct("DeleteStudent", c)
}

// DeleteStudentResult contains the result of a deletion.
type DeleteStudentResult struct {
	Outcome

	StudentID string
}

// DeleteStudentHandler handles DeleteStudentCommand.
type DeleteStudentHandler struct {
	mutation
}

// NewDeleteStudentHandler creates a new DeleteStudentHandler.
func NewDeleteStudentHandler(deps Dependencies) *DeleteStudentHandler {
	return &DeleteStudentHandler{mutation: newMutation(deps, "DeleteStudent")}
}

// Handle executes the command. An unknown id is a NotFound error.
func (h *DeleteStudentHandler) Handle(ctx context.Context, cmd DeleteStudentCommand) (*DeleteStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id := shared.ParseStudentID(cmd.StudentID).String()
	if !h.roster.DeleteStudent(id) {
		return nil, shared.NewNotFoundError("Student", "DeleteStudent", id)
	}

	h.log.Info("student deleted", logger.StudentID(id))
	out := h.commit(ctx, shared.ActionDeleteStudent, shared.DeleteStudentDetails(id))

	return &DeleteStudentResult{Outcome: out, StudentID: id}, nil
}
