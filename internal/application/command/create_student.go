package command

import (
	"context"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
	"github.com/alem-hub/roster/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE STUDENT COMMAND
// Registers a new student and assigns the next STU id.
// ══════════════════════════════════════════════════════════════════════════════

// CreateStudentCommand contains the data for a new student.
type CreateStudentCommand struct {
	FirstName string `validate:"required" label:"First name"`
	LastName  string `validate:"required" label:"Last name"`
	Email     string `validate:"required" label:"Email"`

	// Age range is checked by the domain.
	Age int
}

// Validate validates the command.
func (c CreateStudentCommand) Validate() error {
	return validateStruct("CreateStudent", c)
}

// CreateStudentResult contains the result of creating a student.
type CreateStudentResult struct {
	Outcome

	// StudentID is the generated id.
	StudentID string

	// Student is a copy of the stored student.
	Student *student.Student
}

// CreateStudentHandler handles CreateStudentCommand.
type CreateStudentHandler struct {
	mutation
}

// NewCreateStudentHandler creates a new CreateStudentHandler.
func NewCreateStudentHandler(deps Dependencies) *CreateStudentHandler {
	return &CreateStudentHandler{mutation: newMutation(deps, "CreateStudent")}
}

// Handle executes the command.
func (h *CreateStudentHandler) Handle(ctx context.Context, cmd CreateStudentCommand) (*CreateStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	id, err := h.roster.CreateStudent(cmd.FirstName, cmd.LastName, cmd.Email, cmd.Age)
	if err != nil {
		return nil, err
	}

	created, err := h.roster.GetStudent(id)
	if err != nil {
		return nil, err
	}

	h.log.Info("student created", logger.StudentID(id))
	out := h.commit(ctx, shared.ActionCreateStudent, shared.CreateStudentDetails(id, created.Email()))

	return &CreateStudentResult{
		Outcome:   out,
		StudentID: id,
		Student:   created,
	}, nil
}
