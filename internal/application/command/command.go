// Package command contains write operations (CQRS - Commands).
//
// Every handler follows the same sequence: validate the command, apply it to
// the roster, save the roster, then record the audit entry. Save and audit
// are best-effort: their failures are logged and surfaced in the result,
// the in-memory mutation stands.
package command

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alem-hub/roster/internal/application/persistence"
	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
	"github.com/alem-hub/roster/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Dependencies are shared by all command handlers.
type Dependencies struct {
	Roster *student.Roster
	Store  student.Store
	Audit  student.AuditLogger
	Log    *logger.Logger
}

// Outcome reports the side effects of a successful mutation.
type Outcome struct {
	// SaveErr is set when the roster could not be persisted.
	SaveErr error

	// AuditErr is set when the audit entry could not be written.
	AuditErr error
}

// Saved reports whether the mutation reached storage.
func (o Outcome) Saved() bool { return o.SaveErr == nil }

// mutation carries the collaborators every handler needs.
type mutation struct {
	roster *student.Roster
	store  student.Store
	audit  student.AuditLogger
	log    *logger.Logger
}

func newMutation(deps Dependencies, name string) mutation {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return mutation{
		roster: deps.Roster,
		store:  deps.Store,
		audit:  deps.Audit,
		log:    log.With(logger.Component("command"), logger.Operation(name)),
	}
}

// commit saves the roster and records action. Neither failure is fatal.
func (m mutation) commit(ctx context.Context, action shared.AuditAction, details string) Outcome {
	var out Outcome

	if m.store != nil {
		if err := persistence.SaveRoster(ctx, m.store, m.roster, m.log); err != nil {
			m.log.Warn("save failed, change kept in memory", logger.Err(err))
			out.SaveErr = err
		}
	}

	if m.audit != nil {
		if err := m.audit.LogAction(ctx, action, details); err != nil {
			m.log.Warn("audit failed", logger.Action(action.String()), logger.Err(err))
			out.AuditErr = err
		}
	}

	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// STRUCT VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Field names in messages come from the label tag.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
	return v
}

// validateStruct runs struct tags and converts the first failure into a
// shared validation error with a console-ready message.
func validateStruct(op string, cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return shared.WrapError("command", op, shared.ErrValidation, "invalid command", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return shared.NewValidationError("command", op, fe.Field(), shared.ErrEmptyValue,
			fmt.Sprintf("%s cannot be empty", fe.Field()))
	case "oneof":
		return shared.NewValidationError("command", op, fe.Field(), shared.ErrInvalidInput,
			fmt.Sprintf("Invalid %s: %v", strings.ToLower(fe.Field()), fe.Value()))
	default:
		return shared.NewValidationError("command", op, fe.Field(), shared.ErrInvalidInput,
			fmt.Sprintf("Invalid value for %s: %v", fe.Field(), fe.Value()))
	}
}
