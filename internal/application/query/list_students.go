package query

import (
	"context"
	"strings"

	"github.com/alem-hub/roster/internal/domain/shared"
	"github.com/alem-hub/roster/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST / SEARCH
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsResult holds students ordered by id.
type ListStudentsResult struct {
	Students []StudentView
	Total    int
}

// ListStudentsHandler returns every student.
type ListStudentsHandler struct {
	roster *student.Roster
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(roster *student.Roster) *ListStudentsHandler {
	return &ListStudentsHandler{roster: roster}
}

// Handle executes the query.
func (h *ListStudentsHandler) Handle(ctx context.Context) (*ListStudentsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	views := viewsOf(h.roster.GetAllStudents())
	return &ListStudentsResult{Students: views, Total: len(views)}, nil
}

// SearchStudentsQuery is a case-insensitive substring match over id, names and email.
type SearchStudentsQuery struct {
	Term string
}

// SearchStudentsResult holds the matches.
type SearchStudentsResult struct {
	Term     string
	Students []StudentView
}

// SearchStudentsHandler handles SearchStudentsQuery.
type SearchStudentsHandler struct {
	roster *student.Roster
}

// NewSearchStudentsHandler creates a new SearchStudentsHandler.
func NewSearchStudentsHandler(roster *student.Roster) *SearchStudentsHandler {
	return &SearchStudentsHandler{roster: roster}
}

// Handle rejects a blank term; the roster itself would match everyone.
func (h *SearchStudentsHandler) Handle(ctx context.Context, q SearchStudentsQuery) (*SearchStudentsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	term := strings.TrimSpace(q.Term)
	if term == "" {
		return nil, shared.NewValidationError("query", "SearchStudents", "term", shared.ErrEmptyValue,
			"Search term cannot be empty")
	}

	return &SearchStudentsResult{
		Term:     term,
		Students: viewsOf(h.roster.SearchStudents(term)),
	}, nil
}
