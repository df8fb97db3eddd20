package query

import (
	"context"

	"github.com/alem-hub/roster/internal/domain/student"
)

// HonorGPAThreshold is the GPA listed under "Top Students".
const HonorGPAThreshold = 3.0

// Statistics summarizes the roster.
type Statistics struct {
	TotalStudents       int
	StudentsWithCourses int

	// AverageGPA is the mean over all students, 0 when the roster is empty.
	AverageGPA float64

	// TopStudents have GPA >= HonorGPAThreshold, ordered by id.
	TopStudents []StudentView
}

// IsEmpty reports whether there are no students.
func (s Statistics) IsEmpty() bool {
	return s.TotalStudents == 0
}

// GetStatisticsHandler computes Statistics.
type GetStatisticsHandler struct {
	roster *student.Roster
}

// NewGetStatisticsHandler creates a new GetStatisticsHandler.
func NewGetStatisticsHandler(roster *student.Roster) *GetStatisticsHandler {
	return &GetStatisticsHandler{roster: roster}
}

// Handle executes the query.
func (h *GetStatisticsHandler) Handle(ctx context.Context) (*Statistics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := h.roster.GetAllStudents()
	stats := &Statistics{
		TotalStudents: len(all),
		TopStudents:   viewsOf(h.roster.GetStudentsByMinGPA(HonorGPAThreshold)),
	}
	if len(all) == 0 {
		return stats, nil
	}

	var sum float64
	for _, s := range all {
		sum += s.GPA()
		if s.CourseCount() > 0 {
			stats.StudentsWithCourses++
		}
	}
	stats.AverageGPA = sum / float64(len(all))

	return stats, nil
}
