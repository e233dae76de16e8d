package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/grading-api/internal/models"
)

// SubmissionRepository reads submissions and their graded totals.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// FindByID returns a submission by its ID.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	const query = `SELECT id, assignment_id, student_id, status, total_score, submitted_at FROM submissions WHERE id = $1`
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListGradedTotals returns the student's graded total score per assignment,
// restricted to the given assignments. Assignments without a graded
// submission are absent from the map.
func (r *SubmissionRepository) ListGradedTotals(ctx context.Context, studentID string, assignmentIDs []string) (map[string]float64, error) {
	totals := make(map[string]float64, len(assignmentIDs))
	if len(assignmentIDs) == 0 {
		return totals, nil
	}
	placeholders := make([]string, len(assignmentIDs))
	args := make([]interface{}, len(assignmentIDs)+1)
	args[0] = studentID
	for i, id := range assignmentIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args[i+1] = id
	}
	query := fmt.Sprintf(`SELECT assignment_id, total_score FROM submissions
        WHERE student_id = $1 AND status = 'graded' AND total_score IS NOT NULL AND assignment_id IN (%s)`,
		strings.Join(placeholders, ","))
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list graded totals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var assignmentID string
		var total float64
		if err := rows.Scan(&assignmentID, &total); err != nil {
			return nil, fmt.Errorf("scan graded total: %w", err)
		}
		totals[assignmentID] = total
	}
	return totals, rows.Err()
}
