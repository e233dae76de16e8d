package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/grading-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments and their final
// grades.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindByStudentAndCourse returns the student's enrollment in the course.
func (r *EnrollmentRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, final_grade, enrolled_at FROM enrollments
        WHERE student_id = $1 AND course_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, courseID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UpdateFinalGrade persists a freshly calculated final grade.
func (r *EnrollmentRepository) UpdateFinalGrade(ctx context.Context, enrollmentID string, finalGrade float64) error {
	const query = `UPDATE enrollments SET final_grade = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, enrollmentID, finalGrade); err != nil {
		return fmt.Errorf("update final grade: %w", err)
	}
	return nil
}
