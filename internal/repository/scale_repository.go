package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/grading-api/internal/models"
)

// ScaleRepository reads grading scales and their letter thresholds.
type ScaleRepository struct {
	db *sqlx.DB
}

// NewScaleRepository constructs the repository.
func NewScaleRepository(db *sqlx.DB) *ScaleRepository {
	return &ScaleRepository{db: db}
}

// FindByCourse returns the course's grading scale with thresholds ordered by
// descending minimum score. sql.ErrNoRows means the course has no scale.
func (r *ScaleRepository) FindByCourse(ctx context.Context, courseID string) (*models.GradingScale, error) {
	const scaleQuery = `SELECT id, course_id, name FROM grading_scales WHERE course_id = $1`
	var scale models.GradingScale
	if err := r.db.GetContext(ctx, &scale, scaleQuery, courseID); err != nil {
		return nil, err
	}

	const thresholdsQuery = `SELECT id, scale_id, grade, min_score, max_score FROM grade_thresholds
        WHERE scale_id = $1 ORDER BY min_score DESC`
	if err := r.db.SelectContext(ctx, &scale.Thresholds, thresholdsQuery, scale.ID); err != nil {
		return nil, fmt.Errorf("list scale thresholds: %w", err)
	}
	return &scale, nil
}
