package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/grading-api/internal/models"
)

// CategoryRepository reads weighted assignment categories for courses.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs the repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// FindCourseByAssignment resolves the course an assignment belongs to.
func (r *CategoryRepository) FindCourseByAssignment(ctx context.Context, assignmentID string) (string, error) {
	const query = `SELECT c.course_id FROM assignments a
        JOIN assignment_categories c ON c.id = a.category_id
        WHERE a.id = $1`
	var courseID string
	if err := r.db.GetContext(ctx, &courseID, query, assignmentID); err != nil {
		return "", err
	}
	return courseID, nil
}

// ListWithAssignments returns the course's categories, each with its
// published assignments. Unpublished assignments never count toward grades.
func (r *CategoryRepository) ListWithAssignments(ctx context.Context, courseID string) ([]models.CategoryAssignments, error) {
	const categoriesQuery = `SELECT id, course_id, name, weight FROM assignment_categories WHERE course_id = $1 ORDER BY name`
	var categories []models.AssignmentCategory
	if err := r.db.SelectContext(ctx, &categories, categoriesQuery, courseID); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(categories))
	args := make([]interface{}, len(categories))
	byCategory := make(map[string]int, len(categories))
	result := make([]models.CategoryAssignments, len(categories))
	for i, c := range categories {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = c.ID
		byCategory[c.ID] = i
		result[i] = models.CategoryAssignments{Category: c}
	}

	query := fmt.Sprintf(`SELECT id, category_id, title, total_points, published FROM assignments
        WHERE published = TRUE AND category_id IN (%s) ORDER BY title`, strings.Join(placeholders, ","))
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list category assignments: %w", err)
	}
	for _, a := range assignments {
		if i, ok := byCategory[a.CategoryID]; ok {
			result[i].Assignments = append(result[i].Assignments, a)
		}
	}
	return result, nil
}
