package models

import "time"

// AssignmentCategory is a weighted grouping of assignments within a course.
// Weight is a percentage; the store does not require weights to sum to 100.
type AssignmentCategory struct {
	ID       string  `db:"id" json:"id"`
	CourseID string  `db:"course_id" json:"course_id"`
	Name     string  `db:"name" json:"name"`
	Weight   float64 `db:"weight" json:"weight"`
}

// Assignment is one published or unpublished assignment within a category.
type Assignment struct {
	ID          string  `db:"id" json:"id"`
	CategoryID  string  `db:"category_id" json:"category_id"`
	Title       string  `db:"title" json:"title"`
	TotalPoints float64 `db:"total_points" json:"total_points"`
	Published   bool    `db:"published" json:"published"`
}

// CategoryAssignments pairs a category with its published assignments.
type CategoryAssignments struct {
	Category    AssignmentCategory
	Assignments []Assignment
}

// Enrollment links a student to a course and carries the persisted final grade.
type Enrollment struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	FinalGrade *float64  `db:"final_grade" json:"final_grade,omitempty"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// AssignmentGrade is the per-assignment detail inside a category breakdown.
type AssignmentGrade struct {
	AssignmentID string  `json:"assignment_id"`
	Title        string  `json:"title"`
	TotalPoints  float64 `json:"total_points"`
	EarnedPoints float64 `json:"earned_points"`
	Graded       bool    `json:"graded"`
}

// CategoryGrade is the weighted outcome of one category.
type CategoryGrade struct {
	CategoryID    string            `json:"category_id"`
	Name          string            `json:"name"`
	Weight        float64           `json:"weight"`
	Percentage    float64           `json:"percentage"`
	WeightedScore float64           `json:"weighted_score"`
	Empty         bool              `json:"empty,omitempty"`
	Assignments   []AssignmentGrade `json:"assignments"`
}

// FinalGradeBreakdown is the full result of a final-grade calculation.
type FinalGradeBreakdown struct {
	StudentID      string          `json:"student_id"`
	CourseID       string          `json:"course_id"`
	FinalGrade     float64         `json:"final_grade"`
	LetterGrade    *string         `json:"letter_grade,omitempty"`
	CategoryGrades []CategoryGrade `json:"category_grades"`
	CalculatedAt   time.Time       `json:"calculated_at"`
}
