package models

import (
	"encoding/json"
	"time"
)

// SubmissionStatus represents the lifecycle of a submission.
type SubmissionStatus string

// Possible submission statuses.
const (
	SubmissionStatusDraft     SubmissionStatus = "draft"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusLate      SubmissionStatus = "late"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

// Submission is a student's complete set of responses to one assignment.
// TotalScore is meaningful only once the status is graded, and then equals
// the sum of all response scores.
type Submission struct {
	ID           string           `db:"id" json:"id"`
	AssignmentID string           `db:"assignment_id" json:"assignment_id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	Status       SubmissionStatus `db:"status" json:"status"`
	TotalScore   *float64         `db:"total_score" json:"total_score,omitempty"`
	SubmittedAt  *time.Time       `db:"submitted_at" json:"submitted_at,omitempty"`
}

// Response is a student's answer to one question within a submission.
// At most one response exists per (submission, question) pair.
type Response struct {
	ID           string          `db:"id" json:"id"`
	SubmissionID string          `db:"submission_id" json:"submission_id"`
	QuestionID   string          `db:"question_id" json:"question_id"`
	ResponseData json.RawMessage `db:"response_data" json:"response_data,omitempty"`
	Score        *float64        `db:"score" json:"score,omitempty"`
	Feedback     *string         `db:"feedback" json:"feedback,omitempty"`
	GradedAt     *time.Time      `db:"graded_at" json:"graded_at,omitempty"`
	GradedBy     *string         `db:"graded_by" json:"graded_by,omitempty"`
}

// ResponseScore is one pending score write produced by the automated grader.
type ResponseScore struct {
	ResponseID string
	Score      float64
	Feedback   string
}

// ResponseContext joins a response with its submission and question, as
// needed by the manual grading path.
type ResponseContext struct {
	Response   Response
	Submission Submission
	Question   Question
}
