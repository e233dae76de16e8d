package models

import (
	"encoding/json"
	"time"
)

// QuestionType enumerates the supported question kinds. Grading strategies
// are registered against these values, so the set is closed.
type QuestionType string

const (
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionMultipleAnswer QuestionType = "multiple_answer"
	QuestionMatching       QuestionType = "matching"
	QuestionFillInBlank    QuestionType = "fill_in_blank"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionComputational  QuestionType = "computational"
	QuestionCoding         QuestionType = "coding"
	QuestionEssay          QuestionType = "essay"
	QuestionDiagram        QuestionType = "diagram"
	QuestionOral           QuestionType = "oral"
)

// AllQuestionTypes lists every recognised question type.
var AllQuestionTypes = []QuestionType{
	QuestionTrueFalse,
	QuestionMultipleChoice,
	QuestionMultipleAnswer,
	QuestionMatching,
	QuestionFillInBlank,
	QuestionShortAnswer,
	QuestionComputational,
	QuestionCoding,
	QuestionEssay,
	QuestionDiagram,
	QuestionOral,
}

// Valid reports whether t is a recognised question type.
func (t QuestionType) Valid() bool {
	for _, known := range AllQuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// QuestionMetadata carries per-question grading hints. Zero values mean
// "not set"; strategies fall back to their defaults.
type QuestionMetadata struct {
	CaseSensitive         bool    `json:"caseSensitive,omitempty"`
	SimilarityThreshold   float64 `json:"similarityThreshold,omitempty"`
	AlwaysReview          bool    `json:"alwaysReview,omitempty"`
	ReviewThreshold       float64 `json:"reviewThreshold,omitempty"`
	Tolerance             float64 `json:"tolerance,omitempty"`
	RequiresManualGrading bool    `json:"requiresManualGrading,omitempty"`
	ReviewIncorrect       bool    `json:"reviewIncorrect,omitempty"`
}

// Question is one gradable item within an assignment. Options and
// CorrectAnswer stay raw until DecodeQuestionPayload validates them into a
// per-type payload.
type Question struct {
	ID            string           `db:"id" json:"id"`
	AssignmentID  string           `db:"assignment_id" json:"assignment_id"`
	Type          QuestionType     `db:"type" json:"type"`
	Points        float64          `db:"points" json:"points"`
	Options       json.RawMessage  `db:"options" json:"options,omitempty"`
	CorrectAnswer json.RawMessage  `db:"correct_answer" json:"-"`
	Metadata      QuestionMetadata `json:"metadata"`
	OrderNum      int              `db:"order_num" json:"order_num"`
}

// QuestionWithResponse pairs a question with the student's response, if any.
type QuestionWithResponse struct {
	Question Question
	Response *Response
}

// QuestionGradingResult is the per-question outcome returned by the grader.
type QuestionGradingResult struct {
	QuestionID         string  `json:"question_id"`
	ResponseID         *string `json:"response_id,omitempty"`
	Score              float64 `json:"score"`
	Feedback           string  `json:"feedback"`
	NeedsManualGrading bool    `json:"needs_manual_grading"`
}

// SubmissionGradingResult summarises one grading pass over a submission.
type SubmissionGradingResult struct {
	SubmissionID       string                  `json:"submission_id"`
	TotalScore         float64                 `json:"total_score"`
	MaxPoints          float64                 `json:"max_points"`
	NeedsManualGrading bool                    `json:"needs_manual_grading"`
	Finalized          bool                    `json:"finalized"`
	GradingResults     []QuestionGradingResult `json:"grading_results"`
}

// ManualGradeResult reports the effect of recording one human-assigned score.
type ManualGradeResult struct {
	ResponseID   string    `json:"response_id"`
	SubmissionID string    `json:"submission_id"`
	Score        float64   `json:"score"`
	Finalized    bool      `json:"finalized"`
	TotalScore   *float64  `json:"total_score,omitempty"`
	GradedAt     time.Time `json:"graded_at"`
}
