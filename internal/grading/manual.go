package grading

import "github.com/campusgrid/grading-api/internal/models"

// manualStrategy covers question types with no automatic evaluation. The
// response is preserved untouched and flagged for a human grader.
type manualStrategy struct{}

func (manualStrategy) Grade(models.Question, models.QuestionPayload, models.ResponsePayload) Result {
	return Result{NeedsManual: true, Feedback: FeedbackManualNeeded}
}
