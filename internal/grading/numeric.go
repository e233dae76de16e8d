package grading

import (
	"fmt"
	"math"

	"github.com/campusgrid/grading-api/internal/models"
)

// computationalStrategy checks numeric answers against the expected value
// within an absolute tolerance. Formula-mode questions always defer to a
// human grader.
type computationalStrategy struct{}

func (computationalStrategy) Grade(q models.Question, payload models.QuestionPayload, response models.ResponsePayload) Result {
	key, ok := payload.(models.ComputationalPayload)
	if !ok {
		return invalid()
	}
	if key.Mode == models.ComputationalFormula {
		return Result{NeedsManual: true, Feedback: FeedbackManualNeeded}
	}
	answer, ok := response.(models.NumberResponse)
	if !ok {
		return invalid()
	}

	tolerance := key.Tolerance
	if q.Metadata.Tolerance > 0 {
		tolerance = q.Metadata.Tolerance
	}

	if math.Abs(float64(answer)-key.Answer) <= tolerance {
		return Result{Score: q.Points, Feedback: "Correct"}
	}
	return Result{
		Feedback:    fmt.Sprintf("Expected %g within ±%g", key.Answer, tolerance),
		NeedsManual: q.Metadata.ReviewIncorrect,
	}
}
