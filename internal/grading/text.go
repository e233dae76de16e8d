package grading

import (
	"fmt"

	"github.com/campusgrid/grading-api/internal/models"
)

// shortAnswerStrategy grades free text by semantic similarity against the
// model answer. Full credit at or above the threshold, half credit in the
// band just below it (with a review flag), zero below the band.
type shortAnswerStrategy struct {
	scorer           *SimilarityScorer
	defaultThreshold float64
}

func (s shortAnswerStrategy) Grade(q models.Question, payload models.QuestionPayload, response models.ResponsePayload) Result {
	key, ok := payload.(models.ShortAnswerPayload)
	if !ok {
		return invalid()
	}
	answer, ok := response.(models.TextResponse)
	if !ok {
		return invalid()
	}

	threshold := s.defaultThreshold
	if t := q.Metadata.SimilarityThreshold; t > 0 && t <= 1 {
		threshold = t
	}

	similarity := s.scorer.Score(string(answer), key.Answer)
	feedback := fmt.Sprintf("Answer similarity %.0f%%", similarity*100)

	switch {
	case similarity >= threshold:
		return Result{
			Score:       q.Points,
			Feedback:    feedback,
			NeedsManual: q.Metadata.AlwaysReview,
		}
	case similarity >= threshold*halfCreditBand:
		return Result{
			Score:       round2(q.Points / 2),
			Feedback:    feedback,
			NeedsManual: true,
		}
	default:
		return Result{Feedback: feedback, NeedsManual: true}
	}
}
