package grading

import (
	"fmt"
	"strings"

	"github.com/campusgrid/grading-api/internal/models"
)

// fillInBlankStrategy compares each blank against its accepted answers.
// Comparison is case-insensitive unless metadata requests otherwise; a
// missing blank counts as incorrect.
type fillInBlankStrategy struct{}

func (fillInBlankStrategy) Grade(q models.Question, payload models.QuestionPayload, response models.ResponsePayload) Result {
	key, ok := payload.(models.FillInBlankPayload)
	if !ok {
		return invalid()
	}
	answers, ok := response.(models.BlanksResponse)
	if !ok {
		return invalid()
	}

	total := len(key.Blanks)
	if total == 0 {
		return invalid()
	}
	correct := 0
	for i, accepted := range key.Blanks {
		if i >= len(answers) {
			continue
		}
		if blankMatches(answers[i], accepted, q.Metadata.CaseSensitive) {
			correct++
		}
	}

	ratio := float64(correct) / float64(total)
	needsManual := q.Metadata.AlwaysReview ||
		(q.Metadata.ReviewThreshold > 0 && ratio < q.Metadata.ReviewThreshold)

	return Result{
		Score:       round2(ratio * q.Points),
		Feedback:    fmt.Sprintf("%d of %d blanks correct", correct, total),
		NeedsManual: needsManual,
	}
}

func blankMatches(answer string, accepted []string, caseSensitive bool) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}
	for _, candidate := range accepted {
		candidate = strings.TrimSpace(candidate)
		if caseSensitive {
			if answer == candidate {
				return true
			}
			continue
		}
		if strings.EqualFold(answer, candidate) {
			return true
		}
	}
	return false
}
