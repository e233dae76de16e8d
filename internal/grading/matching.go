package grading

import (
	"fmt"

	"github.com/campusgrid/grading-api/internal/models"
)

type matchingStrategy struct{}

func (matchingStrategy) Grade(q models.Question, payload models.QuestionPayload, response models.ResponsePayload) Result {
	key, ok := payload.(models.MatchingPayload)
	if !ok {
		return invalid()
	}
	matches, ok := response.(models.MatchResponse)
	if !ok {
		return invalid()
	}

	total := len(key.Key)
	if total == 0 {
		return invalid()
	}
	correct := 0
	for left, expected := range key.Key {
		if answered, ok := lookupMatch(matches, left); ok && equalValue(answered, expected) {
			correct++
		}
	}

	score := round2(float64(correct) / float64(total) * q.Points)
	return Result{
		Score:    score,
		Feedback: fmt.Sprintf("%d of %d pairs matched correctly", correct, total),
	}
}

func lookupMatch(matches models.MatchResponse, left string) (string, bool) {
	if v, ok := matches[left]; ok {
		return v, true
	}
	want := normalizeValue(left)
	for k, v := range matches {
		if normalizeValue(k) == want {
			return v, true
		}
	}
	return "", false
}
