package grading

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/campusgrid/grading-api/internal/models"
)

type trueFalseStrategy struct{}

func (trueFalseStrategy) Grade(q models.Question, payload models.QuestionPayload, response models.ResponsePayload) Result {
	key, ok := payload.(models.TrueFalsePayload)
	if !ok {
		return invalid()
	}
	answer, ok := response.(models.BoolResponse)
	if !ok {
		return invalid()
	}
	if bool(answer) == key.Answer {
		return Result{Score: q.Points, Feedback: "Correct"}
	}
	return Result{Feedback: fmt.Sprintf("Incorrect, the answer is %s", strconv.FormatBool(key.Answer))}
}

type multipleChoiceStrategy struct{}

func (multipleChoiceStrategy) Grade(q models.Question, payload models.QuestionPayload, response models.ResponsePayload) Result {
	key, ok := payload.(models.MultipleChoicePayload)
	if !ok {
		return invalid()
	}
	answer, ok := response.(models.TextResponse)
	if !ok {
		return invalid()
	}
	if equalValue(string(answer), key.Answer) {
		return Result{Score: q.Points, Feedback: "Correct"}
	}
	return Result{Feedback: "Incorrect"}
}

// multipleAnswerStrategy treats every available option as an independent
// select/don't-select decision and awards proportional credit.
type multipleAnswerStrategy struct{}

func (multipleAnswerStrategy) Grade(q models.Question, payload models.QuestionPayload, response models.ResponsePayload) Result {
	key, ok := payload.(models.MultipleAnswerPayload)
	if !ok {
		return invalid()
	}
	selected, ok := response.(models.MultiResponse)
	if !ok {
		return invalid()
	}

	correct := make(map[string]struct{}, len(key.Answers))
	for _, id := range key.Answers {
		correct[normalizeValue(id)] = struct{}{}
	}
	chosen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		chosen[normalizeValue(id)] = struct{}{}
	}

	incorrectlySelected := 0
	for id := range chosen {
		if _, ok := correct[id]; !ok {
			incorrectlySelected++
		}
	}
	missedCorrect := 0
	for id := range correct {
		if _, ok := chosen[id]; !ok {
			missedCorrect++
		}
	}

	total := len(key.Choices)
	if total == 0 {
		return invalid()
	}
	decisions := total - incorrectlySelected - missedCorrect
	score := float64(decisions) / float64(total) * q.Points
	if score < 0 {
		score = 0
	}
	return Result{
		Score:    round2(score),
		Feedback: fmt.Sprintf("%d of %d answer choices decided correctly", maxInt(decisions, 0), total),
	}
}

func normalizeValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func equalValue(a, b string) bool {
	return normalizeValue(a) == normalizeValue(b)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
