package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/grading-api/internal/models"
)

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func newTestGrader() *Grader {
	return NewGrader(Config{DefaultSimilarityThreshold: 0.8})
}

func response(t *testing.T, data any) *models.Response {
	t.Helper()
	return &models.Response{ID: "resp-1", SubmissionID: "sub-1", QuestionID: "q-1", ResponseData: mustRaw(t, data)}
}

func TestGrader_TrueFalse(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:            "q-1",
		Type:          models.QuestionTrueFalse,
		Points:        5,
		CorrectAnswer: mustRaw(t, true),
	}

	result := g.Grade(q, response(t, true))
	assert.Equal(t, 5.0, result.Score)
	assert.False(t, result.NeedsManual)

	result = g.Grade(q, response(t, false))
	assert.Equal(t, 0.0, result.Score)
}

func TestGrader_MultipleChoice(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:     "q-1",
		Type:   models.QuestionMultipleChoice,
		Points: 4,
		Options: mustRaw(t, map[string]any{"choices": []models.Choice{
			{ID: "a", Text: "Red"},
			{ID: "b", Text: "Blue"},
		}}),
		CorrectAnswer: mustRaw(t, "b"),
	}

	result := g.Grade(q, response(t, "b"))
	assert.Equal(t, 4.0, result.Score)

	// Choice ids compare case-insensitively.
	result = g.Grade(q, response(t, "B"))
	assert.Equal(t, 4.0, result.Score)

	result = g.Grade(q, response(t, "a"))
	assert.Equal(t, 0.0, result.Score)
}

func TestGrader_MultipleAnswerPartialCredit(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:     "q-1",
		Type:   models.QuestionMultipleAnswer,
		Points: 10,
		Options: mustRaw(t, map[string]any{"choices": []models.Choice{
			{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
		}}),
		CorrectAnswer: mustRaw(t, []string{"a", "b"}),
	}

	// One wrong selection and one missed answer leave 2 of 4 correct
	// decisions.
	result := g.Grade(q, response(t, []string{"a", "c"}))
	assert.Equal(t, 5.0, result.Score)

	// All decisions correct.
	result = g.Grade(q, response(t, []string{"b", "a"}))
	assert.Equal(t, 10.0, result.Score)

	// Credit never goes negative.
	q.CorrectAnswer = mustRaw(t, []string{"a", "b", "c", "d"})
	result = g.Grade(q, response(t, []string{}))
	assert.Equal(t, 0.0, result.Score)
}

func TestGrader_Matching(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:     "q-1",
		Type:   models.QuestionMatching,
		Points: 6,
		CorrectAnswer: mustRaw(t, map[string]string{
			"H2O": "water",
			"NaCl": "salt",
			"CO2": "carbon dioxide",
		}),
	}

	result := g.Grade(q, response(t, map[string]string{
		"H2O":  "water",
		"NaCl": "salt",
		"CO2":  "oxygen",
	}))
	assert.Equal(t, 4.0, result.Score)
	assert.Equal(t, "2 of 3 pairs matched correctly", result.Feedback)
}

func TestGrader_FillInBlankCaseInsensitive(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:            "q-1",
		Type:          models.QuestionFillInBlank,
		Points:        2,
		CorrectAnswer: mustRaw(t, []any{"Paris"}),
	}

	result := g.Grade(q, response(t, []string{"PARIS"}))
	assert.Equal(t, 2.0, result.Score)

	q.Metadata.CaseSensitive = true
	result = g.Grade(q, response(t, []string{"PARIS"}))
	assert.Equal(t, 0.0, result.Score)
}

func TestGrader_FillInBlankAlternativesAndReview(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:     "q-1",
		Type:   models.QuestionFillInBlank,
		Points: 4,
		CorrectAnswer: mustRaw(t, []any{
			[]string{"color", "colour"},
			"mitochondria",
		}),
		Metadata: models.QuestionMetadata{ReviewThreshold: 0.75},
	}

	// One of two blanks correct falls below the review threshold.
	result := g.Grade(q, response(t, []string{"colour", "ribosome"}))
	assert.Equal(t, 2.0, result.Score)
	assert.True(t, result.NeedsManual)

	result = g.Grade(q, response(t, []string{"color", "mitochondria"}))
	assert.Equal(t, 4.0, result.Score)
	assert.False(t, result.NeedsManual)

	// A missing blank counts as incorrect.
	result = g.Grade(q, response(t, []string{"colour"}))
	assert.Equal(t, 2.0, result.Score)
}

func TestGrader_ShortAnswerBands(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:            "q-1",
		Type:          models.QuestionShortAnswer,
		Points:        10,
		CorrectAnswer: mustRaw(t, "aaaa bbbb"),
	}

	// Exact match clears the threshold with no review flag.
	result := g.Grade(q, response(t, "aaaa bbbb"))
	assert.Equal(t, 10.0, result.Score)
	assert.False(t, result.NeedsManual)

	// Similarity in the band below the threshold earns half credit and a
	// review flag.
	result = g.Grade(q, response(t, "aaaa bbzz"))
	assert.Equal(t, 5.0, result.Score)
	assert.True(t, result.NeedsManual)

	// Far-off answers earn nothing but still queue for review.
	result = g.Grade(q, response(t, "zzzz xxxx"))
	assert.Equal(t, 0.0, result.Score)
	assert.True(t, result.NeedsManual)
}

func TestGrader_ShortAnswerMetadataOverrides(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:            "q-1",
		Type:          models.QuestionShortAnswer,
		Points:        10,
		CorrectAnswer: mustRaw(t, "aaaa bbbb"),
		Metadata:      models.QuestionMetadata{AlwaysReview: true},
	}

	// AlwaysReview keeps the full score but forces a manual pass.
	result := g.Grade(q, response(t, "aaaa bbbb"))
	assert.Equal(t, 10.0, result.Score)
	assert.True(t, result.NeedsManual)

	// A per-question threshold tighter than the default turns a borderline
	// match into half credit.
	q.Metadata = models.QuestionMetadata{SimilarityThreshold: 0.99}
	result = g.Grade(q, response(t, "aaaa bbbz"))
	assert.Equal(t, 5.0, result.Score)
	assert.True(t, result.NeedsManual)
}

func TestGrader_ComputationalTolerance(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:            "q-1",
		Type:          models.QuestionComputational,
		Points:        8,
		Options:       mustRaw(t, map[string]any{"mode": "numeric", "tolerance": 0.2}),
		CorrectAnswer: mustRaw(t, 10.5),
	}

	result := g.Grade(q, response(t, 10.4))
	assert.Equal(t, 8.0, result.Score)

	result = g.Grade(q, response(t, 10.6))
	assert.Equal(t, 8.0, result.Score)

	result = g.Grade(q, response(t, 10.8))
	assert.Equal(t, 0.0, result.Score)
	assert.False(t, result.NeedsManual)

	q.Metadata.ReviewIncorrect = true
	result = g.Grade(q, response(t, 10.8))
	assert.Equal(t, 0.0, result.Score)
	assert.True(t, result.NeedsManual)
}

func TestGrader_ComputationalFormulaDefersToHuman(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:      "q-1",
		Type:    models.QuestionComputational,
		Points:  8,
		Options: mustRaw(t, map[string]any{"mode": "formula"}),
	}

	result := g.Grade(q, response(t, "x = 2y + 1"))
	assert.Equal(t, 0.0, result.Score)
	assert.True(t, result.NeedsManual)
	assert.Equal(t, FeedbackManualNeeded, result.Feedback)
}

func TestGrader_ManualTypes(t *testing.T) {
	g := newTestGrader()
	for _, qt := range []models.QuestionType{
		models.QuestionCoding,
		models.QuestionEssay,
		models.QuestionDiagram,
		models.QuestionOral,
	} {
		q := models.Question{ID: "q-1", Type: qt, Points: 20}
		result := g.Grade(q, response(t, "free-form answer"))
		assert.True(t, result.NeedsManual, string(qt))
		assert.Equal(t, 0.0, result.Score, string(qt))
	}
}

func TestGrader_RequiresManualGradingShortCircuit(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:            "q-1",
		Type:          models.QuestionTrueFalse,
		Points:        5,
		CorrectAnswer: mustRaw(t, true),
		Metadata:      models.QuestionMetadata{RequiresManualGrading: true},
	}

	result := g.Grade(q, response(t, true))
	assert.True(t, result.NeedsManual)
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, FeedbackManualNeeded, result.Feedback)
}

func TestGrader_MissingResponse(t *testing.T) {
	g := newTestGrader()
	q := models.Question{
		ID:            "q-1",
		Type:          models.QuestionTrueFalse,
		Points:        5,
		CorrectAnswer: mustRaw(t, true),
	}

	result := g.Grade(q, nil)
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, FeedbackNoResponse, result.Feedback)
	assert.False(t, result.NeedsManual)

	result = g.Grade(q, &models.Response{ID: "resp-1"})
	assert.Equal(t, FeedbackNoResponse, result.Feedback)
}

func TestGrader_MalformedDataScoresZero(t *testing.T) {
	g := newTestGrader()

	// Correct answer is not a boolean.
	q := models.Question{
		ID:            "q-1",
		Type:          models.QuestionTrueFalse,
		Points:        5,
		CorrectAnswer: mustRaw(t, []int{1, 2}),
	}
	result := g.Grade(q, response(t, true))
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, FeedbackInvalidFormat, result.Feedback)

	// Response shape does not fit the question type.
	q.CorrectAnswer = mustRaw(t, true)
	result = g.Grade(q, response(t, map[string]string{"oops": "x"}))
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, FeedbackInvalidFormat, result.Feedback)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.33, round2(10.0/3.0))
	assert.Equal(t, 6.67, round2(20.0/3.0))
	assert.Equal(t, 2.5, round2(2.5))
}
