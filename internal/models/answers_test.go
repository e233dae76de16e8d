package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestDecodeQuestionPayload_TrueFalse(t *testing.T) {
	q := Question{ID: "q-1", Type: QuestionTrueFalse, CorrectAnswer: raw(t, true)}
	payload, err := DecodeQuestionPayload(q)
	require.NoError(t, err)
	assert.Equal(t, TrueFalsePayload{Answer: true}, payload)

	// Stored booleans sometimes arrive as strings.
	q.CorrectAnswer = raw(t, "false")
	payload, err = DecodeQuestionPayload(q)
	require.NoError(t, err)
	assert.Equal(t, TrueFalsePayload{Answer: false}, payload)

	q.CorrectAnswer = raw(t, 42)
	_, err = DecodeQuestionPayload(q)
	var malformed *ErrMalformedAnswer
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "q-1", malformed.QuestionID)
}

func TestDecodeQuestionPayload_MultipleChoiceRequiresChoices(t *testing.T) {
	q := Question{
		ID:            "q-1",
		Type:          QuestionMultipleChoice,
		Options:       raw(t, map[string]any{"choices": []Choice{{ID: "a"}, {ID: "b"}}}),
		CorrectAnswer: raw(t, "a"),
	}
	payload, err := DecodeQuestionPayload(q)
	require.NoError(t, err)
	mc, ok := payload.(MultipleChoicePayload)
	require.True(t, ok)
	assert.Len(t, mc.Choices, 2)
	assert.Equal(t, "a", mc.Answer)

	q.Options = raw(t, map[string]any{"choices": []Choice{}})
	_, err = DecodeQuestionPayload(q)
	var malformed *ErrMalformedAnswer
	assert.ErrorAs(t, err, &malformed)
}

func TestDecodeQuestionPayload_MatchingKeyFallsBackToPairs(t *testing.T) {
	q := Question{
		ID:            "q-1",
		Type:          QuestionMatching,
		CorrectAnswer: raw(t, map[string]string{"H2O": "water"}),
	}
	payload, err := DecodeQuestionPayload(q)
	require.NoError(t, err)
	assert.Equal(t, MatchingPayload{Key: map[string]string{"H2O": "water"}}, payload)

	// When no explicit key is stored, the option pairs act as the key.
	q.CorrectAnswer = nil
	q.Options = raw(t, map[string]any{"pairs": []MatchPair{{Left: "H2O", Right: "water"}}})
	payload, err = DecodeQuestionPayload(q)
	require.NoError(t, err)
	assert.Equal(t, MatchingPayload{Key: map[string]string{"H2O": "water"}}, payload)
}

func TestDecodeQuestionPayload_FillInBlankShapes(t *testing.T) {
	q := Question{
		ID:            "q-1",
		Type:          QuestionFillInBlank,
		CorrectAnswer: raw(t, []any{"Paris", []string{"color", "colour"}}),
	}
	payload, err := DecodeQuestionPayload(q)
	require.NoError(t, err)
	assert.Equal(t, FillInBlankPayload{Blanks: [][]string{{"Paris"}, {"color", "colour"}}}, payload)

	q.CorrectAnswer = raw(t, []any{"Paris", 7})
	_, err = DecodeQuestionPayload(q)
	var malformed *ErrMalformedAnswer
	assert.ErrorAs(t, err, &malformed)
}

func TestDecodeQuestionPayload_ComputationalModes(t *testing.T) {
	q := Question{
		ID:            "q-1",
		Type:          QuestionComputational,
		Options:       raw(t, map[string]any{"mode": "numeric", "tolerance": 0.5}),
		CorrectAnswer: raw(t, 12.25),
	}
	payload, err := DecodeQuestionPayload(q)
	require.NoError(t, err)
	assert.Equal(t, ComputationalPayload{Mode: ComputationalNumeric, Answer: 12.25, Tolerance: 0.5}, payload)

	// Missing mode defaults to numeric; string-encoded numbers decode.
	q.Options = nil
	q.CorrectAnswer = raw(t, "12.25")
	payload, err = DecodeQuestionPayload(q)
	require.NoError(t, err)
	assert.Equal(t, ComputationalPayload{Mode: ComputationalNumeric, Answer: 12.25}, payload)

	// Formula mode carries no numeric answer.
	q.Options = raw(t, map[string]any{"mode": "formula"})
	q.CorrectAnswer = nil
	payload, err = DecodeQuestionPayload(q)
	require.NoError(t, err)
	assert.Equal(t, ComputationalPayload{Mode: ComputationalFormula}, payload)

	q.Options = raw(t, map[string]any{"mode": "symbolic"})
	_, err = DecodeQuestionPayload(q)
	var malformed *ErrMalformedAnswer
	assert.ErrorAs(t, err, &malformed)
}

func TestDecodeResponsePayload_PerType(t *testing.T) {
	tests := []struct {
		name  string
		qtype QuestionType
		data  any
		want  ResponsePayload
	}{
		{"true_false", QuestionTrueFalse, true, BoolResponse(true)},
		{"multiple_choice", QuestionMultipleChoice, "b", TextResponse("b")},
		{"multiple_answer", QuestionMultipleAnswer, []string{"a", "c"}, MultiResponse{"a", "c"}},
		{"matching", QuestionMatching, map[string]string{"H2O": "water"}, MatchResponse{"H2O": "water"}},
		{"fill_in_blank", QuestionFillInBlank, []string{"Paris"}, BlanksResponse{"Paris"}},
		{"computational", QuestionComputational, 10.4, NumberResponse(10.4)},
		{"short_answer", QuestionShortAnswer, "osmosis", TextResponse("osmosis")},
		{"essay", QuestionEssay, "a long essay", TextResponse("a long essay")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{ID: "q-1", Type: tt.qtype}
			got, err := DecodeResponsePayload(q, raw(t, tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeResponsePayload_Malformed(t *testing.T) {
	q := Question{ID: "q-1", Type: QuestionComputational}
	_, err := DecodeResponsePayload(q, raw(t, map[string]int{"value": 3}))
	var malformed *ErrMalformedAnswer
	require.ErrorAs(t, err, &malformed)

	_, err = DecodeResponsePayload(q, nil)
	assert.ErrorAs(t, err, &malformed)

	q.Type = QuestionMultipleAnswer
	_, err = DecodeResponsePayload(q, raw(t, "a"))
	assert.ErrorAs(t, err, &malformed)
}
