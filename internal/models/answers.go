package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedAnswer marks stored option/answer/response payloads whose shape
// does not match the question type. It is a local, recoverable outcome: the
// affected question scores zero and grading continues.
type ErrMalformedAnswer struct {
	QuestionID string
	Reason     string
}

func (e *ErrMalformedAnswer) Error() string {
	return fmt.Sprintf("malformed answer payload for question %s: %s", e.QuestionID, e.Reason)
}

// QuestionPayload is the validated, per-type view of a question's options and
// correct answer. Exactly one concrete type exists per QuestionType.
type QuestionPayload interface {
	isQuestionPayload()
}

// Choice is one selectable option of a choice question.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MatchPair is one left/right pairing of a matching question.
type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type TrueFalsePayload struct {
	Answer bool
}

type MultipleChoicePayload struct {
	Choices []Choice
	Answer  string
}

type MultipleAnswerPayload struct {
	Choices []Choice
	Answers []string
}

type MatchingPayload struct {
	// Key is the answer key: left value to expected right value.
	Key map[string]string
}

type FillInBlankPayload struct {
	// Blanks holds the accepted answers per blank, in blank order.
	Blanks [][]string
}

type ShortAnswerPayload struct {
	Answer string
}

// ComputationalMode separates auto-gradable numeric questions from
// formula questions, which always defer to a human.
type ComputationalMode string

const (
	ComputationalNumeric ComputationalMode = "numeric"
	ComputationalFormula ComputationalMode = "formula"
)

type ComputationalPayload struct {
	Mode      ComputationalMode
	Answer    float64
	Tolerance float64
}

// ManualPayload covers types with no automatic evaluation at all.
type ManualPayload struct{}

func (TrueFalsePayload) isQuestionPayload()      {}
func (MultipleChoicePayload) isQuestionPayload() {}
func (MultipleAnswerPayload) isQuestionPayload() {}
func (MatchingPayload) isQuestionPayload()       {}
func (FillInBlankPayload) isQuestionPayload()    {}
func (ShortAnswerPayload) isQuestionPayload()    {}
func (ComputationalPayload) isQuestionPayload()  {}
func (ManualPayload) isQuestionPayload()         {}

// ResponsePayload is the validated view of a student's responseData.
type ResponsePayload interface {
	isResponsePayload()
}

type BoolResponse bool
type TextResponse string
type MultiResponse []string
type MatchResponse map[string]string
type BlanksResponse []string
type NumberResponse float64

func (BoolResponse) isResponsePayload()   {}
func (TextResponse) isResponsePayload()   {}
func (MultiResponse) isResponsePayload()  {}
func (MatchResponse) isResponsePayload()  {}
func (BlanksResponse) isResponsePayload() {}
func (NumberResponse) isResponsePayload() {}

type choiceOptions struct {
	Choices []Choice `json:"choices"`
}

type matchingOptions struct {
	Pairs []MatchPair `json:"pairs"`
}

type computationalOptions struct {
	Mode      string  `json:"mode"`
	Tolerance float64 `json:"tolerance"`
}

// DecodeQuestionPayload validates a question's raw options and correctAnswer
// into the typed payload for its question type. It is called at the store
// boundary so strategies never see raw JSON.
func DecodeQuestionPayload(q Question) (QuestionPayload, error) {
	malformed := func(reason string) error {
		return &ErrMalformedAnswer{QuestionID: q.ID, Reason: reason}
	}

	switch q.Type {
	case QuestionTrueFalse:
		value, ok := decodeBool(q.CorrectAnswer)
		if !ok {
			return nil, malformed("true_false answer must be a boolean")
		}
		return TrueFalsePayload{Answer: value}, nil

	case QuestionMultipleChoice:
		var opts choiceOptions
		if err := json.Unmarshal(q.Options, &opts); err != nil || len(opts.Choices) == 0 {
			return nil, malformed("multiple_choice requires a choice list")
		}
		var answer string
		if err := json.Unmarshal(q.CorrectAnswer, &answer); err != nil || answer == "" {
			return nil, malformed("multiple_choice answer must be a choice id")
		}
		return MultipleChoicePayload{Choices: opts.Choices, Answer: answer}, nil

	case QuestionMultipleAnswer:
		var opts choiceOptions
		if err := json.Unmarshal(q.Options, &opts); err != nil || len(opts.Choices) == 0 {
			return nil, malformed("multiple_answer requires a choice list")
		}
		var answers []string
		if err := json.Unmarshal(q.CorrectAnswer, &answers); err != nil || len(answers) == 0 {
			return nil, malformed("multiple_answer answer must be a list of choice ids")
		}
		return MultipleAnswerPayload{Choices: opts.Choices, Answers: answers}, nil

	case QuestionMatching:
		key := map[string]string{}
		if err := json.Unmarshal(q.CorrectAnswer, &key); err != nil || len(key) == 0 {
			// Fall back to the option pairs when the key is stored inline.
			var opts matchingOptions
			if err := json.Unmarshal(q.Options, &opts); err != nil || len(opts.Pairs) == 0 {
				return nil, malformed("matching requires an answer key")
			}
			key = make(map[string]string, len(opts.Pairs))
			for _, pair := range opts.Pairs {
				key[pair.Left] = pair.Right
			}
		}
		return MatchingPayload{Key: key}, nil

	case QuestionFillInBlank:
		blanks, err := decodeBlanks(q.CorrectAnswer)
		if err != nil {
			return nil, malformed(err.Error())
		}
		return FillInBlankPayload{Blanks: blanks}, nil

	case QuestionShortAnswer:
		var answer string
		if err := json.Unmarshal(q.CorrectAnswer, &answer); err != nil || strings.TrimSpace(answer) == "" {
			return nil, malformed("short_answer requires a model answer")
		}
		return ShortAnswerPayload{Answer: answer}, nil

	case QuestionComputational:
		var opts computationalOptions
		if len(q.Options) > 0 {
			if err := json.Unmarshal(q.Options, &opts); err != nil {
				return nil, malformed("computational options unreadable")
			}
		}
		mode := ComputationalMode(opts.Mode)
		if mode == "" {
			mode = ComputationalNumeric
		}
		if mode == ComputationalFormula {
			return ComputationalPayload{Mode: mode}, nil
		}
		if mode != ComputationalNumeric {
			return nil, malformed("unknown computational mode")
		}
		answer, ok := decodeNumber(q.CorrectAnswer)
		if !ok {
			return nil, malformed("computational answer must be numeric")
		}
		return ComputationalPayload{Mode: mode, Answer: answer, Tolerance: opts.Tolerance}, nil

	case QuestionCoding, QuestionEssay, QuestionDiagram, QuestionOral:
		return ManualPayload{}, nil
	}

	return nil, malformed("unknown question type")
}

// DecodeResponsePayload validates a response's raw responseData against the
// shape expected for the question type.
func DecodeResponsePayload(q Question, raw json.RawMessage) (ResponsePayload, error) {
	malformed := func(reason string) error {
		return &ErrMalformedAnswer{QuestionID: q.ID, Reason: reason}
	}
	if len(raw) == 0 {
		return nil, malformed("empty response data")
	}

	switch q.Type {
	case QuestionTrueFalse:
		value, ok := decodeBool(raw)
		if !ok {
			return nil, malformed("true_false response must be a boolean")
		}
		return BoolResponse(value), nil

	case QuestionMultipleChoice, QuestionShortAnswer:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, malformed("response must be a string")
		}
		return TextResponse(text), nil

	case QuestionMultipleAnswer:
		var selected []string
		if err := json.Unmarshal(raw, &selected); err != nil {
			return nil, malformed("response must be a list of choice ids")
		}
		return MultiResponse(selected), nil

	case QuestionMatching:
		pairs := map[string]string{}
		if err := json.Unmarshal(raw, &pairs); err != nil {
			return nil, malformed("response must map left values to right values")
		}
		return MatchResponse(pairs), nil

	case QuestionFillInBlank:
		var answers []string
		if err := json.Unmarshal(raw, &answers); err != nil {
			return nil, malformed("response must be a list of blank answers")
		}
		return BlanksResponse(answers), nil

	case QuestionComputational:
		if value, ok := decodeNumber(raw); ok {
			return NumberResponse(value), nil
		}
		// Formula-mode answers are free text; numeric strategies reject
		// text responses on their own.
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, malformed("response must be numeric or a formula string")
		}
		return TextResponse(text), nil

	case QuestionCoding, QuestionEssay, QuestionDiagram, QuestionOral:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			// Free-form attachments are acceptable; the content is never
			// inspected because these types always go to a human.
			return TextResponse(""), nil
		}
		return TextResponse(text), nil
	}

	return nil, malformed("unknown question type")
}

func decodeBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func decodeNumber(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// decodeBlanks accepts either a single accepted answer or a list of accepted
// alternatives per blank.
func decodeBlanks(raw json.RawMessage) ([][]string, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return nil, fmt.Errorf("fill_in_blank requires a list of blank answers")
	}
	blanks := make([][]string, 0, len(entries))
	for _, entry := range entries {
		var single string
		if err := json.Unmarshal(entry, &single); err == nil {
			blanks = append(blanks, []string{single})
			continue
		}
		var many []string
		if err := json.Unmarshal(entry, &many); err != nil || len(many) == 0 {
			return nil, fmt.Errorf("blank must be a string or list of accepted answers")
		}
		blanks = append(blanks, many)
	}
	return blanks, nil
}
