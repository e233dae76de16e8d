package grading

import (
	"math"

	"github.com/campusgrid/grading-api/internal/models"
)

// Feedback constants for outcomes that do not depend on the question type.
const (
	FeedbackNoResponse    = "No response provided"
	FeedbackInvalidFormat = "Invalid answer format"
	FeedbackManualNeeded  = "Manual grading required"
)

// DefaultSimilarityThreshold applies to short-answer questions without a
// threshold of their own.
const DefaultSimilarityThreshold = 0.8

// halfCreditBand is the fraction of the similarity threshold below which a
// short answer earns nothing instead of half credit.
const halfCreditBand = 0.7

// Result is the outcome of grading a single question response.
type Result struct {
	Score       float64
	Feedback    string
	NeedsManual bool
}

// Strategy grades one question type. Implementations are pure: they never
// touch storage and are deterministic for a given question/response pair.
type Strategy interface {
	Grade(q models.Question, payload models.QuestionPayload, response models.ResponsePayload) Result
}

// Config tunes the built-in strategies.
type Config struct {
	DefaultSimilarityThreshold float64
}

// Grader dispatches question/response pairs to the strategy registered for
// the question type.
type Grader struct {
	strategies map[models.QuestionType]Strategy
}

// NewGrader installs one strategy per question type.
func NewGrader(cfg Config) *Grader {
	threshold := cfg.DefaultSimilarityThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	manual := manualStrategy{}
	return &Grader{
		strategies: map[models.QuestionType]Strategy{
			models.QuestionTrueFalse:      trueFalseStrategy{},
			models.QuestionMultipleChoice: multipleChoiceStrategy{},
			models.QuestionMultipleAnswer: multipleAnswerStrategy{},
			models.QuestionMatching:       matchingStrategy{},
			models.QuestionFillInBlank:    fillInBlankStrategy{},
			models.QuestionShortAnswer: shortAnswerStrategy{
				scorer:           NewSimilarityScorer(),
				defaultThreshold: threshold,
			},
			models.QuestionComputational: computationalStrategy{},
			models.QuestionCoding:        manual,
			models.QuestionEssay:         manual,
			models.QuestionDiagram:       manual,
			models.QuestionOral:          manual,
		},
	}
}

// Grade runs the per-question pipeline: manual-only short circuit, missing
// response, payload validation, then the type-specific strategy. Malformed
// stored data is a local zero-credit outcome, never an error.
func (g *Grader) Grade(q models.Question, resp *models.Response) Result {
	if q.Metadata.RequiresManualGrading {
		return Result{NeedsManual: true, Feedback: FeedbackManualNeeded}
	}
	if resp == nil || len(resp.ResponseData) == 0 {
		return Result{Feedback: FeedbackNoResponse}
	}

	payload, err := models.DecodeQuestionPayload(q)
	if err != nil {
		return Result{Feedback: FeedbackInvalidFormat}
	}
	response, err := models.DecodeResponsePayload(q, resp.ResponseData)
	if err != nil {
		return Result{Feedback: FeedbackInvalidFormat}
	}

	strategy, ok := g.strategies[q.Type]
	if !ok {
		return Result{Feedback: FeedbackInvalidFormat}
	}
	return strategy.Grade(q, payload, response)
}

// round2 rounds to two decimal places, banker's rounding.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func invalid() Result {
	return Result{Feedback: FeedbackInvalidFormat}
}
