package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityScorer_ExactAndEmpty(t *testing.T) {
	s := NewSimilarityScorer()

	assert.Equal(t, 1.0, s.Score("photosynthesis", "photosynthesis"))
	assert.Equal(t, 1.0, s.Score("", ""))
	assert.Equal(t, 0.0, s.Score("photosynthesis", ""))
	assert.Equal(t, 0.0, s.Score("", "photosynthesis"))
}

func TestSimilarityScorer_CaseAndPunctuationInsensitive(t *testing.T) {
	s := NewSimilarityScorer()

	assert.Equal(t, 1.0, s.Score("The Mitochondria!", "the mitochondria"))
	assert.Equal(t, 1.0, s.Score("water,  cycle", "Water Cycle"))
}

func TestSimilarityScorer_StemsInflectedForms(t *testing.T) {
	s := NewSimilarityScorer()

	// Stemming maps inflected forms onto the same root.
	assert.Equal(t, 1.0, s.Score("running quickly", "runs quick"))
	assert.Equal(t, 1.0, s.Score("cells divide", "cell dividing"))
}

func TestSimilarityScorer_PartialOverlap(t *testing.T) {
	s := NewSimilarityScorer()

	score := s.Score("gravity pulls objects down", "gravity pushes objects up")
	assert.Greater(t, score, 0.5)
	assert.Less(t, score, 1.0)

	score = s.Score("photosynthesis", "mitochondria")
	assert.Less(t, score, 0.5)
}
