package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScale() *GradingScale {
	return &GradingScale{
		ID:       "scale-1",
		CourseID: "course-1",
		Name:     "Standard",
		Thresholds: []GradeThreshold{
			{Grade: "A", MinScore: 90, MaxScore: 100},
			{Grade: "B", MinScore: 80, MaxScore: 89.99},
			{Grade: "C", MinScore: 70, MaxScore: 79.99},
			{Grade: "D", MinScore: 60, MaxScore: 69.99},
			{Grade: "F", MinScore: 0, MaxScore: 59.99},
		},
	}
}

func TestGradingScale_ResolveBoundaries(t *testing.T) {
	scale := testScale()

	// Boundary values land on the higher letter: min is inclusive.
	got := scale.Resolve(90)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.Grade)

	got = scale.Resolve(89.99)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.Grade)

	got = scale.Resolve(100)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.Grade)

	got = scale.Resolve(0)
	require.NotNil(t, got)
	assert.Equal(t, "F", got.Grade)
}

func TestGradingScale_ResolveGapsAndNil(t *testing.T) {
	scale := testScale()

	// Values between thresholds resolve to no letter.
	assert.Nil(t, scale.Resolve(89.995))
	assert.Nil(t, scale.Resolve(101))
	assert.Nil(t, scale.Resolve(-1))

	var missing *GradingScale
	assert.Nil(t, missing.Resolve(95))

	empty := &GradingScale{}
	assert.Nil(t, empty.Resolve(95))
}
