package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusgrid/grading-api/internal/models"
	appErrors "github.com/campusgrid/grading-api/pkg/errors"
)

type categoryReader interface {
	ListWithAssignments(ctx context.Context, courseID string) ([]models.CategoryAssignments, error)
}

type gradedTotalsReader interface {
	ListGradedTotals(ctx context.Context, studentID string, assignmentIDs []string) (map[string]float64, error)
}

type enrollmentStore interface {
	FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	UpdateFinalGrade(ctx context.Context, enrollmentID string, finalGrade float64) error
}

type scaleReader interface {
	FindByCourse(ctx context.Context, courseID string) (*models.GradingScale, error)
}

type breakdownCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// AggregationService computes weighted final grades across assignment
// categories and resolves them against the course's grading scale.
type AggregationService struct {
	categories  categoryReader
	submissions gradedTotalsReader
	enrollments enrollmentStore
	scales      scaleReader
	cache       breakdownCache
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAggregationService constructs AggregationService. The cache is optional.
func NewAggregationService(categories categoryReader, submissions gradedTotalsReader, enrollments enrollmentStore, scales scaleReader, cache breakdownCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AggregationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &AggregationService{
		categories:  categories,
		submissions: submissions,
		enrollments: enrollments,
		scales:      scales,
		cache:       cache,
		cacheTTL:    cacheTTL,
		validator:   validate,
		logger:      logger,
	}
}

func finalGradeCacheKey(courseID, studentID string) string {
	return fmt.Sprintf("final_grade:%s:%s", courseID, studentID)
}

// GetFinalGrade returns the cached breakdown when available and falls back to
// a fresh calculation.
func (s *AggregationService) GetFinalGrade(ctx context.Context, courseID, studentID string) (*models.FinalGradeBreakdown, error) {
	if courseID == "" || studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id and student id required")
	}
	if s.cache != nil {
		var cached models.FinalGradeBreakdown
		if err := s.cache.Get(ctx, finalGradeCacheKey(courseID, studentID), &cached); err == nil {
			return &cached, nil
		}
	}
	return s.CalculateFinalGrade(ctx, courseID, studentID)
}

// CalculateFinalGrade recomputes the student's weighted final grade for the
// course, persists it on the enrollment and refreshes the cache.
//
// Every published assignment counts toward its category's denominator;
// assignments without a graded submission earn zero. Each category contributes
// percentage * weight / 100, a category with no assignments contributes zero,
// and weights are applied as stored, with no requirement that they sum to 100.
func (s *AggregationService) CalculateFinalGrade(ctx context.Context, courseID, studentID string) (*models.FinalGradeBreakdown, error) {
	if courseID == "" || studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course id and student id required")
	}

	enrollment, err := s.enrollments.FindByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	categories, err := s.categories.ListWithAssignments(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course categories")
	}

	var assignmentIDs []string
	for _, c := range categories {
		for _, a := range c.Assignments {
			assignmentIDs = append(assignmentIDs, a.ID)
		}
	}
	totals, err := s.submissions.ListGradedTotals(ctx, studentID, assignmentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load graded totals")
	}

	breakdown := &models.FinalGradeBreakdown{
		StudentID:      studentID,
		CourseID:       courseID,
		CategoryGrades: make([]models.CategoryGrade, 0, len(categories)),
		CalculatedAt:   time.Now().UTC(),
	}

	var weighted float64
	for _, c := range categories {
		grade := models.CategoryGrade{
			CategoryID:  c.Category.ID,
			Name:        c.Category.Name,
			Weight:      c.Category.Weight,
			Assignments: make([]models.AssignmentGrade, 0, len(c.Assignments)),
		}
		var earned, possible float64
		for _, a := range c.Assignments {
			total, graded := totals[a.ID]
			grade.Assignments = append(grade.Assignments, models.AssignmentGrade{
				AssignmentID: a.ID,
				Title:        a.Title,
				TotalPoints:  a.TotalPoints,
				EarnedPoints: total,
				Graded:       graded,
			})
			earned += total
			possible += a.TotalPoints
		}
		if possible > 0 {
			grade.Percentage = round2(earned / possible * 100)
			grade.WeightedScore = round2(grade.Percentage * grade.Weight / 100)
			weighted += grade.Percentage * grade.Weight / 100
		} else {
			grade.Empty = true
		}
		breakdown.CategoryGrades = append(breakdown.CategoryGrades, grade)
	}
	breakdown.FinalGrade = round2(weighted)

	scale, err := s.scales.FindByCourse(ctx, courseID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading scale")
	}
	if threshold := scale.Resolve(breakdown.FinalGrade); threshold != nil {
		letter := threshold.Grade
		breakdown.LetterGrade = &letter
	}

	if err := s.enrollments.UpdateFinalGrade(ctx, enrollment.ID, breakdown.FinalGrade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist final grade")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, finalGradeCacheKey(courseID, studentID), breakdown, s.cacheTTL); err != nil {
			s.logger.Sugar().Warnw("failed to cache final grade", "course_id", courseID, "student_id", studentID, "error", err)
		}
	}

	s.logger.Sugar().Infow("final grade calculated",
		"course_id", courseID,
		"student_id", studentID,
		"final_grade", breakdown.FinalGrade,
	)
	return breakdown, nil
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
