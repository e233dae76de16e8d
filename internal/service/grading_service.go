package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusgrid/grading-api/internal/grading"
	"github.com/campusgrid/grading-api/internal/models"
	"github.com/campusgrid/grading-api/internal/repository"
	appErrors "github.com/campusgrid/grading-api/pkg/errors"
)

type submissionReader interface {
	FindByID(ctx context.Context, id string) (*models.Submission, error)
}

type gradingStore interface {
	ListQuestionsWithResponses(ctx context.Context, submissionID string) ([]models.QuestionWithResponse, error)
	ApplyGrading(ctx context.Context, update repository.GradingUpdate) error
	FindResponseContext(ctx context.Context, responseID string) (*models.ResponseContext, error)
	ApplyManualGrade(ctx context.Context, update repository.ManualGradeUpdate) (*models.ManualGradeResult, error)
}

type questionGrader interface {
	Grade(q models.Question, resp *models.Response) grading.Result
}

type recalcEnqueuer interface {
	EnqueueRecalc(studentID, assignmentID string)
}

type gradingObserver interface {
	RecordQuestionGraded(questionType models.QuestionType, needsManual bool)
	RecordSubmissionGraded(finalized bool)
}

// ManualGradeRequest carries one human-assigned score for a response.
type ManualGradeRequest struct {
	ResponseID string  `json:"response_id" validate:"required"`
	Score      float64 `json:"score" validate:"gte=0"`
	Feedback   *string `json:"feedback"`
	GradedBy   string  `json:"-"`
}

// GradingService orchestrates automated and manual grading of submissions.
type GradingService struct {
	submissions  submissionReader
	store        gradingStore
	grader       questionGrader
	recalc       recalcEnqueuer
	metrics      gradingObserver
	validator    *validator.Validate
	logger       *zap.Logger
	roundingMode func(float64) float64
}

// NewGradingService constructs GradingService. The recalc and metrics
// collaborators are optional.
func NewGradingService(submissions submissionReader, store gradingStore, grader questionGrader, recalc recalcEnqueuer, metrics gradingObserver, validate *validator.Validate, logger *zap.Logger) *GradingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingService{
		submissions:  submissions,
		store:        store,
		grader:       grader,
		recalc:       recalc,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		roundingMode: func(v float64) float64 { return math.RoundToEven(v*100) / 100 },
	}
}

// GradeSubmission runs the automated grading pipeline over every question of
// the submission's assignment. The pass is atomic: either every score and the
// submission status land together, or nothing changes.
func (s *GradingService) GradeSubmission(ctx context.Context, submissionID string) (*models.SubmissionGradingResult, error) {
	if submissionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "submission id required")
	}

	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	if submission.Status == models.SubmissionStatusGraded {
		return nil, appErrors.Clone(appErrors.ErrAlreadyGraded, "")
	}

	questions, err := s.store.ListQuestionsWithResponses(ctx, submissionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission questions")
	}

	result := &models.SubmissionGradingResult{
		SubmissionID:   submissionID,
		GradingResults: make([]models.QuestionGradingResult, 0, len(questions)),
	}
	var scores []models.ResponseScore
	for _, item := range questions {
		outcome := s.grader.Grade(item.Question, item.Response)

		entry := models.QuestionGradingResult{
			QuestionID:         item.Question.ID,
			Score:              outcome.Score,
			Feedback:           outcome.Feedback,
			NeedsManualGrading: outcome.NeedsManual,
		}
		if item.Response != nil {
			id := item.Response.ID
			entry.ResponseID = &id
			if !outcome.NeedsManual {
				scores = append(scores, models.ResponseScore{
					ResponseID: item.Response.ID,
					Score:      outcome.Score,
					Feedback:   outcome.Feedback,
				})
			}
		}
		result.GradingResults = append(result.GradingResults, entry)
		result.MaxPoints += item.Question.Points
		if outcome.NeedsManual {
			result.NeedsManualGrading = true
		} else {
			result.TotalScore += outcome.Score
		}
		if s.metrics != nil {
			s.metrics.RecordQuestionGraded(item.Question.Type, outcome.NeedsManual)
		}
	}
	result.TotalScore = s.roundingMode(result.TotalScore)
	result.Finalized = !result.NeedsManualGrading

	err = s.store.ApplyGrading(ctx, repository.GradingUpdate{
		SubmissionID: submissionID,
		Scores:       scores,
		TotalScore:   result.TotalScore,
		Finalize:     result.Finalized,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionGraded) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyGraded, "")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply grading")
	}

	s.logger.Sugar().Infow("submission graded",
		"submission_id", submissionID,
		"total_score", result.TotalScore,
		"max_points", result.MaxPoints,
		"finalized", result.Finalized,
	)
	if s.metrics != nil {
		s.metrics.RecordSubmissionGraded(result.Finalized)
	}
	if result.Finalized && s.recalc != nil {
		s.recalc.EnqueueRecalc(submission.StudentID, submission.AssignmentID)
	}
	return result, nil
}

// ManualGradeQuestion records a human-assigned score for one response and
// finalizes the submission once every question carries a score.
func (s *GradingService) ManualGradeQuestion(ctx context.Context, req ManualGradeRequest) (*models.ManualGradeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manual grade payload")
	}

	rc, err := s.store.FindResponseContext(ctx, req.ResponseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "response not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load response")
	}
	if rc.Submission.Status == models.SubmissionStatusGraded {
		return nil, appErrors.Clone(appErrors.ErrAlreadyGraded, "")
	}
	if req.Score > rc.Question.Points {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score exceeds question points")
	}

	result, err := s.store.ApplyManualGrade(ctx, repository.ManualGradeUpdate{
		ResponseID: req.ResponseID,
		Score:      s.roundingMode(req.Score),
		Feedback:   req.Feedback,
		GradedBy:   req.GradedBy,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionGraded) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyGraded, "")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "response not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply manual grade")
	}

	s.logger.Sugar().Infow("response manually graded",
		"response_id", req.ResponseID,
		"submission_id", result.SubmissionID,
		"graded_by", req.GradedBy,
		"finalized", result.Finalized,
	)
	if result.Finalized && s.recalc != nil {
		s.recalc.EnqueueRecalc(rc.Submission.StudentID, rc.Submission.AssignmentID)
	}
	return result, nil
}
