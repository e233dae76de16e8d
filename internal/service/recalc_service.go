package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusgrid/grading-api/internal/models"
	"github.com/campusgrid/grading-api/pkg/jobs"
)

type courseResolver interface {
	FindCourseByAssignment(ctx context.Context, assignmentID string) (string, error)
}

type finalGradeCalculator interface {
	CalculateFinalGrade(ctx context.Context, courseID, studentID string) (*models.FinalGradeBreakdown, error)
}

type recalcObserver interface {
	ObserveRecalc(duration time.Duration)
}

const jobTypeFinalGradeRecalc = "final_grade_recalc"

type recalcPayload struct {
	StudentID    string
	AssignmentID string
}

// RecalcService recomputes final grades in the background after a submission
// finalizes, so the grading request never waits on aggregation.
type RecalcService struct {
	queue      *jobs.Queue
	courses    courseResolver
	calculator finalGradeCalculator
	metrics    recalcObserver
	logger     *zap.Logger
}

// NewRecalcService builds the service and its backing queue. The metrics
// collaborator is optional.
func NewRecalcService(courses courseResolver, calculator finalGradeCalculator, metrics recalcObserver, cfg jobs.QueueConfig, logger *zap.Logger) *RecalcService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RecalcService{
		courses:    courses,
		calculator: calculator,
		metrics:    metrics,
		logger:     logger,
	}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("final-grade-recalc", s.handle, cfg)
	return s
}

// Start begins background processing.
func (s *RecalcService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *RecalcService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// EnqueueRecalc schedules a final-grade recalculation for the student whose
// submission just finalized. Failures are logged, never surfaced: the grading
// write has already committed.
func (s *RecalcService) EnqueueRecalc(studentID, assignmentID string) {
	if s == nil {
		return
	}
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobTypeFinalGradeRecalc,
		Payload: recalcPayload{StudentID: studentID, AssignmentID: assignmentID},
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Sugar().Errorw("failed to enqueue final grade recalc",
			"student_id", studentID,
			"assignment_id", assignmentID,
			"error", err,
		)
	}
}

func (s *RecalcService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(recalcPayload)
	if !ok {
		return fmt.Errorf("unexpected payload type for job %s", job.ID)
	}
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveRecalc(time.Since(start))
		}
	}()
	courseID, err := s.courses.FindCourseByAssignment(ctx, payload.AssignmentID)
	if err != nil {
		return fmt.Errorf("resolve course for assignment %s: %w", payload.AssignmentID, err)
	}
	if _, err := s.calculator.CalculateFinalGrade(ctx, courseID, payload.StudentID); err != nil {
		return fmt.Errorf("recalculate final grade for student %s in course %s: %w", payload.StudentID, courseID, err)
	}
	return nil
}
