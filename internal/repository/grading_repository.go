package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/grading-api/internal/models"
)

// ErrSubmissionGraded signals that a write raced with (or arrived after) a
// finalizing grading pass. The service layer maps it to a conflict.
var ErrSubmissionGraded = errors.New("submission already graded")

// GradingUpdate is the complete outcome of one automated grading pass,
// applied atomically.
type GradingUpdate struct {
	SubmissionID string
	Scores       []models.ResponseScore
	TotalScore   float64
	Finalize     bool
}

// ManualGradeUpdate records one human-assigned score.
type ManualGradeUpdate struct {
	ResponseID string
	Score      float64
	Feedback   *string
	GradedBy   string
}

// GradingRepository persists grading outcomes for submissions and responses.
type GradingRepository struct {
	db *sqlx.DB
}

// NewGradingRepository constructs the repository.
func NewGradingRepository(db *sqlx.DB) *GradingRepository {
	return &GradingRepository{db: db}
}

// jsonb columns scan as []byte because the driver hands over nil for SQL
// NULL, which json.RawMessage targets reject.
type questionResponseRow struct {
	QuestionID    string          `db:"question_id"`
	AssignmentID  string          `db:"assignment_id"`
	Type          string          `db:"type"`
	Points        float64         `db:"points"`
	Options       []byte          `db:"options"`
	CorrectAnswer []byte          `db:"correct_answer"`
	Metadata      []byte          `db:"metadata"`
	OrderNum      int             `db:"order_num"`
	ResponseID    sql.NullString  `db:"response_id"`
	ResponseData  []byte          `db:"response_data"`
	Score         sql.NullFloat64 `db:"score"`
	Feedback      sql.NullString  `db:"feedback"`
}

// ListQuestionsWithResponses returns every question of the submission's
// assignment in presentation order, each paired with the student's response
// when one exists.
func (r *GradingRepository) ListQuestionsWithResponses(ctx context.Context, submissionID string) ([]models.QuestionWithResponse, error) {
	const query = `SELECT q.id AS question_id, q.assignment_id, q.type, q.points, q.options, q.correct_answer, q.metadata, q.order_num,
        r.id AS response_id, r.response_data, r.score, r.feedback
        FROM submissions s
        JOIN questions q ON q.assignment_id = s.assignment_id
        LEFT JOIN responses r ON r.submission_id = s.id AND r.question_id = q.id
        WHERE s.id = $1
        ORDER BY q.order_num, q.id`
	rows, err := r.db.QueryxContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list submission questions: %w", err)
	}
	defer rows.Close()

	var result []models.QuestionWithResponse
	for rows.Next() {
		var row questionResponseRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan submission question: %w", err)
		}
		item := models.QuestionWithResponse{
			Question: models.Question{
				ID:            row.QuestionID,
				AssignmentID:  row.AssignmentID,
				Type:          models.QuestionType(row.Type),
				Points:        row.Points,
				Options:       json.RawMessage(row.Options),
				CorrectAnswer: json.RawMessage(row.CorrectAnswer),
				OrderNum:      row.OrderNum,
			},
		}
		if len(row.Metadata) > 0 {
			if err := json.Unmarshal(row.Metadata, &item.Question.Metadata); err != nil {
				return nil, fmt.Errorf("decode question metadata %s: %w", row.QuestionID, err)
			}
		}
		if row.ResponseID.Valid {
			resp := &models.Response{
				ID:           row.ResponseID.String,
				SubmissionID: submissionID,
				QuestionID:   row.QuestionID,
				ResponseData: json.RawMessage(row.ResponseData),
			}
			if row.Score.Valid {
				score := row.Score.Float64
				resp.Score = &score
			}
			if row.Feedback.Valid {
				feedback := row.Feedback.String
				resp.Feedback = &feedback
			}
			item.Response = resp
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// ApplyGrading writes an automated grading pass in one transaction. The
// submission row is locked first and its status re-checked, so two
// overlapping passes serialize and the loser sees ErrSubmissionGraded.
func (r *GradingRepository) ApplyGrading(ctx context.Context, update GradingUpdate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin grading tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	status, err := lockSubmission(ctx, tx, update.SubmissionID)
	if err != nil {
		return err
	}
	if status == models.SubmissionStatusGraded {
		return ErrSubmissionGraded
	}

	now := time.Now().UTC()
	const scoreQuery = `UPDATE responses SET score = $2, feedback = $3, graded_at = $4, graded_by = NULL WHERE id = $1`
	for _, s := range update.Scores {
		if _, err := tx.ExecContext(ctx, scoreQuery, s.ResponseID, s.Score, s.Feedback, now); err != nil {
			return fmt.Errorf("write response score %s: %w", s.ResponseID, err)
		}
	}

	if update.Finalize {
		// Automated passes carry no grader identity, so graded_by stays NULL.
		const finalizeQuery = `UPDATE submissions SET status = $2, total_score = $3, graded_at = $4 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, finalizeQuery, update.SubmissionID, models.SubmissionStatusGraded, update.TotalScore, now); err != nil {
			return fmt.Errorf("finalize submission %s: %w", update.SubmissionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grading tx: %w", err)
	}
	return nil
}

// FindResponseContext loads a response together with its submission and
// question, as the manual grading path needs all three.
func (r *GradingRepository) FindResponseContext(ctx context.Context, responseID string) (*models.ResponseContext, error) {
	const query = `SELECT r.id AS response_id, r.submission_id, r.question_id, r.response_data, r.score, r.feedback,
        s.assignment_id, s.student_id, s.status, s.total_score,
        q.type, q.points, q.metadata, q.order_num
        FROM responses r
        JOIN submissions s ON s.id = r.submission_id
        JOIN questions q ON q.id = r.question_id
        WHERE r.id = $1`
	var row struct {
		ResponseID   string          `db:"response_id"`
		SubmissionID string          `db:"submission_id"`
		QuestionID   string          `db:"question_id"`
		ResponseData []byte          `db:"response_data"`
		Score        sql.NullFloat64 `db:"score"`
		Feedback     sql.NullString  `db:"feedback"`
		AssignmentID string          `db:"assignment_id"`
		StudentID    string          `db:"student_id"`
		Status       string          `db:"status"`
		TotalScore   sql.NullFloat64 `db:"total_score"`
		Type         string          `db:"type"`
		Points       float64         `db:"points"`
		Metadata     []byte          `db:"metadata"`
		OrderNum     int             `db:"order_num"`
	}
	if err := r.db.GetContext(ctx, &row, query, responseID); err != nil {
		return nil, err
	}

	rc := &models.ResponseContext{
		Response: models.Response{
			ID:           row.ResponseID,
			SubmissionID: row.SubmissionID,
			QuestionID:   row.QuestionID,
			ResponseData: json.RawMessage(row.ResponseData),
		},
		Submission: models.Submission{
			ID:           row.SubmissionID,
			AssignmentID: row.AssignmentID,
			StudentID:    row.StudentID,
			Status:       models.SubmissionStatus(row.Status),
		},
		Question: models.Question{
			ID:           row.QuestionID,
			AssignmentID: row.AssignmentID,
			Type:         models.QuestionType(row.Type),
			Points:       row.Points,
			OrderNum:     row.OrderNum,
		},
	}
	if row.Score.Valid {
		score := row.Score.Float64
		rc.Response.Score = &score
	}
	if row.Feedback.Valid {
		feedback := row.Feedback.String
		rc.Response.Feedback = &feedback
	}
	if row.TotalScore.Valid {
		total := row.TotalScore.Float64
		rc.Submission.TotalScore = &total
	}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &rc.Question.Metadata); err != nil {
			return nil, fmt.Errorf("decode question metadata %s: %w", row.QuestionID, err)
		}
	}
	return rc, nil
}

// ApplyManualGrade records a human-assigned score and finalizes the
// submission once every question of its assignment carries a score.
func (r *GradingRepository) ApplyManualGrade(ctx context.Context, update ManualGradeUpdate) (*models.ManualGradeResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin manual grade tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var submissionID string
	const findQuery = `SELECT submission_id FROM responses WHERE id = $1`
	if err := tx.GetContext(ctx, &submissionID, findQuery, update.ResponseID); err != nil {
		return nil, err
	}

	status, err := lockSubmission(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}
	if status == models.SubmissionStatusGraded {
		return nil, ErrSubmissionGraded
	}

	now := time.Now().UTC()
	const scoreQuery = `UPDATE responses SET score = $2, feedback = $3, graded_at = $4, graded_by = $5 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, scoreQuery, update.ResponseID, update.Score, update.Feedback, now, update.GradedBy); err != nil {
		return nil, fmt.Errorf("write manual score %s: %w", update.ResponseID, err)
	}

	// The submission finalizes only when every question of the assignment
	// has a scored response.
	const unscoredQuery = `SELECT COUNT(*) FROM questions q
        JOIN submissions s ON s.assignment_id = q.assignment_id
        WHERE s.id = $1 AND NOT EXISTS (
            SELECT 1 FROM responses r
            WHERE r.submission_id = s.id AND r.question_id = q.id AND r.score IS NOT NULL
        )`
	var unscored int
	if err := tx.GetContext(ctx, &unscored, unscoredQuery, submissionID); err != nil {
		return nil, fmt.Errorf("count unscored questions: %w", err)
	}

	result := &models.ManualGradeResult{
		ResponseID:   update.ResponseID,
		SubmissionID: submissionID,
		Score:        update.Score,
		GradedAt:     now,
	}

	if unscored == 0 {
		const totalQuery = `SELECT COALESCE(SUM(score), 0) FROM responses WHERE submission_id = $1`
		var total float64
		if err := tx.GetContext(ctx, &total, totalQuery, submissionID); err != nil {
			return nil, fmt.Errorf("sum submission scores: %w", err)
		}
		const finalizeQuery = `UPDATE submissions SET status = $2, total_score = $3, graded_at = $4, graded_by = $5 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, finalizeQuery, submissionID, models.SubmissionStatusGraded, total, now, update.GradedBy); err != nil {
			return nil, fmt.Errorf("finalize submission %s: %w", submissionID, err)
		}
		result.Finalized = true
		result.TotalScore = &total
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit manual grade tx: %w", err)
	}
	return result, nil
}

func lockSubmission(ctx context.Context, tx *sqlx.Tx, submissionID string) (models.SubmissionStatus, error) {
	const query = `SELECT status FROM submissions WHERE id = $1 FOR UPDATE`
	var status models.SubmissionStatus
	if err := tx.GetContext(ctx, &status, query, submissionID); err != nil {
		return "", err
	}
	return status, nil
}
