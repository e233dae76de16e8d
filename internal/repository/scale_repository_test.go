package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScaleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScaleRepositoryFindByCourse(t *testing.T) {
	db, mock, cleanup := newScaleRepoMock(t)
	defer cleanup()
	repo := NewScaleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, name FROM grading_scales WHERE course_id = $1")).
		WithArgs("course-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "name"}).AddRow("scale-1", "course-1", "Standard"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, scale_id, grade, min_score, max_score FROM grade_thresholds")).
		WithArgs("scale-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "scale_id", "grade", "min_score", "max_score"}).
			AddRow("t-1", "scale-1", "A", 90.0, 100.0).
			AddRow("t-2", "scale-1", "B", 80.0, 89.99))

	scale, err := repo.FindByCourse(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, scale.Thresholds, 2)
	assert.Equal(t, "A", scale.Thresholds[0].Grade)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScaleRepositoryFindByCourseMissing(t *testing.T) {
	db, mock, cleanup := newScaleRepoMock(t)
	defer cleanup()
	repo := NewScaleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, name FROM grading_scales WHERE course_id = $1")).
		WithArgs("course-9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByCourse(context.Background(), "course-9")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
