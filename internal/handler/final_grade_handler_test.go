package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/grading-api/internal/models"
	"github.com/campusgrid/grading-api/internal/service"
	appErrors "github.com/campusgrid/grading-api/pkg/errors"
)

type finalGradeServiceMock struct {
	breakdown *models.FinalGradeBreakdown
	err       error
}

func (m *finalGradeServiceMock) GetFinalGrade(_ context.Context, _, _ string) (*models.FinalGradeBreakdown, error) {
	return m.breakdown, m.err
}

func (m *finalGradeServiceMock) CalculateFinalGrade(_ context.Context, _, _ string) (*models.FinalGradeBreakdown, error) {
	return m.breakdown, m.err
}

type finalGradeExporterMock struct {
	file *service.ExportFile
	err  error
}

func (m *finalGradeExporterMock) FinalGradeExport(_ context.Context, _, _, _ string) (*service.ExportFile, error) {
	return m.file, m.err
}

func finalGradeTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, nil)
	c.Request = req
	c.Params = gin.Params{
		{Key: "courseId", Value: "course-1"},
		{Key: "studentId", Value: "stu-1"},
	}
	return c, w
}

func TestFinalGradeHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	letter := "B"
	mock := &finalGradeServiceMock{breakdown: &models.FinalGradeBreakdown{
		StudentID:    "stu-1",
		CourseID:     "course-1",
		FinalGrade:   84,
		LetterGrade:  &letter,
		CalculatedAt: time.Now().UTC(),
	}}
	handler := NewFinalGradeHandler(mock, &finalGradeExporterMock{})

	c, w := finalGradeTestContext(http.MethodGet, "/courses/course-1/students/stu-1/final-grade")
	handler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"final_grade":84`)
	assert.Contains(t, w.Body.String(), `"letter_grade":"B"`)
}

func TestFinalGradeHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewFinalGradeHandler(&finalGradeServiceMock{err: appErrors.ErrNotFound}, &finalGradeExporterMock{})

	c, w := finalGradeTestContext(http.MethodGet, "/courses/course-1/students/stu-1/final-grade")
	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestFinalGradeHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &finalGradeExporterMock{file: &service.ExportFile{
		FileName:    "final-grade-course-1-stu-1.csv",
		ContentType: "text/csv",
		Content:     []byte("Category,Weight\n"),
	}}
	handler := NewFinalGradeHandler(&finalGradeServiceMock{}, mock)

	c, w := finalGradeTestContext(http.MethodGet, "/courses/course-1/students/stu-1/final-grade/export?format=csv")
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "final-grade-course-1-stu-1.csv")
	assert.Equal(t, "Category,Weight\n", w.Body.String())
}

func TestFinalGradeHandlerExportInvalidFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewFinalGradeHandler(&finalGradeServiceMock{}, &finalGradeExporterMock{err: appErrors.ErrValidation})

	c, w := finalGradeTestContext(http.MethodGet, "/courses/course-1/students/stu-1/final-grade/export?format=xlsx")
	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
