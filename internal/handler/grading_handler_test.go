package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/grading-api/internal/middleware"
	"github.com/campusgrid/grading-api/internal/models"
	"github.com/campusgrid/grading-api/internal/service"
	appErrors "github.com/campusgrid/grading-api/pkg/errors"
)

type gradingServiceMock struct {
	gradeResult  *models.SubmissionGradingResult
	gradeErr     error
	manualResult *models.ManualGradeResult
	manualErr    error
	manualReq    *service.ManualGradeRequest
}

func (m *gradingServiceMock) GradeSubmission(_ context.Context, _ string) (*models.SubmissionGradingResult, error) {
	return m.gradeResult, m.gradeErr
}

func (m *gradingServiceMock) ManualGradeQuestion(_ context.Context, req service.ManualGradeRequest) (*models.ManualGradeResult, error) {
	m.manualReq = &req
	return m.manualResult, m.manualErr
}

func TestGradingHandlerGradeSubmission(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &gradingServiceMock{gradeResult: &models.SubmissionGradingResult{SubmissionID: "sub-1", TotalScore: 10, MaxPoints: 10, Finalized: true}}
	handler := NewGradingHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/submissions/sub-1/grade", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "submissionId", Value: "sub-1"}}

	handler.GradeSubmission(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sub-1")
}

func TestGradingHandlerGradeSubmissionConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &gradingServiceMock{gradeErr: appErrors.ErrAlreadyGraded}
	handler := NewGradingHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/submissions/sub-1/grade", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "submissionId", Value: "sub-1"}}

	handler.GradeSubmission(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_GRADED")
}

func TestGradingHandlerGradeResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &gradingServiceMock{manualResult: &models.ManualGradeResult{ResponseID: "resp-1", SubmissionID: "sub-1", Score: 15}}
	handler := NewGradingHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]any{"score": 15})
	req, _ := http.NewRequest(http.MethodPost, "/responses/resp-1/grade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "responseId", Value: "resp-1"}}
	c.Set(middleware.ContextUserKey, &models.GraderClaims{GraderID: "grader-1", Role: models.RoleTeacher})

	handler.GradeResponse(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.manualReq)
	assert.Equal(t, "resp-1", mock.manualReq.ResponseID)
	assert.Equal(t, "grader-1", mock.manualReq.GradedBy)
}

func TestGradingHandlerGradeResponseRequiresGrader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGradingHandler(&gradingServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(map[string]any{"score": 15})
	req, _ := http.NewRequest(http.MethodPost, "/responses/resp-1/grade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "responseId", Value: "resp-1"}}

	handler.GradeResponse(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGradingHandlerGradeResponseInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewGradingHandler(&gradingServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/responses/resp-1/grade", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.GraderClaims{GraderID: "grader-1"})

	handler.GradeResponse(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
