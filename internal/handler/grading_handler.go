package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgrid/grading-api/internal/models"
	"github.com/campusgrid/grading-api/internal/service"
	appErrors "github.com/campusgrid/grading-api/pkg/errors"
	"github.com/campusgrid/grading-api/pkg/response"
)

type gradingService interface {
	GradeSubmission(ctx context.Context, submissionID string) (*models.SubmissionGradingResult, error)
	ManualGradeQuestion(ctx context.Context, req service.ManualGradeRequest) (*models.ManualGradeResult, error)
}

// GradingHandler exposes submission and response grading endpoints.
type GradingHandler struct {
	grading gradingService
}

// NewGradingHandler constructs handler.
func NewGradingHandler(grading gradingService) *GradingHandler {
	return &GradingHandler{grading: grading}
}

type manualGradeBody struct {
	Score    float64 `json:"score"`
	Feedback *string `json:"feedback"`
}

// GradeSubmission godoc
// @Summary Grade a submission
// @Description Runs the automated grading pipeline over every question of the submission's assignment.
// @Tags Grading
// @Produce json
// @Param submissionId path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions/{submissionId}/grade [post]
func (h *GradingHandler) GradeSubmission(c *gin.Context) {
	result, err := h.grading.GradeSubmission(c.Request.Context(), c.Param("submissionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// GradeResponse godoc
// @Summary Manually grade a response
// @Description Records a human-assigned score for one response and finalizes the submission once every question is scored.
// @Tags Grading
// @Accept json
// @Produce json
// @Param responseId path string true "Response ID"
// @Param payload body manualGradeBody true "Manual grade payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /responses/{responseId}/grade [post]
func (h *GradingHandler) GradeResponse(c *gin.Context) {
	var body manualGradeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.grading.ManualGradeQuestion(c.Request.Context(), service.ManualGradeRequest{
		ResponseID: c.Param("responseId"),
		Score:      body.Score,
		Feedback:   body.Feedback,
		GradedBy:   claims.GraderID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
