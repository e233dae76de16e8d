package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusgrid/grading-api/internal/models"
	"github.com/campusgrid/grading-api/internal/service"
	"github.com/campusgrid/grading-api/pkg/response"
)

type finalGradeService interface {
	GetFinalGrade(ctx context.Context, courseID, studentID string) (*models.FinalGradeBreakdown, error)
	CalculateFinalGrade(ctx context.Context, courseID, studentID string) (*models.FinalGradeBreakdown, error)
}

type finalGradeExporter interface {
	FinalGradeExport(ctx context.Context, courseID, studentID, format string) (*service.ExportFile, error)
}

// FinalGradeHandler exposes final-grade aggregation endpoints.
type FinalGradeHandler struct {
	aggregation finalGradeService
	exports     finalGradeExporter
}

// NewFinalGradeHandler constructs handler.
func NewFinalGradeHandler(aggregation finalGradeService, exports finalGradeExporter) *FinalGradeHandler {
	return &FinalGradeHandler{aggregation: aggregation, exports: exports}
}

// Get godoc
// @Summary Get a student's final grade
// @Description Returns the weighted final grade breakdown, served from cache when fresh.
// @Tags FinalGrades
// @Produce json
// @Param courseId path string true "Course ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{courseId}/students/{studentId}/final-grade [get]
func (h *FinalGradeHandler) Get(c *gin.Context) {
	breakdown, err := h.aggregation.GetFinalGrade(c.Request.Context(), c.Param("courseId"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breakdown, nil)
}

// Calculate godoc
// @Summary Recalculate a student's final grade
// @Description Recomputes the weighted final grade, persists it on the enrollment and refreshes the cache.
// @Tags FinalGrades
// @Produce json
// @Param courseId path string true "Course ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{courseId}/students/{studentId}/final-grade [post]
func (h *FinalGradeHandler) Calculate(c *gin.Context) {
	breakdown, err := h.aggregation.CalculateFinalGrade(c.Request.Context(), c.Param("courseId"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, breakdown, nil)
}

// Export godoc
// @Summary Export a student's final grade
// @Description Renders the final-grade breakdown as a downloadable CSV or PDF file.
// @Tags FinalGrades
// @Produce text/csv
// @Produce application/pdf
// @Param courseId path string true "Course ID"
// @Param studentId path string true "Student ID"
// @Param format query string true "Export format" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{courseId}/students/{studentId}/final-grade/export [get]
func (h *FinalGradeHandler) Export(c *gin.Context) {
	file, err := h.exports.FinalGradeExport(c.Request.Context(), c.Param("courseId"), c.Param("studentId"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
