package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haushaltsbuch/internal/services"
)

// ReportHandler serves summaries and groupings
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetSummary returns income, expense and net totals
// @Summary     Summary
// @Description Income, expense, net and signed per-category totals of the authenticated user
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Summary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetGroups returns lines grouped by type and category
// @Summary     Groups
// @Description Lines bucketed by type and category, income first
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Group "Groups"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/groups [get]
func (h *ReportHandler) GetGroups(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groups, err := h.reportService.GetGroups(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}
