package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"haushaltsbuch/internal/aggregate"
	"haushaltsbuch/internal/normalize"
	"haushaltsbuch/internal/pagination"
	"haushaltsbuch/internal/services"
)

// LineHandler handles line and subitem requests
type LineHandler struct {
	lineService  services.LineServicer
	auditService services.AuditServicer
}

// NewLineHandler creates a new LineHandler
func NewLineHandler(lineService services.LineServicer, auditService services.AuditServicer) *LineHandler {
	return &LineHandler{lineService: lineService, auditService: auditService}
}

// ListLinesQuery holds the query parameters of the line listing.
type ListLinesQuery struct {
	Sort string `form:"sort" binding:"omitempty,sort_mode"`
	pagination.PageRequest
}

// CreateLineRequest represents the request payload for creating a line.
// Amounts that cannot be read as numbers become 0.
type CreateLineRequest struct {
	Label      string                  `json:"label" binding:"required,not_blank,max=200"`
	Type       string                  `json:"type" binding:"required,line_type"`
	Category   normalize.Text          `json:"category" swaggertype:"string"`
	BaseAmount normalize.Amount        `json:"base_amount" swaggertype:"number"`
	Subitems   []services.SubitemInput `json:"subitems"`
	IsVariable normalize.Flag          `json:"is_variable" swaggertype:"boolean"`
}

// UpdateLineRequest represents a partial line update. Absent fields are left
// alone; subitems, when given as a list, replace the existing ones.
type UpdateLineRequest struct {
	Label      normalize.Text   `json:"label" swaggertype:"string"`
	Type       normalize.Text   `json:"type" swaggertype:"string"`
	Category   normalize.Text   `json:"category" swaggertype:"string"`
	BaseAmount normalize.Amount `json:"base_amount" swaggertype:"number"`
	Subitems   json.RawMessage  `json:"subitems" swaggertype:"array,object"`
	IsVariable normalize.Flag   `json:"is_variable" swaggertype:"boolean"`
}

// ListLines returns the user's lines
// @Summary     List lines
// @Description List the authenticated user's lines. With page set, the result is wrapped in a page envelope.
// @Tags        lines
// @Produce     json
// @Security    BearerAuth
// @Param       sort      query string false "Sort mode" Enums(none, category, label)
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size (max 100)"
// @Success     200 {array}  models.Line "Lines"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Invalid sort mode"
// @Router      /api/lines [get]
func (h *LineHandler) ListLines(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ListLinesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	lines, err := h.lineService.GetUserLines(c.Request.Context(), userID, aggregate.SortMode(q.Sort))
	if err != nil {
		respondWithError(c, err)
		return
	}

	if c.Query("page") != "" {
		c.JSON(http.StatusOK, pagination.Slice(lines, q.PageRequest))
		return
	}
	c.JSON(http.StatusOK, lines)
}

// GetLine returns a single line
// @Summary     Get a line
// @Tags        lines
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Line ID"
// @Success     200 {object} models.Line "Line"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Line not found"
// @Router      /api/lines/{id} [get]
func (h *LineHandler) GetLine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	line, err := h.lineService.GetLineByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, line)
}

// CreateLine creates a line
// @Summary     Create a line
// @Description Create an income or expense line. A blank category falls back to the default of the type.
// @Tags        lines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateLineRequest true "Line"
// @Success     201 {object} models.Line "Line created"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Invalid input"
// @Router      /api/lines [post]
func (h *LineHandler) CreateLine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	line, err := h.lineService.CreateLine(c.Request.Context(), userID, services.LineInput{
		Label:      req.Label,
		Type:       req.Type,
		Category:   req.Category.Value,
		BaseAmount: req.BaseAmount,
		Subitems:   req.Subitems,
		IsVariable: req.IsVariable,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_LINE", "line", line.ID, c.ClientIP(), map[string]interface{}{
		"label": line.Label,
		"type":  line.Type,
	})

	c.JSON(http.StatusCreated, line)
}

// UpdateLine updates a line
// @Summary     Update a line
// @Description Partially update one of the user's lines
// @Tags        lines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Line ID"
// @Param       request body UpdateLineRequest true "Fields to change"
// @Success     200 {object} models.Line "Updated line"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Line not found"
// @Failure     422 {object} ErrorResponse "Invalid input"
// @Router      /api/lines/{id} [put]
func (h *LineHandler) UpdateLine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	lineID := c.Param("id")
	line, err := h.lineService.UpdateLine(c.Request.Context(), userID, lineID, services.LinePatch{
		Label:      req.Label,
		Type:       req.Type,
		Category:   req.Category,
		BaseAmount: req.BaseAmount,
		Subitems:   subitemList(req.Subitems),
		IsVariable: req.IsVariable,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_LINE", "line", lineID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, line)
}

// DeleteLine deletes a line
// @Summary     Delete a line
// @Tags        lines
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Line ID"
// @Success     200 {object} map[string]bool "ok"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Line not found"
// @Router      /api/lines/{id} [delete]
func (h *LineHandler) DeleteLine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	lineID := c.Param("id")
	if err := h.lineService.DeleteLine(c.Request.Context(), userID, lineID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_LINE", "line", lineID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AddSubitem adds a subitem to a line
// @Summary     Add a subitem
// @Description Append a subitem. Once a line has subitems their sum replaces its base amount in totals.
// @Tags        lines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Line ID"
// @Param       request body services.SubitemInput true "Subitem"
// @Success     200 {object} models.Line "Updated line"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Line not found"
// @Router      /api/lines/{id}/subitems [post]
func (h *LineHandler) AddSubitem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.SubitemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	line, err := h.lineService.AddSubitem(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, line)
}

// DeleteSubitem removes a subitem from a line
// @Summary     Delete a subitem
// @Tags        lines
// @Produce     json
// @Security    BearerAuth
// @Param       id     path string true "Line ID"
// @Param       sub_id path string true "Subitem ID"
// @Success     200 {object} models.Line "Updated line"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Line or subitem not found"
// @Router      /api/lines/{id}/subitems/{sub_id} [delete]
func (h *LineHandler) DeleteSubitem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	line, err := h.lineService.DeleteSubitem(c.Request.Context(), userID, c.Param("id"), c.Param("sub_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, line)
}

// subitemList decodes a subitems field. Anything other than a list of
// objects, null included, leaves the subitems untouched.
func subitemList(raw json.RawMessage) *[]services.SubitemInput {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var subs []services.SubitemInput
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil
	}
	if subs == nil {
		subs = []services.SubitemInput{}
	}
	return &subs
}
