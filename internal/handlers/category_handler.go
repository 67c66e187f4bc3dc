package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haushaltsbuch/internal/normalize"
	"haushaltsbuch/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// RenameCategoryRequest represents the request payload for renaming a category
type RenameCategoryRequest struct {
	Old normalize.Text `json:"old" swaggertype:"string"`
	New normalize.Text `json:"new" swaggertype:"string"`
}

// DeleteCategoryResponse reports where the lines of a deleted category went.
// RenamedTo is null when they went to the default category of their type.
type DeleteCategoryResponse struct {
	OK        bool    `json:"ok"`
	RenamedTo *string `json:"renamed_to"`
	Updated   int     `json:"updated"`
}

// RenameCategoryResponse reports how many lines were renamed.
type RenameCategoryResponse struct {
	OK      bool `json:"ok"`
	Updated int  `json:"updated"`
}

// GetUserCategories lists the categories in use
// @Summary     List categories
// @Description Distinct categories of the authenticated user's lines, sorted
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  string "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /api/categories [get]
func (h *CategoryHandler) GetUserCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.GetUserCategories(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// DeleteCategory removes a category from the user's lines
// @Summary     Delete a category
// @Description Move every line in the category to target, or to the default category of the line's type
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       name   path  string true  "Category name (case-insensitive)"
// @Param       target query string false "Category to move the lines to"
// @Success     200 {object} DeleteCategoryResponse "Lines reassigned"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Invalid input"
// @Router      /api/categories/{name} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	name := c.Param("name")
	target := c.Query("target")

	updated, err := h.categoryService.DeleteCategory(c.Request.Context(), userID, name, target)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := DeleteCategoryResponse{OK: true, Updated: updated}
	if target != "" {
		resp.RenamedTo = &target
	}

	h.auditService.Log(userID, "DELETE_CATEGORY", "category", name, c.ClientIP(), map[string]interface{}{
		"target":  target,
		"updated": updated,
	})

	c.JSON(http.StatusOK, resp)
}

// RenameCategory renames a category on the user's lines
// @Summary     Rename a category
// @Description Set every line in category old (case-insensitive) to exactly new
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RenameCategoryRequest true "Old and new name"
// @Success     200 {object} RenameCategoryResponse "Lines renamed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Invalid input"
// @Router      /api/categories/rename [post]
func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	updated, err := h.categoryService.RenameCategory(c.Request.Context(), userID, req.Old.Value, req.New.Value)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RENAME_CATEGORY", "category", req.Old.Value, c.ClientIP(), map[string]interface{}{
		"new":     req.New.Value,
		"updated": updated,
	})

	c.JSON(http.StatusOK, RenameCategoryResponse{OK: true, Updated: updated})
}
