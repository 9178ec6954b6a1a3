package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
	"marketplace-service/internal/services"
)

// CategoryHandler exposes category tree endpoints.
type CategoryHandler struct {
	categories services.CategoryService
}

func NewCategoryHandler(categories services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param category body models.CreateCategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	category, err := h.categories.CreateCategory(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory edits a category; moving it under a new parent re-derives
// its level.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	category, err := h.categories.UpdateCategory(categoryID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a node, re-parenting its direct children.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.categories.DeleteCategory(categoryID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCategory returns one category.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	category, err := h.categories.GetCategory(categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// ListCategories returns the category list ordered by level.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	page, limit := pageParams(c)

	categories, total, err := h.categories.ListCategories(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"pagination": models.NewPaginationInfo(page, limit, total),
	})
}

// RecomputeCategoryStats rebuilds a category's aggregates from products.
func (h *CategoryHandler) RecomputeCategoryStats(c *gin.Context) {
	categoryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	stats, err := h.categories.RecomputeCategoryStats(categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
