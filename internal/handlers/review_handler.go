package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
	"marketplace-service/internal/services"
)

// ReviewHandler exposes review endpoints.
type ReviewHandler struct {
	reviews services.ReviewService
}

func NewReviewHandler(reviews services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// UpsertReview godoc
// @Summary Create or replace the caller's review of a product or shop
// @Description Product reviews require a delivered order containing the product; a second submission updates the existing review
// @Tags reviews
// @Accept json
// @Produce json
// @Param review body models.UpsertReviewRequest true "Review"
// @Success 200 {object} models.Review
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) UpsertReview(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}

	var req models.UpsertReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	review, err := h.reviews.UpsertReview(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// UpdateReview godoc
// @Summary Edit the caller's review
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Review ID"
// @Param review body models.UpdateReviewRequest true "Changes"
// @Success 200 {object} models.Review
// @Failure 403 {object} models.ErrorResponse
// @Router /reviews/{id} [put]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), userID, reviewID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// DeleteReview godoc
// @Summary Delete a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	reviewID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.DeleteReview(c.Request.Context(), userID, role, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProductReviews godoc
// @Summary List reviews of a product with rating summary
// @Tags reviews
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ReviewListResponse
// @Router /products/{id}/reviews [get]
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	page, limit := pageParams(c)

	response, err := h.reviews.GetProductReviews(productID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetShopReviews godoc
// @Summary List reviews of a shop with rating summary
// @Tags reviews
// @Produce json
// @Param shopId path string true "Shop ID"
// @Success 200 {object} models.ReviewListResponse
// @Router /shops/{shopId}/reviews [get]
func (h *ReviewHandler) GetShopReviews(c *gin.Context) {
	shopID, ok := pathUUID(c, "shopId")
	if !ok {
		return
	}
	page, limit := pageParams(c)

	response, err := h.reviews.GetShopReviews(shopID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetVendorReviews lists reviews across all of the caller's shops.
func (h *ReviewHandler) GetVendorReviews(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)

	reviews, total, err := h.reviews.GetVendorReviews(userID, role, userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews":    reviews,
		"pagination": models.NewPaginationInfo(page, limit, total),
	})
}
