package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
	"marketplace-service/internal/services"
)

// FollowHandler exposes shop follow endpoints.
type FollowHandler struct {
	follows services.FollowService
}

func NewFollowHandler(follows services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// FollowShop godoc
// @Summary Follow a shop
// @Description Rejects following your own shop and duplicate follows; notifies the shop owner once
// @Tags follows
// @Produce json
// @Param shopId path string true "Shop ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /shops/{shopId}/follow [post]
func (h *FollowHandler) FollowShop(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}
	shopID, ok := pathUUID(c, "shopId")
	if !ok {
		return
	}

	if err := h.follows.FollowShop(userID, shopID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// UnfollowShop godoc
// @Summary Unfollow a shop
// @Tags follows
// @Produce json
// @Param shopId path string true "Shop ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /shops/{shopId}/follow [delete]
func (h *FollowHandler) UnfollowShop(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}
	shopID, ok := pathUUID(c, "shopId")
	if !ok {
		return
	}

	if err := h.follows.UnfollowShop(userID, shopID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FollowStatus reports whether the caller follows a shop and its count.
func (h *FollowHandler) FollowStatus(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}
	shopID, ok := pathUUID(c, "shopId")
	if !ok {
		return
	}

	status, err := h.follows.FollowStatus(userID, shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ListFollowedShops lists the shops the caller follows.
func (h *FollowHandler) ListFollowedShops(c *gin.Context) {
	userID, _, ok := principal(c)
	if !ok {
		return
	}

	shops, err := h.follows.ListFollowedShops(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

// ListShopFollowers lists a shop's followers for its owner.
func (h *FollowHandler) ListShopFollowers(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	shopID, ok := pathUUID(c, "shopId")
	if !ok {
		return
	}
	page, limit := pageParams(c)

	followers, total, err := h.follows.ListShopFollowers(userID, role, shopID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"followers":  followers,
		"pagination": models.NewPaginationInfo(page, limit, total),
	})
}
