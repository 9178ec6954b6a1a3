package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
	"marketplace-service/internal/services"
)

// ShopHandler exposes shop reads and the stats recompute endpoint.
type ShopHandler struct {
	shops services.ShopService
}

func NewShopHandler(shops services.ShopService) *ShopHandler {
	return &ShopHandler{shops: shops}
}

// GetShop godoc
// @Summary Get a shop
// @Tags shops
// @Produce json
// @Param shopId path string true "Shop ID"
// @Success 200 {object} models.Shop
// @Failure 404 {object} models.ErrorResponse
// @Router /shops/{shopId} [get]
func (h *ShopHandler) GetShop(c *gin.Context) {
	shopID, ok := pathUUID(c, "shopId")
	if !ok {
		return
	}

	shop, err := h.shops.GetShop(shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

// ListShops godoc
// @Summary List shops
// @Tags shops
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Router /shops [get]
func (h *ShopHandler) ListShops(c *gin.Context) {
	page, limit := pageParams(c)
	status := models.ShopStatus(c.Query("status"))

	shops, total, err := h.shops.ListShops(status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shops":      shops,
		"pagination": models.NewPaginationInfo(page, limit, total),
	})
}

// RecomputeShopStats godoc
// @Summary Rebuild a shop's cached stats from source tables
// @Tags shops
// @Produce json
// @Param shopId path string true "Shop ID"
// @Success 200 {object} models.ShopStats
// @Failure 403 {object} models.ErrorResponse
// @Router /shops/{shopId}/stats/recompute [post]
func (h *ShopHandler) RecomputeShopStats(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	shopID, ok := pathUUID(c, "shopId")
	if !ok {
		return
	}

	stats, err := h.shops.RecomputeShopStats(userID, role, shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
