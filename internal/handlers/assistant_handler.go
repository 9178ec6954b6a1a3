package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/services"
)

// AssistantHandler exposes the read-only catalog queries used by the
// shopping assistant.
type AssistantHandler struct {
	assistant services.AssistantService
}

func NewAssistantHandler(assistant services.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

func limitParam(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return limit
}

func priceParam(c *gin.Context, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

// SearchProducts godoc
// @Summary Search active products
// @Tags assistant
// @Produce json
// @Param q query string false "Search text"
// @Param minPrice query number false "Minimum sale price"
// @Param maxPrice query number false "Maximum sale price"
// @Param sortBy query string false "relevance or popularity"
// @Success 200 {object} map[string]interface{}
// @Router /assistant/products/search [get]
func (h *AssistantHandler) SearchProducts(c *gin.Context) {
	products, err := h.assistant.SearchProducts(
		c.Query("q"),
		priceParam(c, "minPrice"),
		priceParam(c, "maxPrice"),
		c.DefaultQuery("sortBy", "relevance"),
		limitParam(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetBestDeals returns in-stock products with the largest active discounts.
func (h *AssistantHandler) GetBestDeals(c *gin.Context) {
	products, err := h.assistant.GetBestDeals(limitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetTopShops returns approved shops ranked by rating then order volume.
func (h *AssistantHandler) GetTopShops(c *gin.Context) {
	shops, err := h.assistant.GetTopShops(limitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

// SearchShops searches approved shops by name and description.
func (h *AssistantHandler) SearchShops(c *gin.Context) {
	shops, err := h.assistant.SearchShops(c.Query("q"), limitParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

// GetSiteStats returns the marketplace overview.
func (h *AssistantHandler) GetSiteStats(c *gin.Context) {
	stats, err := h.assistant.GetSiteStats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
