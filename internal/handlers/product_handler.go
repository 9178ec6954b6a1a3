package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/internal/models"
	"marketplace-service/internal/services"
)

// ProductHandler exposes catalog endpoints.
type ProductHandler struct {
	products services.ProductService
}

func NewProductHandler(products services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// CreateProduct godoc
// @Summary Create a product in a shop
// @Description Creates a product, bumps the shop's product count and notifies followers
// @Tags products
// @Accept json
// @Produce json
// @Param shopId path string true "Shop ID"
// @Param product body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /shops/{shopId}/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	shopID, ok := pathUUID(c, "shopId")
	if !ok {
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), userID, role, shopID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.UpdateProductRequest true "Changes"
// @Success 200 {object} models.Product
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), userID, role, productID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), userID, role, productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var req models.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("VALIDATION_ERROR", err.Error()))
		return
	}

	products, total, err := h.products.ListProducts(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	page, limit := req.Page, req.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"pagination": models.NewPaginationInfo(page, limit, total),
	})
}

// TrackView records a product view.
func (h *ProductHandler) TrackView(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.products.TrackView(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TrackAddToCart records an add-to-cart.
func (h *ProductHandler) TrackAddToCart(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.products.TrackAddToCart(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TrackWishlist records a wishlist add.
func (h *ProductHandler) TrackWishlist(c *gin.Context) {
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.products.TrackWishlist(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProductAnalytics godoc
// @Summary Vendor analytics for a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ProductAnalytics
// @Failure 403 {object} models.ErrorResponse
// @Router /products/{id}/analytics [get]
func (h *ProductHandler) GetProductAnalytics(c *gin.Context) {
	userID, role, ok := principal(c)
	if !ok {
		return
	}
	productID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	analytics, err := h.products.GetProductAnalytics(c.Request.Context(), userID, role, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}
