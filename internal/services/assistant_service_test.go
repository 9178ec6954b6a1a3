package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marketplace-service/internal/models"
)

func newAssistantServiceForTest() (AssistantService, *MockProductRepository, *MockShopRepository, *MockOrderRepository, *MockReviewRepository) {
	products := new(MockProductRepository)
	shops := new(MockShopRepository)
	orders := new(MockOrderRepository)
	reviews := new(MockReviewRepository)
	svc := NewAssistantService(products, shops, orders, reviews)
	return svc, products, shops, orders, reviews
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 10, clampLimit(0))
	assert.Equal(t, 10, clampLimit(-3))
	assert.Equal(t, 25, clampLimit(25))
	assert.Equal(t, 50, clampLimit(50))
	assert.Equal(t, 50, clampLimit(500))
}

func TestSearchProducts_ClampsLimit(t *testing.T) {
	svc, products, _, _, _ := newAssistantServiceForTest()

	products.On("Search", "keyboard", (*float64)(nil), (*float64)(nil), "price", 50).
		Return([]models.Product{}, nil)

	_, err := svc.SearchProducts("keyboard", nil, nil, "price", 900)

	assert.NoError(t, err)
	products.AssertExpectations(t)
}

func TestGetBestDeals_DefaultLimit(t *testing.T) {
	svc, products, _, _, _ := newAssistantServiceForTest()

	products.On("BestDeals", 10).Return([]models.Product{}, nil)

	_, err := svc.GetBestDeals(0)

	assert.NoError(t, err)
	products.AssertExpectations(t)
}

func TestGetSiteStats(t *testing.T) {
	svc, products, shops, orders, reviews := newAssistantServiceForTest()

	products.On("CountActive").Return(int64(310), nil)
	shops.On("CountApproved").Return(int64(24), nil)
	orders.On("CountDelivered").Return(int64(1810), nil)
	reviews.On("Count").Return(int64(560), nil)
	products.On("PopularBrands", 10).Return([]string{"Logi", "Anker"}, nil)

	stats, err := svc.GetSiteStats()

	assert.NoError(t, err)
	assert.Equal(t, int64(310), stats.ActiveProducts)
	assert.Equal(t, int64(24), stats.ApprovedShops)
	assert.Equal(t, int64(1810), stats.DeliveredOrders)
	assert.Equal(t, int64(560), stats.TotalReviews)
	assert.Equal(t, []string{"Logi", "Anker"}, stats.PopularBrands)
}
