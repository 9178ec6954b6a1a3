package services

import (
	"marketplace-service/internal/models"
	"marketplace-service/internal/repository"
)

// AssistantService exposes the read-only catalog queries backing the
// shopping assistant. It never writes.
type AssistantService interface {
	SearchProducts(query string, minPrice, maxPrice *float64, sortBy string, limit int) ([]models.Product, error)
	GetBestDeals(limit int) ([]models.Product, error)
	GetTopShops(limit int) ([]models.Shop, error)
	SearchShops(query string, limit int) ([]models.Shop, error)
	GetSiteStats() (*SiteStats, error)
}

// SiteStats is the marketplace overview returned to the assistant.
type SiteStats struct {
	ActiveProducts  int64    `json:"activeProducts"`
	ApprovedShops   int64    `json:"approvedShops"`
	DeliveredOrders int64    `json:"deliveredOrders"`
	TotalReviews    int64    `json:"totalReviews"`
	PopularBrands   []string `json:"popularBrands"`
}

type assistantService struct {
	products repository.ProductRepository
	shops    repository.ShopRepository
	orders   repository.OrderRepository
	reviews  repository.ReviewRepository
}

func NewAssistantService(products repository.ProductRepository, shops repository.ShopRepository, orders repository.OrderRepository, reviews repository.ReviewRepository) AssistantService {
	return &assistantService{products: products, shops: shops, orders: orders, reviews: reviews}
}

const maxAssistantResults = 50

func clampLimit(limit int) int {
	if limit < 1 {
		return 10
	}
	if limit > maxAssistantResults {
		return maxAssistantResults
	}
	return limit
}

func (s *assistantService) SearchProducts(query string, minPrice, maxPrice *float64, sortBy string, limit int) ([]models.Product, error) {
	return s.products.Search(query, minPrice, maxPrice, sortBy, clampLimit(limit))
}

func (s *assistantService) GetBestDeals(limit int) ([]models.Product, error) {
	return s.products.BestDeals(clampLimit(limit))
}

func (s *assistantService) GetTopShops(limit int) ([]models.Shop, error) {
	return s.shops.TopShops(clampLimit(limit))
}

func (s *assistantService) SearchShops(query string, limit int) ([]models.Shop, error) {
	return s.shops.SearchShops(query, clampLimit(limit))
}

func (s *assistantService) GetSiteStats() (*SiteStats, error) {
	activeProducts, err := s.products.CountActive()
	if err != nil {
		return nil, err
	}
	approvedShops, err := s.shops.CountApproved()
	if err != nil {
		return nil, err
	}
	deliveredOrders, err := s.orders.CountDelivered()
	if err != nil {
		return nil, err
	}
	totalReviews, err := s.reviews.Count()
	if err != nil {
		return nil, err
	}
	brands, err := s.products.PopularBrands(10)
	if err != nil {
		return nil, err
	}

	return &SiteStats{
		ActiveProducts:  activeProducts,
		ApprovedShops:   approvedShops,
		DeliveredOrders: deliveredOrders,
		TotalReviews:    totalReviews,
		PopularBrands:   brands,
	}, nil
}
