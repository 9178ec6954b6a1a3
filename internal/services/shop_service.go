package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repository"
)

// ShopService exposes shop reads and the stats recompute path that
// rebuilds cached shop aggregates from the source tables.
type ShopService interface {
	GetShop(shopID uuid.UUID) (*models.Shop, error)
	ListShops(status models.ShopStatus, page, limit int) ([]models.Shop, int64, error)
	RecomputeShopStats(actorID uuid.UUID, role models.UserRole, shopID uuid.UUID) (*models.ShopStats, error)
}

type shopService struct {
	shops    repository.ShopRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	reviews  repository.ReviewRepository
	follows  repository.FollowRepository
	log      *logrus.Logger
}

func NewShopService(
	shops repository.ShopRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	reviews repository.ReviewRepository,
	follows repository.FollowRepository,
	log *logrus.Logger,
) ShopService {
	return &shopService{
		shops:    shops,
		products: products,
		orders:   orders,
		reviews:  reviews,
		follows:  follows,
		log:      log,
	}
}

func (s *shopService) GetShop(shopID uuid.UUID) (*models.Shop, error) {
	shop, err := s.shops.GetByID(shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "shop"}
		}
		return nil, err
	}
	return shop, nil
}

func (s *shopService) ListShops(status models.ShopStatus, page, limit int) ([]models.Shop, int64, error) {
	return s.shops.List(status, page, limit)
}

// RecomputeShopStats re-derives every cached shop aggregate from the
// source tables and persists the result. This is the repair path next to
// the incremental updates order placement and review writes perform.
func (s *shopService) RecomputeShopStats(actorID uuid.UUID, role models.UserRole, shopID uuid.UUID) (*models.ShopStats, error) {
	shop, err := s.shops.GetByID(shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "shop"}
		}
		return nil, err
	}
	if role != models.UserRoleAdmin && shop.OwnerID != actorID {
		return nil, &AuthorizationError{Message: "shop belongs to another vendor"}
	}

	orderCount, revenue, err := s.orders.VendorSales(shopID)
	if err != nil {
		return nil, err
	}
	avg, reviewCount, err := s.reviews.AggregateForShop(shopID)
	if err != nil {
		return nil, err
	}
	followers, err := s.follows.CountByShop(shopID)
	if err != nil {
		return nil, err
	}
	productList := &models.ListProductsRequest{VendorID: &shopID, Page: 1, Limit: 1}
	_, totalProducts, err := s.products.List(productList)
	if err != nil {
		return nil, err
	}

	stats := models.ShopStats{
		TotalProducts: int(totalProducts),
		TotalOrders:   int(orderCount),
		TotalRevenue:  revenue,
		AverageRating: avg,
		TotalReviews:  int(reviewCount),
		Followers:     int(followers),
	}
	if err := s.shops.UpdateStats(shopID, stats); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"shop_id":      shopID,
		"total_orders": stats.TotalOrders,
		"revenue":      stats.TotalRevenue,
	}).Info("Shop stats recomputed")
	return &stats, nil
}
