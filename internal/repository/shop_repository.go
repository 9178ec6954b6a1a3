package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
)

// ShopRepository is the persistence boundary for shops.
type ShopRepository interface {
	Create(shop *models.Shop) error
	GetByID(id uuid.UUID) (*models.Shop, error)
	GetByOwner(ownerID uuid.UUID) ([]models.Shop, error)
	Update(shop *models.Shop) error
	List(status models.ShopStatus, page, limit int) ([]models.Shop, int64, error)
	TopShops(limit int) ([]models.Shop, error)
	SearchShops(query string, limit int) ([]models.Shop, error)
	AdjustProductCount(id uuid.UUID, delta int) error
	AddOrderStats(id uuid.UUID, ordersDelta int, revenueDelta float64) error
	AdjustFollowers(id uuid.UUID, delta int) error
	UpdateStats(id uuid.UUID, stats models.ShopStats) error
	CountApproved() (int64, error)
}

type shopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(shop *models.Shop) error {
	return r.db.Create(shop).Error
}

func (r *shopRepository) GetByID(id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.Where("id = ?", id).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) GetByOwner(ownerID uuid.UUID) ([]models.Shop, error) {
	var shops []models.Shop
	err := r.db.Where("owner_id = ?", ownerID).Find(&shops).Error
	return shops, err
}

func (r *shopRepository) Update(shop *models.Shop) error {
	return r.db.Save(shop).Error
}

func (r *shopRepository) List(status models.ShopStatus, page, limit int) ([]models.Shop, int64, error) {
	query := r.db.Model(&models.Shop{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)
	var shops []models.Shop
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&shops).Error
	return shops, total, err
}

func (r *shopRepository) TopShops(limit int) ([]models.Shop, error) {
	var shops []models.Shop
	err := r.db.
		Where("status = ? AND is_active = ?", models.ShopStatusApproved, true).
		Order("stats_average_rating DESC").
		Order("stats_total_orders DESC").
		Limit(limit).
		Find(&shops).Error
	return shops, err
}

func (r *shopRepository) SearchShops(query string, limit int) ([]models.Shop, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var shops []models.Shop
	err := r.db.
		Where("status = ?", models.ShopStatusApproved).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("stats_average_rating DESC").
		Limit(limit).
		Find(&shops).Error
	return shops, err
}

func (r *shopRepository) AdjustProductCount(id uuid.UUID, delta int) error {
	return r.db.Model(&models.Shop{}).Where("id = ?", id).
		Update("stats_total_products", gorm.Expr("stats_total_products + ?", delta)).Error
}

func (r *shopRepository) AddOrderStats(id uuid.UUID, ordersDelta int, revenueDelta float64) error {
	return r.db.Model(&models.Shop{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"stats_total_orders":  gorm.Expr("stats_total_orders + ?", ordersDelta),
			"stats_total_revenue": gorm.Expr("stats_total_revenue + ?", revenueDelta),
		}).Error
}

func (r *shopRepository) AdjustFollowers(id uuid.UUID, delta int) error {
	return r.db.Model(&models.Shop{}).Where("id = ?", id).
		Update("stats_followers", gorm.Expr("stats_followers + ?", delta)).Error
}

func (r *shopRepository) UpdateStats(id uuid.UUID, stats models.ShopStats) error {
	return r.db.Model(&models.Shop{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"stats_total_products": stats.TotalProducts,
			"stats_total_orders":   stats.TotalOrders,
			"stats_total_revenue":  stats.TotalRevenue,
			"stats_average_rating": stats.AverageRating,
			"stats_total_reviews":  stats.TotalReviews,
			"stats_followers":      stats.Followers,
		}).Error
}

func (r *shopRepository) CountApproved() (int64, error) {
	var count int64
	err := r.db.Model(&models.Shop{}).Where("status = ?", models.ShopStatusApproved).Count(&count).Error
	return count, err
}
