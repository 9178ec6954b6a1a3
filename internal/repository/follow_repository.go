package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
)

// FollowRepository is the persistence boundary for shop follows.
type FollowRepository interface {
	Create(follow *models.ShopFollow) error
	Delete(userID, shopID uuid.UUID) error
	Find(userID, shopID uuid.UUID) (*models.ShopFollow, error)
	CountByShop(shopID uuid.UUID) (int64, error)
	ListFollowerIDs(shopID uuid.UUID) ([]uuid.UUID, error)
	ListFollowers(shopID uuid.UUID, page, limit int) ([]models.ShopFollow, int64, error)
	ListFollowedShopIDs(userID uuid.UUID) ([]uuid.UUID, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(follow *models.ShopFollow) error {
	return r.db.Create(follow).Error
}

func (r *followRepository) Delete(userID, shopID uuid.UUID) error {
	return r.db.Where("user_id = ? AND shop_id = ?", userID, shopID).Delete(&models.ShopFollow{}).Error
}

func (r *followRepository) Find(userID, shopID uuid.UUID) (*models.ShopFollow, error) {
	var follow models.ShopFollow
	if err := r.db.Where("user_id = ? AND shop_id = ?", userID, shopID).First(&follow).Error; err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *followRepository) CountByShop(shopID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.ShopFollow{}).Where("shop_id = ?", shopID).Count(&count).Error
	return count, err
}

func (r *followRepository) ListFollowerIDs(shopID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.ShopFollow{}).Where("shop_id = ?", shopID).Pluck("user_id", &ids).Error
	return ids, err
}

func (r *followRepository) ListFollowers(shopID uuid.UUID, page, limit int) ([]models.ShopFollow, int64, error) {
	query := r.db.Model(&models.ShopFollow{}).Where("shop_id = ?", shopID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)
	var follows []models.ShopFollow
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&follows).Error
	return follows, total, err
}

func (r *followRepository) ListFollowedShopIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.ShopFollow{}).Where("user_id = ?", userID).Pluck("shop_id", &ids).Error
	return ids, err
}
