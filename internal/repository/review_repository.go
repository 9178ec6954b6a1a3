package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
)

// ReviewRepository is the persistence boundary for reviews and the
// aggregate queries the recompute paths run over them.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id uuid.UUID) (*models.Review, error)
	Update(review *models.Review) error
	Delete(id uuid.UUID) error
	FindByUserAndProduct(userID, productID uuid.UUID) (*models.Review, error)
	FindByUserAndShop(userID, shopID uuid.UUID) (*models.Review, error)
	ListByProduct(productID uuid.UUID, page, limit int) ([]models.Review, int64, error)
	ListByShop(shopID uuid.UUID, page, limit int) ([]models.Review, int64, error)
	ListByShops(shopIDs []uuid.UUID, page, limit int) ([]models.Review, int64, error)
	AggregateForProduct(productID uuid.UUID) (avg float64, count int64, err error)
	AggregateForShop(shopID uuid.UUID) (avg float64, count int64, err error)
	RatingCountsForProduct(productID uuid.UUID) (map[int]int, error)
	RatingCountsForShop(shopID uuid.UUID) (map[int]int, error)
	ReviewedProductIDs(userID uuid.UUID, productIDs []uuid.UUID) ([]uuid.UUID, error)
	Count() (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) GetByID(id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *reviewRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Review{}, "id = ?", id).Error
}

func (r *reviewRepository) FindByUserAndProduct(userID, productID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByUserAndShop(userID, shopID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.Where("user_id = ? AND shop_id = ?", userID, shopID).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByProduct(productID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	return r.list(r.db.Model(&models.Review{}).Where("product_id = ?", productID), page, limit)
}

func (r *reviewRepository) ListByShop(shopID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	return r.list(r.db.Model(&models.Review{}).Where("shop_id = ?", shopID), page, limit)
}

func (r *reviewRepository) ListByShops(shopIDs []uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	if len(shopIDs) == 0 {
		return nil, 0, nil
	}
	return r.list(r.db.Model(&models.Review{}).Where("shop_id IN ?", shopIDs), page, limit)
}

func (r *reviewRepository) list(query *gorm.DB, page, limit int) ([]models.Review, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)
	var reviews []models.Review
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&reviews).Error
	return reviews, total, err
}

func (r *reviewRepository) AggregateForProduct(productID uuid.UUID) (float64, int64, error) {
	return r.aggregate(r.db.Model(&models.Review{}).Where("product_id = ?", productID))
}

func (r *reviewRepository) AggregateForShop(shopID uuid.UUID) (float64, int64, error) {
	return r.aggregate(r.db.Model(&models.Review{}).Where("shop_id = ?", shopID))
}

func (r *reviewRepository) aggregate(query *gorm.DB) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.Raw("SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count FROM (?) AS t",
		query.Select("rating")).Scan(&result).Error
	return result.Avg, result.Count, err
}

func (r *reviewRepository) RatingCountsForProduct(productID uuid.UUID) (map[int]int, error) {
	return r.ratingCounts(r.db.Model(&models.Review{}).Where("product_id = ?", productID))
}

func (r *reviewRepository) RatingCountsForShop(shopID uuid.UUID) (map[int]int, error) {
	return r.ratingCounts(r.db.Model(&models.Review{}).Where("shop_id = ?", shopID))
}

func (r *reviewRepository) ratingCounts(query *gorm.DB) (map[int]int, error) {
	var rows []struct {
		Rating int
		Count  int
	}
	if err := query.Select("rating, COUNT(*) AS count").Group("rating").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}

func (r *reviewRepository) ReviewedProductIDs(userID uuid.UUID, productIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	err := r.db.Model(&models.Review{}).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Pluck("product_id", &ids).Error
	return ids, err
}

func (r *reviewRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Review{}).Count(&count).Error
	return count, err
}
