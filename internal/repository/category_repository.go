package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
)

// CategoryRepository is the persistence boundary for the category tree.
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uuid.UUID) (*models.Category, error)
	Update(category *models.Category) error
	Delete(id uuid.UUID) error
	List(page, limit int) ([]models.Category, int64, error)
	ListChildren(parentID uuid.UUID) ([]models.Category, error)
	ReparentChildren(parentID uuid.UUID, newParentID *uuid.UUID, newLevel int) error
	UpdateStats(id uuid.UUID, stats models.CategoryStats) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(page, limit int) ([]models.Category, int64, error) {
	var total int64
	if err := r.db.Model(&models.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)
	var categories []models.Category
	err := r.db.Order("level ASC, name ASC").Offset((page - 1) * limit).Limit(limit).Find(&categories).Error
	return categories, total, err
}

func (r *categoryRepository) ListChildren(parentID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("parent_id = ?", parentID).Find(&categories).Error
	return categories, err
}

// ReparentChildren moves the direct children of a deleted node up to its
// parent. Deeper descendants keep their relative structure.
func (r *categoryRepository) ReparentChildren(parentID uuid.UUID, newParentID *uuid.UUID, newLevel int) error {
	return r.db.Model(&models.Category{}).Where("parent_id = ?", parentID).
		Updates(map[string]interface{}{
			"parent_id": newParentID,
			"level":     newLevel,
		}).Error
}

func (r *categoryRepository) UpdateStats(id uuid.UUID, stats models.CategoryStats) error {
	return r.db.Model(&models.Category{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"stats_total_products":  stats.TotalProducts,
			"stats_active_products": stats.ActiveProducts,
			"stats_total_sales":     stats.TotalSales,
		}).Error
}
