package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repository"
)

// CategoryService manages the category tree. Levels are derived from the
// parent chain; stats are recomputed from the product table on demand.
type CategoryService interface {
	CreateCategory(req *models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(categoryID uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(categoryID uuid.UUID) error
	GetCategory(categoryID uuid.UUID) (*models.Category, error)
	ListCategories(page, limit int) ([]models.Category, int64, error)
	RecomputeCategoryStats(categoryID uuid.UUID) (*models.CategoryStats, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	log        *logrus.Logger
}

func NewCategoryService(categories repository.CategoryRepository, products repository.ProductRepository, log *logrus.Logger) CategoryService {
	return &categoryService{categories: categories, products: products, log: log}
}

func (s *categoryService) CreateCategory(req *models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if req.ParentID != nil {
		parent, err := s.categories.GetByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "parent category"}
			}
			return nil, err
		}
		category.Level = parent.Level + 1
	}

	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(categoryID uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categories.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "category"}
		}
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.ParentID != nil {
		if *req.ParentID == categoryID {
			return nil, validationf("category cannot be its own parent")
		}
		parent, err := s.categories.GetByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "parent category"}
			}
			return nil, err
		}
		category.ParentID = req.ParentID
		category.Level = parent.Level + 1
	}

	if err := s.categories.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a node and re-parents its direct children to the
// deleted node's parent. Deeper descendants keep their relative levels.
func (s *categoryService) DeleteCategory(categoryID uuid.UUID) error {
	category, err := s.categories.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "category"}
		}
		return err
	}

	newLevel := 0
	if category.ParentID != nil {
		if parent, err := s.categories.GetByID(*category.ParentID); err == nil {
			newLevel = parent.Level + 1
		}
	}
	if err := s.categories.ReparentChildren(categoryID, category.ParentID, newLevel); err != nil {
		return err
	}
	return s.categories.Delete(categoryID)
}

func (s *categoryService) GetCategory(categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.categories.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "category"}
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories(page, limit int) ([]models.Category, int64, error) {
	return s.categories.List(page, limit)
}

func (s *categoryService) RecomputeCategoryStats(categoryID uuid.UUID) (*models.CategoryStats, error) {
	if _, err := s.categories.GetByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "category"}
		}
		return nil, err
	}

	total, active, sales, err := s.products.CategoryAggregates(categoryID)
	if err != nil {
		return nil, err
	}
	stats := models.CategoryStats{
		TotalProducts:  int(total),
		ActiveProducts: int(active),
		TotalSales:     int(sales),
	}
	if err := s.categories.UpdateStats(categoryID, stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
