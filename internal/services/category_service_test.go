package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repository"
)

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

var _ repository.CategoryRepository = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) Create(category *models.Category) error {
	args := m.Called(category)
	if args.Error(0) == nil && category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(id uuid.UUID) (*models.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCategoryRepository) List(page, limit int) ([]models.Category, int64, error) {
	args := m.Called(page, limit)
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) ListChildren(parentID uuid.UUID) ([]models.Category, error) {
	args := m.Called(parentID)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) ReparentChildren(parentID uuid.UUID, newParentID *uuid.UUID, newLevel int) error {
	args := m.Called(parentID, newParentID, newLevel)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateStats(id uuid.UUID, stats models.CategoryStats) error {
	args := m.Called(id, stats)
	return args.Error(0)
}

func newCategoryServiceForTest() (CategoryService, *MockCategoryRepository, *MockProductRepository) {
	categories := new(MockCategoryRepository)
	products := new(MockProductRepository)
	svc := NewCategoryService(categories, products, newTestLogger())
	return svc, categories, products
}

func TestCreateCategory_ChildLevelDerivedFromParent(t *testing.T) {
	svc, categories, _ := newCategoryServiceForTest()

	parent := &models.Category{ID: uuid.New(), Name: "Electronics", Level: 1}
	categories.On("GetByID", parent.ID).Return(parent, nil)
	categories.On("Create", mock.AnythingOfType("*models.Category")).Return(nil)

	category, err := svc.CreateCategory(&models.CreateCategoryRequest{
		Name:     "Keyboards",
		ParentID: &parent.ID,
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, category.Level)
	assert.True(t, category.IsActive)
}

func TestCreateCategory_RootLevelZero(t *testing.T) {
	svc, categories, _ := newCategoryServiceForTest()

	categories.On("Create", mock.AnythingOfType("*models.Category")).Return(nil)

	category, err := svc.CreateCategory(&models.CreateCategoryRequest{Name: "Electronics"})

	assert.NoError(t, err)
	assert.Equal(t, 0, category.Level)
}

func TestUpdateCategory_SelfParentRejected(t *testing.T) {
	svc, categories, _ := newCategoryServiceForTest()

	category := &models.Category{ID: uuid.New(), Name: "Electronics"}
	categories.On("GetByID", category.ID).Return(category, nil)

	_, err := svc.UpdateCategory(category.ID, &models.UpdateCategoryRequest{ParentID: &category.ID})

	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
	categories.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUpdateCategory_ReparentRederivesLevel(t *testing.T) {
	svc, categories, _ := newCategoryServiceForTest()

	category := &models.Category{ID: uuid.New(), Name: "Keyboards", Level: 1}
	parent := &models.Category{ID: uuid.New(), Name: "Accessories", Level: 2}

	categories.On("GetByID", category.ID).Return(category, nil)
	categories.On("GetByID", parent.ID).Return(parent, nil)
	categories.On("Update", category).Return(nil)

	updated, err := svc.UpdateCategory(category.ID, &models.UpdateCategoryRequest{ParentID: &parent.ID})

	assert.NoError(t, err)
	assert.Equal(t, 3, updated.Level)
}

func TestDeleteCategory_ReparentsChildren(t *testing.T) {
	svc, categories, _ := newCategoryServiceForTest()

	grandparent := &models.Category{ID: uuid.New(), Level: 0}
	category := &models.Category{ID: uuid.New(), ParentID: &grandparent.ID, Level: 1}

	categories.On("GetByID", category.ID).Return(category, nil)
	categories.On("GetByID", grandparent.ID).Return(grandparent, nil)
	categories.On("ReparentChildren", category.ID, &grandparent.ID, 1).Return(nil)
	categories.On("Delete", category.ID).Return(nil)

	assert.NoError(t, svc.DeleteCategory(category.ID))
	categories.AssertExpectations(t)
}

func TestDeleteCategory_RootChildrenBecomeRoots(t *testing.T) {
	svc, categories, _ := newCategoryServiceForTest()

	category := &models.Category{ID: uuid.New(), Level: 0}

	categories.On("GetByID", category.ID).Return(category, nil)
	categories.On("ReparentChildren", category.ID, (*uuid.UUID)(nil), 0).Return(nil)
	categories.On("Delete", category.ID).Return(nil)

	assert.NoError(t, svc.DeleteCategory(category.ID))
	categories.AssertExpectations(t)
}

func TestRecomputeCategoryStats(t *testing.T) {
	svc, categories, products := newCategoryServiceForTest()

	category := &models.Category{ID: uuid.New()}
	categories.On("GetByID", category.ID).Return(category, nil)
	products.On("CategoryAggregates", category.ID).Return(int64(12), int64(9), int64(140), nil)
	categories.On("UpdateStats", category.ID, models.CategoryStats{
		TotalProducts:  12,
		ActiveProducts: 9,
		TotalSales:     140,
	}).Return(nil)

	stats, err := svc.RecomputeCategoryStats(category.ID)

	assert.NoError(t, err)
	assert.Equal(t, 12, stats.TotalProducts)
	assert.Equal(t, 9, stats.ActiveProducts)
	assert.Equal(t, 140, stats.TotalSales)
	categories.AssertExpectations(t)
}

func TestGetCategory_NotFound(t *testing.T) {
	svc, categories, _ := newCategoryServiceForTest()

	id := uuid.New()
	categories.On("GetByID", id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetCategory(id)

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
