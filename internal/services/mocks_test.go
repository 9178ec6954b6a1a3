package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repository"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

var _ repository.ProductRepository = (*MockProductRepository)(nil)

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	if args.Error(0) == nil && product.ID == uuid.Nil {
		product.ID = uuid.New()
		product.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ids []uuid.UUID) ([]models.Product, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) AddOrderStats(ctx context.Context, id uuid.UUID, orders, quantity int, revenue float64) error {
	args := m.Called(ctx, id, orders, quantity, revenue)
	return args.Error(0)
}

func (m *MockProductRepository) UpdatePurchaseLog(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) List(req *models.ListProductsRequest) ([]models.Product, int64, error) {
	args := m.Called(req)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Search(query string, minPrice, maxPrice *float64, sortBy string, limit int) ([]models.Product, error) {
	args := m.Called(query, minPrice, maxPrice, sortBy, limit)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) BestDeals(limit int) ([]models.Product, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) IncrementCartAdds(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) IncrementWishlisted(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) CategoryAggregates(categoryID uuid.UUID) (int64, int64, int64, error) {
	args := m.Called(categoryID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

func (m *MockProductRepository) CountActive() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) PopularBrands(limit int) ([]string, error) {
	args := m.Called(limit)
	return args.Get(0).([]string), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

var _ repository.OrderRepository = (*MockOrderRepository)(nil)

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	if args.Error(0) == nil && order.ID == uuid.Nil {
		order.ID = uuid.New()
		order.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id uuid.UUID) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByUser(userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	args := m.Called(userID, page, limit)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByVendor(vendorID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	args := m.Called(vendorID, page, limit)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) VendorSales(vendorID uuid.UUID) (int64, float64, error) {
	args := m.Called(vendorID)
	return args.Get(0).(int64), args.Get(1).(float64), args.Error(2)
}

func (m *MockOrderRepository) CountDelivered() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockShopRepository is a mock implementation of ShopRepository
type MockShopRepository struct {
	mock.Mock
}

var _ repository.ShopRepository = (*MockShopRepository)(nil)

func (m *MockShopRepository) Create(shop *models.Shop) error {
	args := m.Called(shop)
	return args.Error(0)
}

func (m *MockShopRepository) GetByID(id uuid.UUID) (*models.Shop, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Shop), args.Error(1)
}

func (m *MockShopRepository) GetByOwner(ownerID uuid.UUID) ([]models.Shop, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Shop), args.Error(1)
}

func (m *MockShopRepository) Update(shop *models.Shop) error {
	args := m.Called(shop)
	return args.Error(0)
}

func (m *MockShopRepository) List(status models.ShopStatus, page, limit int) ([]models.Shop, int64, error) {
	args := m.Called(status, page, limit)
	return args.Get(0).([]models.Shop), args.Get(1).(int64), args.Error(2)
}

func (m *MockShopRepository) TopShops(limit int) ([]models.Shop, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.Shop), args.Error(1)
}

func (m *MockShopRepository) SearchShops(query string, limit int) ([]models.Shop, error) {
	args := m.Called(query, limit)
	return args.Get(0).([]models.Shop), args.Error(1)
}

func (m *MockShopRepository) AdjustProductCount(id uuid.UUID, delta int) error {
	args := m.Called(id, delta)
	return args.Error(0)
}

func (m *MockShopRepository) AddOrderStats(id uuid.UUID, ordersDelta int, revenueDelta float64) error {
	args := m.Called(id, ordersDelta, revenueDelta)
	return args.Error(0)
}

func (m *MockShopRepository) AdjustFollowers(id uuid.UUID, delta int) error {
	args := m.Called(id, delta)
	return args.Error(0)
}

func (m *MockShopRepository) UpdateStats(id uuid.UUID, stats models.ShopStats) error {
	args := m.Called(id, stats)
	return args.Error(0)
}

func (m *MockShopRepository) CountApproved() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

var _ repository.ReviewRepository = (*MockReviewRepository)(nil)

func (m *MockReviewRepository) Create(review *models.Review) error {
	args := m.Called(review)
	if args.Error(0) == nil && review.ID == uuid.Nil {
		review.ID = uuid.New()
		review.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(id uuid.UUID) (*models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockReviewRepository) FindByUserAndProduct(userID, productID uuid.UUID) (*models.Review, error) {
	args := m.Called(userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByUserAndShop(userID, shopID uuid.UUID) (*models.Review, error) {
	args := m.Called(userID, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByProduct(productID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	args := m.Called(productID, page, limit)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) ListByShop(shopID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	args := m.Called(shopID, page, limit)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) ListByShops(shopIDs []uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	args := m.Called(shopIDs, page, limit)
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) AggregateForProduct(productID uuid.UUID) (float64, int64, error) {
	args := m.Called(productID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) AggregateForShop(shopID uuid.UUID) (float64, int64, error) {
	args := m.Called(shopID)
	return args.Get(0).(float64), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewRepository) RatingCountsForProduct(productID uuid.UUID) (map[int]int, error) {
	args := m.Called(productID)
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *MockReviewRepository) RatingCountsForShop(shopID uuid.UUID) (map[int]int, error) {
	args := m.Called(shopID)
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *MockReviewRepository) ReviewedProductIDs(userID uuid.UUID, productIDs []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(userID, productIDs)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockReviewRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockFollowRepository is a mock implementation of FollowRepository
type MockFollowRepository struct {
	mock.Mock
}

var _ repository.FollowRepository = (*MockFollowRepository)(nil)

func (m *MockFollowRepository) Create(follow *models.ShopFollow) error {
	args := m.Called(follow)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(userID, shopID uuid.UUID) error {
	args := m.Called(userID, shopID)
	return args.Error(0)
}

func (m *MockFollowRepository) Find(userID, shopID uuid.UUID) (*models.ShopFollow, error) {
	args := m.Called(userID, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShopFollow), args.Error(1)
}

func (m *MockFollowRepository) CountByShop(shopID uuid.UUID) (int64, error) {
	args := m.Called(shopID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) ListFollowerIDs(shopID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(shopID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockFollowRepository) ListFollowers(shopID uuid.UUID, page, limit int) ([]models.ShopFollow, int64, error) {
	args := m.Called(shopID, page, limit)
	return args.Get(0).([]models.ShopFollow), args.Get(1).(int64), args.Error(2)
}

func (m *MockFollowRepository) ListFollowedShopIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

var _ repository.NotificationRepository = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) Create(notification *models.Notification) error {
	args := m.Called(notification)
	if args.Error(0) == nil && notification.ID == uuid.Nil {
		notification.ID = uuid.New()
		notification.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateBulk(notifications []models.Notification) error {
	args := m.Called(notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByID(id uuid.UUID) (*models.Notification, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByUser(userID uuid.UUID, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	args := m.Called(userID, unreadOnly, page, limit)
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) UnreadCount(userID uuid.UUID) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) PushTokens(userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(userIDs)
	return args.Get(0).(map[uuid.UUID]string), args.Error(1)
}

// MockNotificationService is a mock implementation of NotificationService
type MockNotificationService struct {
	mock.Mock
}

var _ NotificationService = (*MockNotificationService)(nil)

func (m *MockNotificationService) Notify(userID uuid.UUID, notifType models.NotificationType, title, message string, data map[string]string) error {
	args := m.Called(userID, notifType, title, message, data)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyMany(userIDs []uuid.UUID, notifType models.NotificationType, title, message string, data map[string]string) error {
	args := m.Called(userIDs, notifType, title, message, data)
	return args.Error(0)
}

func (m *MockNotificationService) ListUserNotifications(userID uuid.UUID, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	args := m.Called(userID, unreadOnly, page, limit)
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) MarkRead(userID, notificationID uuid.UUID) error {
	args := m.Called(userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(userID uuid.UUID) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockNotificationService) Delete(userID, notificationID uuid.UUID) error {
	args := m.Called(userID, notificationID)
	return args.Error(0)
}
