package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
)

// OrderRepository is the persistence boundary for orders and their items.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uuid.UUID) (*models.Order, error)
	Update(order *models.Order) error
	ListByUser(userID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	ListByVendor(vendorID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	VendorSales(vendorID uuid.UUID) (orders int64, revenue float64, err error)
	CountDelivered() (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(order *models.Order) error {
	return r.db.Save(order).Error
}

func (r *orderRepository) ListByUser(userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)
	var orders []models.Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) ListByVendor(vendorID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	sub := r.db.Model(&models.OrderItem{}).Select("order_id").Where("vendor_id = ?", vendorID)
	query := r.db.Model(&models.Order{}).Where("id IN (?)", sub)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)
	var orders []models.Order
	err := query.Preload("Items", "vendor_id = ?", vendorID).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

// VendorSales aggregates non-cancelled order counts and revenue for one
// vendor from the source tables. Used by the shop stats recompute path.
func (r *orderRepository) VendorSales(vendorID uuid.UUID) (int64, float64, error) {
	var result struct {
		Orders  int64
		Revenue float64
	}
	err := r.db.Model(&models.OrderItem{}).
		Select("COUNT(DISTINCT order_items.order_id) AS orders, COALESCE(SUM(order_items.subtotal), 0) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.vendor_id = ? AND orders.status <> ? AND orders.deleted_at IS NULL",
			vendorID, models.OrderStatusCancelled).
		Scan(&result).Error
	return result.Orders, result.Revenue, err
}

func (r *orderRepository) CountDelivered() (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusDelivered).Count(&count).Error
	return count, err
}
