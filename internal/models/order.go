package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order is the primary write of a purchase. Item prices are copied from the
// product at placement time and never change afterwards.
type Order struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderNumber     string         `json:"orderNumber" gorm:"type:varchar(40);not null;uniqueIndex"`
	UserID          uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index:idx_orders_user;index:idx_orders_user_status"`
	Status          OrderStatus    `json:"status" gorm:"type:varchar(20);not null;default:'pending';index:idx_orders_user_status"`
	Items           []OrderItem    `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount     float64        `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	ShippingAddress JSONB          `json:"shippingAddress,omitempty" gorm:"type:jsonb"`
	PaymentMethod   string         `json:"paymentMethod" gorm:"type:varchar(40)"`
	ShippedAt       *time.Time     `json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time     `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time     `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Order) TableName() string {
	return "orders"
}

// BeforeCreate generates the order number.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderNumber == "" {
		o.OrderNumber = fmt.Sprintf("ORD-%d", time.Now().Unix())
	}
	return nil
}

// Reference is the short order reference shown to buyers.
func (o *Order) Reference() string {
	id := o.ID.String()
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "#" + id
}

// OrderItem is one line of an order. VendorID is denormalized from the
// product so shop aggregates can be maintained without a join.
type OrderItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID     uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	VendorID    uuid.UUID `json:"vendorId" gorm:"type:uuid;not null;index"`
	ProductName string    `json:"productName" gorm:"type:varchar(255)"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Subtotal    float64   `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// PlaceOrderRequest is the payload accepted by order placement.
type PlaceOrderRequest struct {
	Items           []PlaceOrderItem `json:"items" binding:"required,min=1,dive"`
	ShippingAddress JSONB            `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
}

// PlaceOrderItem is one requested line.
type PlaceOrderItem struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// UpdateOrderStatusRequest carries the requested transition.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// UserOrderView decorates an order with per-product review flags for the
// buyer's order history.
type UserOrderView struct {
	Order
	ReviewedProducts []uuid.UUID `json:"reviewedProducts"`
}
