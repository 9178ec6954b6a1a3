package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"marketplace-service/internal/events"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repository"
)

// OrderService owns the order lifecycle. Placement validates every item
// before any write; the order row is the primary write and everything
// downstream of it (stock, product stats, purchase history, shop stats,
// notifications, events) is best-effort and never rolled back.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *models.PlaceOrderRequest) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, actorID uuid.UUID, role models.UserRole, orderID uuid.UUID, newStatus models.OrderStatus) (*models.Order, error)
	CancelOrder(ctx context.Context, actorID uuid.UUID, role models.UserRole, orderID uuid.UUID) (*models.Order, error)
	GetOrder(actorID uuid.UUID, role models.UserRole, orderID uuid.UUID) (*models.Order, error)
	ListUserOrders(userID uuid.UUID, page, limit int) ([]models.UserOrderView, int64, error)
	ListVendorOrders(actorID uuid.UUID, role models.UserRole, shopID uuid.UUID, page, limit int) ([]models.Order, int64, error)
}

type orderService struct {
	orders        repository.OrderRepository
	products      repository.ProductRepository
	shops         repository.ShopRepository
	reviews       repository.ReviewRepository
	notifications NotificationService
	publisher     *events.Publisher
	log           *logrus.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	shops repository.ShopRepository,
	reviews repository.ReviewRepository,
	notifications NotificationService,
	publisher *events.Publisher,
	log *logrus.Logger,
) OrderService {
	return &orderService{
		orders:        orders,
		products:      products,
		shops:         shops,
		reviews:       reviews,
		notifications: notifications,
		publisher:     publisher,
		log:           log,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *models.PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, validationf("order must contain at least one item")
	}

	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, validationf("quantity must be positive")
		}
		productIDs = append(productIDs, item.ProductID)
	}

	found, err := s.products.GetByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*models.Product, len(found))
	for i := range found {
		productMap[found[i].ID] = &found[i]
	}

	// Validate everything before writing anything.
	for _, item := range req.Items {
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, preconditionf("product %s not found", item.ProductID)
		}
		if product.Status != models.ProductStatusActive {
			return nil, preconditionf("product %s is not available", product.Name)
		}
		if product.Stock < item.Quantity {
			return nil, preconditionf("insufficient stock for %s: requested %d, available %d",
				product.Name, item.Quantity, product.Stock)
		}
	}

	order := &models.Order{
		UserID:          userID,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, item := range req.Items {
		product := productMap[item.ProductID]
		unitPrice := product.EffectivePrice()
		subtotal := unitPrice * float64(item.Quantity)
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   product.ID,
			VendorID:    product.VendorID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       unitPrice,
			Subtotal:    subtotal,
		})
		order.TotalAmount += subtotal
	}

	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	s.applyPlacementEffects(ctx, order, productMap)
	return order, nil
}

// applyPlacementEffects runs the placement fan-out. Each step is
// independent; failures are logged and the order stands.
func (s *orderService) applyPlacementEffects(ctx context.Context, order *models.Order, productMap map[uuid.UUID]*models.Product) {
	now := time.Now()

	for _, item := range order.Items {
		product, ok := productMap[item.ProductID]
		if !ok {
			continue
		}
		// Stock and the counters move with store-side arithmetic so a
		// concurrent placement or cancellation cannot lose an update.
		if err := s.products.AddOrderStats(ctx, product.ID, 1, item.Quantity, item.Subtotal); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"order_id":   order.ID,
				"product_id": product.ID,
			}).Warn("Failed to apply product counters of placement")
		}
		product.LogPurchase(order.UserID, order.ID, item.Quantity, item.Price, now)
		if err := s.products.UpdatePurchaseLog(ctx, product); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"order_id":   order.ID,
				"product_id": product.ID,
			}).Warn("Failed to record product purchase log")
		}
	}

	for shopID, subtotal := range vendorSubtotals(order) {
		if err := s.shops.AddOrderStats(shopID, 1, subtotal); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"order_id": order.ID,
				"shop_id":  shopID,
			}).Warn("Failed to apply shop effects of placement")
		}
	}

	if err := s.notifications.Notify(order.UserID, models.NotificationTypeOrderPlaced,
		"Order Placed",
		fmt.Sprintf("Your order %s has been placed", order.Reference()),
		map[string]string{"orderId": order.ID.String()}); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("Failed to notify buyer of placement")
	}

	s.publisher.Publish(events.SubjectOrderCreated, map[string]interface{}{
		"orderId":     order.ID.String(),
		"orderNumber": order.OrderNumber,
		"userId":      order.UserID.String(),
		"totalAmount": order.TotalAmount,
		"itemCount":   len(order.Items),
	})
}

// vendorSubtotals groups an order's items by shop.
func vendorSubtotals(order *models.Order) map[uuid.UUID]float64 {
	subtotals := make(map[uuid.UUID]float64)
	for _, item := range order.Items {
		subtotals[item.VendorID] += item.Subtotal
	}
	return subtotals
}

// actorOwnsOrderItems reports whether the actor owns at least one shop
// whose products appear in the order.
func (s *orderService) actorOwnsOrderItems(actorID uuid.UUID, order *models.Order) (bool, error) {
	shops, err := s.shops.GetByOwner(actorID)
	if err != nil {
		return false, err
	}
	owned := make(map[uuid.UUID]bool, len(shops))
	for _, shop := range shops {
		owned[shop.ID] = true
	}
	for _, item := range order.Items {
		if owned[item.VendorID] {
			return true, nil
		}
	}
	return false, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, actorID uuid.UUID, role models.UserRole, orderID uuid.UUID, newStatus models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order"}
		}
		return nil, err
	}

	if newStatus == models.OrderStatusCancelled {
		return nil, validationf("use the cancellation endpoint to cancel an order")
	}

	switch role {
	case models.UserRoleAdmin:
	case models.UserRoleVendor:
		if !models.IsVendorAllowedStatus(newStatus) {
			return nil, validationf("vendors may only set status to processing, shipped or delivered")
		}
		owns, err := s.actorOwnsOrderItems(actorID, order)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, &AuthorizationError{Message: "order contains no products from your shops"}
		}
	default:
		return nil, &AuthorizationError{Message: "only vendors and admins may update order status"}
	}

	if err := models.ValidateOrderStatusTransition(order.Status, newStatus); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	previous := order.Status
	order.Status = newStatus
	now := time.Now()
	// Timestamps are set once and kept on replays.
	if newStatus == models.OrderStatusShipped && order.ShippedAt == nil {
		order.ShippedAt = &now
	}
	if newStatus == models.OrderStatusDelivered && order.DeliveredAt == nil {
		order.DeliveredAt = &now
	}

	if err := s.orders.Update(order); err != nil {
		return nil, err
	}

	if err := s.notifications.Notify(order.UserID, models.NotificationTypeOrderStatus,
		"Order "+newStatus.DisplayName(),
		newStatus.StatusMessage(order.Reference()),
		map[string]string{"orderId": order.ID.String(), "status": string(newStatus)}); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("Failed to notify buyer of status change")
	}

	s.publisher.Publish(events.SubjectOrderStatusChanged, map[string]interface{}{
		"orderId":        order.ID.String(),
		"previousStatus": string(previous),
		"newStatus":      string(newStatus),
	})

	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, actorID uuid.UUID, role models.UserRole, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order"}
		}
		return nil, err
	}

	if role != models.UserRoleAdmin {
		if order.UserID != actorID {
			return nil, &AuthorizationError{Message: "order belongs to another user"}
		}
		if order.Status != models.OrderStatusPending {
			return nil, validationf("only pending orders can be cancelled")
		}
	}

	if err := models.ValidateOrderStatusTransition(order.Status, models.OrderStatusCancelled); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	order.Status = models.OrderStatusCancelled
	now := time.Now()
	order.CancelledAt = &now
	if err := s.orders.Update(order); err != nil {
		return nil, err
	}

	s.applyCancellationEffects(ctx, order)
	return order, nil
}

// applyCancellationEffects reverses the counter effects of placement. The
// purchase history log is left intact.
func (s *orderService) applyCancellationEffects(ctx context.Context, order *models.Order) {
	for _, item := range order.Items {
		if err := s.products.AddOrderStats(ctx, item.ProductID, -1, -item.Quantity, -item.Subtotal); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"order_id":   order.ID,
				"product_id": item.ProductID,
			}).Warn("Failed to reverse product counters of placement")
		}
	}

	for shopID, subtotal := range vendorSubtotals(order) {
		if err := s.shops.AddOrderStats(shopID, -1, -subtotal); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"order_id": order.ID,
				"shop_id":  shopID,
			}).Warn("Failed to reverse shop effects of placement")
		}
	}

	if err := s.notifications.Notify(order.UserID, models.NotificationTypeOrderStatus,
		"Order Cancelled",
		models.OrderStatusCancelled.StatusMessage(order.Reference()),
		map[string]string{"orderId": order.ID.String()}); err != nil {
		s.log.WithError(err).WithField("order_id", order.ID).Warn("Failed to notify buyer of cancellation")
	}

	s.publisher.Publish(events.SubjectOrderCancelled, map[string]interface{}{
		"orderId": order.ID.String(),
		"userId":  order.UserID.String(),
	})
}

func (s *orderService) GetOrder(actorID uuid.UUID, role models.UserRole, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order"}
		}
		return nil, err
	}

	if role == models.UserRoleAdmin || order.UserID == actorID {
		return order, nil
	}
	owns, err := s.actorOwnsOrderItems(actorID, order)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, &AuthorizationError{Message: "order belongs to another user"}
	}
	return order, nil
}

func (s *orderService) ListUserOrders(userID uuid.UUID, page, limit int) ([]models.UserOrderView, int64, error) {
	orders, total, err := s.orders.ListByUser(userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	productIDs := make([]uuid.UUID, 0)
	for _, order := range orders {
		for _, item := range order.Items {
			productIDs = append(productIDs, item.ProductID)
		}
	}
	reviewed, err := s.reviews.ReviewedProductIDs(userID, productIDs)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Failed to resolve reviewed products")
	}
	reviewedSet := make(map[uuid.UUID]bool, len(reviewed))
	for _, id := range reviewed {
		reviewedSet[id] = true
	}

	views := make([]models.UserOrderView, 0, len(orders))
	for _, order := range orders {
		view := models.UserOrderView{Order: order, ReviewedProducts: []uuid.UUID{}}
		for _, item := range order.Items {
			if reviewedSet[item.ProductID] {
				view.ReviewedProducts = append(view.ReviewedProducts, item.ProductID)
			}
		}
		views = append(views, view)
	}
	return views, total, nil
}

func (s *orderService) ListVendorOrders(actorID uuid.UUID, role models.UserRole, shopID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	shop, err := s.shops.GetByID(shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, &NotFoundError{Entity: "shop"}
		}
		return nil, 0, err
	}
	if role != models.UserRoleAdmin && shop.OwnerID != actorID {
		return nil, 0, &AuthorizationError{Message: "shop belongs to another vendor"}
	}
	return s.orders.ListByVendor(shopID, page, limit)
}
