package models

import "fmt"

// ValidOrderTransitions defines valid state transitions for OrderStatus
// Flow: pending → processing → shipped → delivered
// cancelled can be reached from pending and processing only
var ValidOrderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {}, // Terminal state
	OrderStatusCancelled:  {}, // Terminal state
}

// VendorAllowedStatuses are the targets a vendor may set on orders that
// contain their products. Cancellation goes through the cancel path.
var VendorAllowedStatuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// CanTransitionOrderStatus checks if a transition from one order status to another is valid
func CanTransitionOrderStatus(from, to OrderStatus) bool {
	validTransitions, exists := ValidOrderTransitions[from]
	if !exists {
		return false
	}
	for _, validTo := range validTransitions {
		if validTo == to {
			return true
		}
	}
	return false
}

// ValidateOrderStatusTransition returns an error if the transition is invalid
func ValidateOrderStatusTransition(from, to OrderStatus) error {
	if !CanTransitionOrderStatus(from, to) {
		return fmt.Errorf("invalid order status transition from %s to %s", from, to)
	}
	return nil
}

// GetNextValidOrderStatuses returns the list of valid next statuses for an order
func GetNextValidOrderStatuses(current OrderStatus) []OrderStatus {
	return ValidOrderTransitions[current]
}

// IsTerminalOrderStatus checks if the order status is a terminal state
func IsTerminalOrderStatus(status OrderStatus) bool {
	return len(ValidOrderTransitions[status]) == 0
}

// IsVendorAllowedStatus reports whether a vendor may set this status.
func IsVendorAllowedStatus(status OrderStatus) bool {
	for _, s := range VendorAllowedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// DisplayName returns a human-readable name for the order status
func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusProcessing:
		return "Processing"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// StatusMessage is the buyer-facing notification text for a status change.
func (s OrderStatus) StatusMessage(reference string) string {
	switch s {
	case OrderStatusProcessing:
		return fmt.Sprintf("Your order %s is being processed", reference)
	case OrderStatusShipped:
		return fmt.Sprintf("Your order %s has been shipped", reference)
	case OrderStatusDelivered:
		return fmt.Sprintf("Your order %s has been delivered", reference)
	case OrderStatusCancelled:
		return fmt.Sprintf("Your order %s has been cancelled", reference)
	default:
		return fmt.Sprintf("Your order %s was updated to %s", reference, s.DisplayName())
	}
}
