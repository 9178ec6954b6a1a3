package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrderStatus(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionOrderStatus(tt.from, tt.to))
		})
	}
}

func TestValidateOrderStatusTransition(t *testing.T) {
	assert.NoError(t, ValidateOrderStatusTransition(OrderStatusPending, OrderStatusProcessing))

	err := ValidateOrderStatusTransition(OrderStatusDelivered, OrderStatusShipped)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status transition")
}

func TestIsTerminalOrderStatus(t *testing.T) {
	assert.True(t, IsTerminalOrderStatus(OrderStatusDelivered))
	assert.True(t, IsTerminalOrderStatus(OrderStatusCancelled))
	assert.False(t, IsTerminalOrderStatus(OrderStatusPending))
	assert.False(t, IsTerminalOrderStatus(OrderStatusProcessing))
	assert.False(t, IsTerminalOrderStatus(OrderStatusShipped))
}

func TestIsVendorAllowedStatus(t *testing.T) {
	assert.True(t, IsVendorAllowedStatus(OrderStatusProcessing))
	assert.True(t, IsVendorAllowedStatus(OrderStatusShipped))
	assert.True(t, IsVendorAllowedStatus(OrderStatusDelivered))
	assert.False(t, IsVendorAllowedStatus(OrderStatusCancelled))
	assert.False(t, IsVendorAllowedStatus(OrderStatusPending))
}

func TestGetNextValidOrderStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]OrderStatus{OrderStatusProcessing, OrderStatusCancelled},
		GetNextValidOrderStatuses(OrderStatusPending))
	assert.Empty(t, GetNextValidOrderStatuses(OrderStatusDelivered))
}

func TestStatusMessage(t *testing.T) {
	assert.Equal(t, "Your order #abc123 has been shipped", OrderStatusShipped.StatusMessage("#abc123"))
	assert.Equal(t, "Your order #abc123 has been cancelled", OrderStatusCancelled.StatusMessage("#abc123"))
}
