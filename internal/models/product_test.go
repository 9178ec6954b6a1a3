package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestComputeSalePrice_Percentage(t *testing.T) {
	now := time.Now()
	price, onSale := ComputeSalePrice(200, Discount{Type: DiscountTypePercentage, Value: 25}, now)

	assert.True(t, onSale)
	assert.Equal(t, 150.0, price)
}

func TestComputeSalePrice_FixedFloorsAtZero(t *testing.T) {
	now := time.Now()

	price, onSale := ComputeSalePrice(50, Discount{Type: DiscountTypeFixed, Value: 10}, now)
	assert.True(t, onSale)
	assert.Equal(t, 40.0, price)

	// A fixed discount larger than the price never produces a negative price.
	price, onSale = ComputeSalePrice(50, Discount{Type: DiscountTypeFixed, Value: 80}, now)
	assert.True(t, onSale)
	assert.Equal(t, 0.0, price)
}

func TestComputeSalePrice_OutsideWindow(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	price, onSale := ComputeSalePrice(100, Discount{
		Type:      DiscountTypePercentage,
		Value:     50,
		StartDate: &future,
	}, now)
	assert.False(t, onSale)
	assert.Equal(t, 100.0, price)

	price, onSale = ComputeSalePrice(100, Discount{
		Type:    DiscountTypePercentage,
		Value:   50,
		EndDate: &past,
	}, now)
	assert.False(t, onSale)
	assert.Equal(t, 100.0, price)
}

func TestComputeSalePrice_NoneOrZeroValue(t *testing.T) {
	now := time.Now()

	price, onSale := ComputeSalePrice(100, Discount{Type: DiscountTypeNone, Value: 30}, now)
	assert.False(t, onSale)
	assert.Equal(t, 100.0, price)

	price, onSale = ComputeSalePrice(100, Discount{Type: DiscountTypePercentage, Value: 0}, now)
	assert.False(t, onSale)
	assert.Equal(t, 100.0, price)
}

func TestDeriveStockStatus(t *testing.T) {
	tests := []struct {
		name            string
		stock           int
		threshold       int
		allowBackorders bool
		expected        StockStatus
	}{
		{"above threshold", 50, 10, false, StockStatusInStock},
		{"at threshold", 10, 10, false, StockStatusLowStock},
		{"below threshold", 3, 10, false, StockStatusLowStock},
		{"zero without backorders", 0, 10, false, StockStatusOutOfStock},
		{"zero with backorders", 0, 10, true, StockStatusBackorder},
		{"negative with backorders", -5, 10, true, StockStatusBackorder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveStockStatus(tt.stock, tt.threshold, tt.allowBackorders))
		})
	}
}

func TestApplyDerivations_ConversionRate(t *testing.T) {
	p := &Product{
		Price: 100,
		Stock: 20,
		Stats: ProductStats{Views: 3, TotalOrders: 1},
	}
	p.ApplyDerivations(time.Now())

	// 1/3 * 100 rounded to two decimals.
	assert.Equal(t, 33.33, p.Stats.ConversionRate)
}

func TestApplyDerivations_NoViewsKeepsRate(t *testing.T) {
	p := &Product{Price: 100, Stats: ProductStats{TotalOrders: 5}}
	p.ApplyDerivations(time.Now())

	assert.Equal(t, 0.0, p.Stats.ConversionRate)
}

func TestEffectivePrice(t *testing.T) {
	p := &Product{Price: 100, Discount: Discount{Type: DiscountTypePercentage, Value: 10}}
	p.ApplyDerivations(time.Now())
	assert.Equal(t, 90.0, p.EffectivePrice())

	p.Discount = Discount{}
	p.ApplyDerivations(time.Now())
	assert.Equal(t, 100.0, p.EffectivePrice())
}

func TestPurchaseHistory_AppendCapsAtLimit(t *testing.T) {
	var history PurchaseHistory
	for i := 0; i < MaxPurchaseHistory+25; i++ {
		history = history.Append(PurchaseRecord{OrderID: uuid.New(), Quantity: 1})
	}

	assert.Len(t, history, MaxPurchaseHistory)
}

func TestPurchaseHistory_AppendDropsOldestFirst(t *testing.T) {
	var history PurchaseHistory
	first := uuid.New()
	history = history.Append(PurchaseRecord{OrderID: first, Quantity: 1})
	for i := 0; i < MaxPurchaseHistory; i++ {
		history = history.Append(PurchaseRecord{OrderID: uuid.New(), Quantity: 1})
	}

	assert.Len(t, history, MaxPurchaseHistory)
	assert.NotEqual(t, first, history[0].OrderID)
}

func TestRecordPurchase(t *testing.T) {
	now := time.Now()
	buyer := uuid.New()
	p := &Product{Price: 25, Stock: 10}

	p.RecordPurchase(buyer, uuid.New(), 3, 25, now)

	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, 1, p.Stats.TotalOrders)
	assert.Equal(t, 3, p.Stats.TotalQuantitySold)
	assert.Equal(t, 75.0, p.Stats.TotalRevenue)
	assert.Len(t, p.PurchaseHistory, 1)
	assert.Equal(t, 1, p.BuyerInsights.TotalBuyers)
	assert.NotNil(t, p.Stats.LastSoldAt)

	month := now.Format("2006-01")
	assert.Equal(t, 1, p.BuyerInsights.BuyersByMonth[month].Count)
	assert.Equal(t, 75.0, p.BuyerInsights.BuyersByMonth[month].Revenue)
}

func TestRecordPurchase_RepeatBuyer(t *testing.T) {
	now := time.Now()
	repeat := uuid.New()
	other := uuid.New()
	p := &Product{Price: 10, Stock: 100}

	p.RecordPurchase(repeat, uuid.New(), 1, 10, now)
	p.RecordPurchase(other, uuid.New(), 2, 10, now)
	p.RecordPurchase(repeat, uuid.New(), 1, 10, now)

	assert.Equal(t, 2, p.BuyerInsights.TotalBuyers)
	assert.Equal(t, 1, p.BuyerInsights.RepeatBuyers)
	assert.Equal(t, 50.0, p.BuyerInsights.RepeatBuyerRate)
	// 4 units across 3 orders.
	assert.InDelta(t, 4.0/3.0, p.BuyerInsights.AverageOrderQuantity, 0.001)
}

func TestReversePurchase_UndoesCountersKeepsHistory(t *testing.T) {
	now := time.Now()
	p := &Product{Price: 20, Stock: 10}
	p.RecordPurchase(uuid.New(), uuid.New(), 4, 20, now)

	p.ReversePurchase(4, 20)

	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, 0, p.Stats.TotalOrders)
	assert.Equal(t, 0, p.Stats.TotalQuantitySold)
	assert.Equal(t, 0.0, p.Stats.TotalRevenue)
	// The purchase log is append-only.
	assert.Len(t, p.PurchaseHistory, 1)
}

func TestOrderLifecycleStockAndStatus(t *testing.T) {
	now := time.Now()
	p := &Product{Price: 50, Stock: 10, LowStockThreshold: 5}
	p.ApplyDerivations(now)
	assert.Equal(t, StockStatusInStock, p.StockStatus)

	p.RecordPurchase(uuid.New(), uuid.New(), 6, 50, now)
	p.ApplyDerivations(now)
	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, 1, p.Stats.TotalOrders)
	assert.Equal(t, 6, p.Stats.TotalQuantitySold)
	assert.Equal(t, StockStatusLowStock, p.StockStatus)

	p.RecordPurchase(uuid.New(), uuid.New(), 4, 50, now)
	p.ApplyDerivations(now)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, StockStatusOutOfStock, p.StockStatus)

	p.AllowBackorders = true
	p.ApplyDerivations(now)
	assert.Equal(t, StockStatusBackorder, p.StockStatus)
	p.AllowBackorders = false

	// Cancelling the second order restores its stock and counters.
	p.ReversePurchase(4, 50)
	p.ApplyDerivations(now)
	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, 1, p.Stats.TotalOrders)
	assert.Equal(t, 6, p.Stats.TotalQuantitySold)
	assert.Equal(t, 300.0, p.Stats.TotalRevenue)
	assert.Equal(t, StockStatusLowStock, p.StockStatus)
}

func TestGenerateSlug(t *testing.T) {
	slug := GenerateSlug("Wireless  Keyboard (Black)")
	assert.Contains(t, slug, "wireless-keyboard-black-")
	assert.NotContains(t, slug, "--")
	assert.NotContains(t, slug, "(")
}
