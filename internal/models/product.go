package models

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DiscountType describes how a product discount is applied
type DiscountType string

const (
	DiscountTypeNone       DiscountType = "none"
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// StockStatus is derived from stock level, threshold and backorder policy
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusBackorder  StockStatus = "backorder"
)

// ProductStatus represents the publication state of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusDraft    ProductStatus = "draft"
)

// Discount holds the configured discount on a product. SalePrice and
// IsOnSale on the product are derived from it on every save.
type Discount struct {
	Type      DiscountType `json:"type" gorm:"type:varchar(20);default:'none'"`
	Value     float64      `json:"value" gorm:"type:decimal(10,2);default:0"`
	StartDate *time.Time   `json:"startDate,omitempty"`
	EndDate   *time.Time   `json:"endDate,omitempty"`
}

// ActiveAt reports whether the discount applies at the given instant.
func (d Discount) ActiveAt(now time.Time) bool {
	if d.Type == DiscountTypeNone || d.Type == "" || d.Value <= 0 {
		return false
	}
	if d.StartDate != nil && now.Before(*d.StartDate) {
		return false
	}
	if d.EndDate != nil && now.After(*d.EndDate) {
		return false
	}
	return true
}

// ComputeSalePrice derives the effective sale price and sale flag from the
// base price and the discount configuration.
func ComputeSalePrice(price float64, d Discount, now time.Time) (float64, bool) {
	if !d.ActiveAt(now) {
		return price, false
	}
	switch d.Type {
	case DiscountTypePercentage:
		return price * (1 - d.Value/100), true
	case DiscountTypeFixed:
		return math.Max(0, price-d.Value), true
	default:
		return price, false
	}
}

// DeriveStockStatus maps a stock level to its status given the low-stock
// threshold and backorder policy.
func DeriveStockStatus(stock, lowStockThreshold int, allowBackorders bool) StockStatus {
	if stock <= 0 {
		if allowBackorders {
			return StockStatusBackorder
		}
		return StockStatusOutOfStock
	}
	if stock <= lowStockThreshold {
		return StockStatusLowStock
	}
	return StockStatusInStock
}

// ProductStats carries the denormalized counters maintained by order
// placement, cancellation and tracking endpoints.
type ProductStats struct {
	Views             int        `json:"views" gorm:"default:0"`
	TotalOrders       int        `json:"totalOrders" gorm:"default:0"`
	TotalQuantitySold int        `json:"totalQuantitySold" gorm:"default:0"`
	TotalRevenue      float64    `json:"totalRevenue" gorm:"type:decimal(14,2);default:0"`
	AddedToCart       int        `json:"addedToCart" gorm:"default:0"`
	Wishlisted        int        `json:"wishlisted" gorm:"default:0"`
	AverageRating     float64    `json:"averageRating" gorm:"type:decimal(3,2);default:0"`
	TotalReviews      int        `json:"totalReviews" gorm:"default:0"`
	ConversionRate    float64    `json:"conversionRate" gorm:"type:decimal(6,2);default:0"`
	LastViewedAt      *time.Time `json:"lastViewedAt,omitempty"`
	LastSoldAt        *time.Time `json:"lastSoldAt,omitempty"`
}

// PurchaseRecord is one entry in a product's rolling purchase history.
type PurchaseRecord struct {
	UserID          uuid.UUID `json:"userId"`
	OrderID         uuid.UUID `json:"orderId"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase float64   `json:"priceAtPurchase"`
	PurchasedAt     time.Time `json:"purchasedAt"`
}

// MaxPurchaseHistory caps the rolling purchase history kept per product.
const MaxPurchaseHistory = 500

// PurchaseHistory is stored as a JSONB array, trimmed to the most recent
// MaxPurchaseHistory records.
type PurchaseHistory []PurchaseRecord

func (h PurchaseHistory) Value() (driver.Value, error) {
	if h == nil {
		h = PurchaseHistory{}
	}
	return jsonValue(h)
}

func (h *PurchaseHistory) Scan(value interface{}) error {
	return jsonScan(h, value)
}

// Append adds a record and trims the history to the cap, oldest first.
func (h PurchaseHistory) Append(rec PurchaseRecord) PurchaseHistory {
	h = append(h, rec)
	if len(h) > MaxPurchaseHistory {
		h = h[len(h)-MaxPurchaseHistory:]
	}
	return h
}

// MonthlyBuyerStats aggregates purchases per calendar month.
type MonthlyBuyerStats struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// BuyerInsights is derived from the purchase history after every placement.
type BuyerInsights struct {
	TotalBuyers          int                          `json:"totalBuyers"`
	RepeatBuyers         int                          `json:"repeatBuyers"`
	RepeatBuyerRate      float64                      `json:"repeatBuyerRate"`
	AverageOrderQuantity float64                      `json:"averageOrderQuantity"`
	BuyersByMonth        map[string]MonthlyBuyerStats `json:"buyersByMonth"`
}

func (b BuyerInsights) Value() (driver.Value, error) {
	return jsonValue(b)
}

func (b *BuyerInsights) Scan(value interface{}) error {
	return jsonScan(b, value)
}

// Product is the catalog entity. SalePrice, IsOnSale, StockStatus and
// ConversionRate are derived fields and never accepted from clients.
type Product struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VendorID          uuid.UUID       `json:"vendorId" gorm:"type:uuid;not null;index:idx_products_vendor;index:idx_products_vendor_status"`
	CategoryID        *uuid.UUID      `json:"categoryId,omitempty" gorm:"type:uuid;index:idx_products_category"`
	Name              string          `json:"name" gorm:"type:varchar(255);not null"`
	Slug              string          `json:"slug" gorm:"type:varchar(300);uniqueIndex"`
	Description       string          `json:"description" gorm:"type:text"`
	Brand             string          `json:"brand" gorm:"type:varchar(100);index"`
	SKU               string          `json:"sku" gorm:"type:varchar(64);uniqueIndex"`
	Price             float64         `json:"price" gorm:"type:decimal(10,2);not null"`
	Discount          Discount        `json:"discount" gorm:"embedded;embeddedPrefix:discount_"`
	SalePrice         float64         `json:"salePrice" gorm:"type:decimal(10,2)"`
	IsOnSale          bool            `json:"isOnSale" gorm:"default:false;index"`
	Stock             int             `json:"stock" gorm:"default:0"`
	TrackInventory    bool            `json:"trackInventory" gorm:"default:true"`
	LowStockThreshold int             `json:"lowStockThreshold" gorm:"default:10"`
	AllowBackorders   bool            `json:"allowBackorders" gorm:"default:false"`
	StockStatus       StockStatus     `json:"stockStatus" gorm:"type:varchar(20);default:'in_stock';index"`
	Status            ProductStatus   `json:"status" gorm:"type:varchar(20);default:'active';index:idx_products_vendor_status"`
	Images            pq.StringArray  `json:"images" gorm:"type:text[]"`
	Tags              pq.StringArray  `json:"tags" gorm:"type:text[]"`
	Stats             ProductStats    `json:"stats" gorm:"embedded;embeddedPrefix:stats_"`
	PurchaseHistory   PurchaseHistory `json:"-" gorm:"type:jsonb"`
	BuyerInsights     BuyerInsights   `json:"buyerInsights" gorm:"type:jsonb"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}

// BeforeCreate fills in slug and SKU when absent.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = GenerateSlug(p.Name)
	}
	if p.SKU == "" {
		p.SKU = fmt.Sprintf("PRD-%s", strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36)))
	}
	return nil
}

// BeforeSave re-derives sale price, stock status and conversion rate so the
// persisted row is always consistent with its inputs.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.ApplyDerivations(time.Now())
	return nil
}

// ApplyDerivations recomputes every derived field in place.
func (p *Product) ApplyDerivations(now time.Time) {
	p.SalePrice, p.IsOnSale = ComputeSalePrice(p.Price, p.Discount, now)
	p.StockStatus = DeriveStockStatus(p.Stock, p.LowStockThreshold, p.AllowBackorders)
	if p.Stats.Views > 0 {
		rate := float64(p.Stats.TotalOrders) / float64(p.Stats.Views) * 100
		p.Stats.ConversionRate = math.Round(rate*100) / 100
	}
}

// EffectivePrice returns the price a buyer pays right now.
func (p *Product) EffectivePrice() float64 {
	if p.IsOnSale {
		return p.SalePrice
	}
	return p.Price
}

// RecomputeBuyerInsights rebuilds the insight block from the purchase
// history and current counters.
func (p *Product) RecomputeBuyerInsights() {
	buyers := make(map[uuid.UUID]int, len(p.PurchaseHistory))
	for _, rec := range p.PurchaseHistory {
		buyers[rec.UserID]++
	}
	repeat := 0
	for _, n := range buyers {
		if n > 1 {
			repeat++
		}
	}
	insights := BuyerInsights{
		TotalBuyers:   len(buyers),
		RepeatBuyers:  repeat,
		BuyersByMonth: p.BuyerInsights.BuyersByMonth,
	}
	if insights.TotalBuyers > 0 {
		insights.RepeatBuyerRate = float64(repeat) / float64(insights.TotalBuyers) * 100
	}
	totalOrders := p.Stats.TotalOrders
	if totalOrders < 1 {
		totalOrders = 1
	}
	insights.AverageOrderQuantity = float64(p.Stats.TotalQuantitySold) / float64(totalOrders)
	if insights.BuyersByMonth == nil {
		insights.BuyersByMonth = make(map[string]MonthlyBuyerStats)
	}
	p.BuyerInsights = insights
}

// RecordPurchase applies the per-product effects of one placed order item.
func (p *Product) RecordPurchase(userID, orderID uuid.UUID, quantity int, unitPrice float64, now time.Time) {
	p.Stock -= quantity
	p.Stats.TotalOrders++
	p.Stats.TotalQuantitySold += quantity
	p.Stats.TotalRevenue += unitPrice * float64(quantity)
	p.Stats.LastSoldAt = &now
	p.LogPurchase(userID, orderID, quantity, unitPrice, now)
}

// LogPurchase appends to the purchase history and re-derives the buyer
// insight block. Stock and the sales counters are not touched; the order
// path moves those with store-side arithmetic.
func (p *Product) LogPurchase(userID, orderID uuid.UUID, quantity int, unitPrice float64, now time.Time) {
	p.PurchaseHistory = p.PurchaseHistory.Append(PurchaseRecord{
		UserID:          userID,
		OrderID:         orderID,
		Quantity:        quantity,
		PriceAtPurchase: unitPrice,
		PurchasedAt:     now,
	})
	p.RecomputeBuyerInsights()

	month := now.Format("2006-01")
	stats := p.BuyerInsights.BuyersByMonth[month]
	stats.Count++
	stats.Revenue += unitPrice * float64(quantity)
	p.BuyerInsights.BuyersByMonth[month] = stats
}

// ReversePurchase undoes the counter effects of one order item. The
// purchase history is an append-only log and is not rewound.
func (p *Product) ReversePurchase(quantity int, unitPrice float64) {
	p.Stock += quantity
	p.Stats.TotalOrders--
	p.Stats.TotalQuantitySold -= quantity
	p.Stats.TotalRevenue -= unitPrice * float64(quantity)
}

// GenerateSlug builds a URL slug from a name with a timestamp suffix to
// keep it unique.
func GenerateSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return slug + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}

// CreateProductRequest is the payload accepted by product creation.
type CreateProductRequest struct {
	Name              string     `json:"name" binding:"required,min=2,max=255"`
	Description       string     `json:"description"`
	Brand             string     `json:"brand"`
	CategoryID        *uuid.UUID `json:"categoryId"`
	Price             float64    `json:"price" binding:"required,gt=0"`
	Discount          *Discount  `json:"discount"`
	Stock             int        `json:"stock" binding:"gte=0"`
	TrackInventory    *bool      `json:"trackInventory"`
	LowStockThreshold *int       `json:"lowStockThreshold"`
	AllowBackorders   bool       `json:"allowBackorders"`
	SKU               string     `json:"sku"`
	Status            string     `json:"status"`
	Images            []string   `json:"images"`
	Tags              []string   `json:"tags"`
}

// UpdateProductRequest carries optional fields; nil means unchanged.
type UpdateProductRequest struct {
	Name              *string    `json:"name"`
	Description       *string    `json:"description"`
	Brand             *string    `json:"brand"`
	CategoryID        *uuid.UUID `json:"categoryId"`
	VendorID          *uuid.UUID `json:"vendorId"`
	Price             *float64   `json:"price"`
	Discount          *Discount  `json:"discount"`
	Stock             *int       `json:"stock"`
	TrackInventory    *bool      `json:"trackInventory"`
	LowStockThreshold *int       `json:"lowStockThreshold"`
	AllowBackorders   *bool      `json:"allowBackorders"`
	Status            *string    `json:"status"`
	Images            []string   `json:"images"`
	Tags              []string   `json:"tags"`
}

// ListProductsRequest captures list filters and pagination.
type ListProductsRequest struct {
	Query      string     `form:"q"`
	CategoryID *uuid.UUID `form:"categoryId"`
	VendorID   *uuid.UUID `form:"vendorId"`
	Status     string     `form:"status"`
	MinPrice   *float64   `form:"minPrice"`
	MaxPrice   *float64   `form:"maxPrice"`
	OnSale     *bool      `form:"onSale"`
	SortBy     string     `form:"sortBy"`
	Page       int        `form:"page"`
	Limit      int        `form:"limit"`
}

// ProductAnalytics is the vendor-facing analytics view of one product.
type ProductAnalytics struct {
	ProductID       uuid.UUID        `json:"productId"`
	Name            string           `json:"name"`
	Stats           ProductStats     `json:"stats"`
	BuyerInsights   BuyerInsights    `json:"buyerInsights"`
	RecentPurchases []PurchaseRecord `json:"recentPurchases"`
}
