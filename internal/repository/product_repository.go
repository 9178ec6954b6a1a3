package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute // Single product cache
	ProductListCacheTTL = 2 * time.Minute // Product list cache (shorter due to frequent changes)
)

// ProductRepository is the persistence boundary for products.
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIDs(ids []uuid.UUID) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(req *models.ListProductsRequest) ([]models.Product, int64, error)
	Search(query string, minPrice, maxPrice *float64, sortBy string, limit int) ([]models.Product, error)
	BestDeals(limit int) ([]models.Product, error)
	AddOrderStats(ctx context.Context, id uuid.UUID, orders, quantity int, revenue float64) error
	UpdatePurchaseLog(ctx context.Context, product *models.Product) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	IncrementCartAdds(ctx context.Context, id uuid.UUID) error
	IncrementWishlisted(ctx context.Context, id uuid.UUID) error
	CategoryAggregates(categoryID uuid.UUID) (total, active, sales int64, err error)
	CountActive() (int64, error)
	PopularBrands(limit int) ([]string, error)
}

type productRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewProductRepository wires the gorm store and an optional Redis cache.
func NewProductRepository(db *gorm.DB, rdb *redis.Client) ProductRepository {
	return &productRepository{db: db, redis: rdb}
}

func productCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id.String())
}

func (r *productRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if r.redis == nil {
		return
	}
	_ = r.redis.Del(ctx, productCacheKey(id)).Err()
}

func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, productCacheKey(id)).Result(); err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	if err := r.db.Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		if data, err := json.Marshal(&product); err == nil {
			_ = r.redis.Set(ctx, productCacheKey(id), data, ProductCacheTTL).Err()
		}
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ids []uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		return err
	}
	r.invalidate(ctx, product.ID)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *productRepository) List(req *models.ListProductsRequest) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})

	if req.Query != "" {
		pattern := "%" + strings.ToLower(req.Query) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern)
	}
	if req.CategoryID != nil {
		query = query.Where("category_id = ?", *req.CategoryID)
	}
	if req.VendorID != nil {
		query = query.Where("vendor_id = ?", *req.VendorID)
	}
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.MinPrice != nil {
		query = query.Where("sale_price >= ?", *req.MinPrice)
	}
	if req.MaxPrice != nil {
		query = query.Where("sale_price <= ?", *req.MaxPrice)
	}
	if req.OnSale != nil {
		query = query.Where("is_on_sale = ?", *req.OnSale)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch req.SortBy {
	case "price_asc":
		query = query.Order("sale_price ASC")
	case "price_desc":
		query = query.Order("sale_price DESC")
	case "popularity":
		query = query.Order("stats_total_orders DESC")
	case "rating":
		query = query.Order("stats_average_rating DESC")
	default:
		query = query.Order("created_at DESC")
	}

	page, limit := normalizePage(req.Page, req.Limit)
	var products []models.Product
	err := query.Offset((page - 1) * limit).Limit(limit).Find(&products).Error
	return products, total, err
}

func (r *productRepository) Search(query string, minPrice, maxPrice *float64, sortBy string, limit int) ([]models.Product, error) {
	q := r.db.Model(&models.Product{}).Where("status = ?", models.ProductStatusActive)

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ? OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE LOWER(t) LIKE ?)",
			pattern, pattern, pattern, pattern)
	}
	if minPrice != nil {
		q = q.Where("sale_price >= ?", *minPrice)
	}
	if maxPrice != nil {
		q = q.Where("sale_price <= ?", *maxPrice)
	}

	if sortBy == "popularity" {
		q = q.Order("stats_total_orders DESC")
	} else {
		q = q.Order("stats_total_orders DESC").Order("stats_views DESC")
	}

	var products []models.Product
	err := q.Limit(limit).Find(&products).Error
	return products, err
}

func (r *productRepository) BestDeals(limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("status = ? AND is_on_sale = ? AND stock_status = ?",
			models.ProductStatusActive, true, models.StockStatusInStock).
		Order("discount_value DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// AddOrderStats moves stock and the sales counters with store-side
// arithmetic so concurrent orders cannot lose updates, and re-derives the
// stored stock status from the resulting stock. Placement passes positive
// deltas, cancellation negative ones.
func (r *productRepository) AddOrderStats(ctx context.Context, id uuid.UUID, orders, quantity int, revenue float64) error {
	updates := map[string]interface{}{
		"stock":                     gorm.Expr("stock - ?", quantity),
		"stats_total_orders":        gorm.Expr("stats_total_orders + ?", orders),
		"stats_total_quantity_sold": gorm.Expr("stats_total_quantity_sold + ?", quantity),
		"stats_total_revenue":       gorm.Expr("stats_total_revenue + ?", revenue),
		"stock_status": gorm.Expr(
			"CASE WHEN stock - ? <= 0 AND allow_backorders THEN 'backorder' "+
				"WHEN stock - ? <= 0 THEN 'out_of_stock' "+
				"WHEN stock - ? <= low_stock_threshold THEN 'low_stock' "+
				"ELSE 'in_stock' END", quantity, quantity, quantity),
	}
	if orders > 0 {
		updates["stats_last_sold_at"] = time.Now()
	}
	err := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
	if err == nil {
		r.invalidate(ctx, id)
	}
	return err
}

// UpdatePurchaseLog persists the purchase history and buyer insight
// columns only, leaving stock and the counters to AddOrderStats.
func (r *productRepository) UpdatePurchaseLog(ctx context.Context, product *models.Product) error {
	err := r.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"purchase_history": product.PurchaseHistory,
			"buyer_insights":   product.BuyerInsights,
		}).Error
	if err == nil {
		r.invalidate(ctx, product.ID)
	}
	return err
}

func (r *productRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	err := r.db.Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"stats_views":          gorm.Expr("stats_views + 1"),
			"stats_last_viewed_at": time.Now(),
		}).Error
	if err == nil {
		r.invalidate(ctx, id)
	}
	return err
}

func (r *productRepository) IncrementCartAdds(ctx context.Context, id uuid.UUID) error {
	err := r.db.Model(&models.Product{}).Where("id = ?", id).
		Update("stats_added_to_cart", gorm.Expr("stats_added_to_cart + 1")).Error
	if err == nil {
		r.invalidate(ctx, id)
	}
	return err
}

func (r *productRepository) IncrementWishlisted(ctx context.Context, id uuid.UUID) error {
	err := r.db.Model(&models.Product{}).Where("id = ?", id).
		Update("stats_wishlisted", gorm.Expr("stats_wishlisted + 1")).Error
	if err == nil {
		r.invalidate(ctx, id)
	}
	return err
}

func (r *productRepository) CategoryAggregates(categoryID uuid.UUID) (int64, int64, int64, error) {
	var total, active int64
	if err := r.db.Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&total).Error; err != nil {
		return 0, 0, 0, err
	}
	if err := r.db.Model(&models.Product{}).
		Where("category_id = ? AND status = ?", categoryID, models.ProductStatusActive).
		Count(&active).Error; err != nil {
		return 0, 0, 0, err
	}
	var sales struct{ Total int64 }
	if err := r.db.Model(&models.Product{}).
		Select("COALESCE(SUM(stats_total_quantity_sold), 0) AS total").
		Where("category_id = ?", categoryID).
		Scan(&sales).Error; err != nil {
		return 0, 0, 0, err
	}
	return total, active, sales.Total, nil
}

func (r *productRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("status = ?", models.ProductStatusActive).Count(&count).Error
	return count, err
}

func (r *productRepository) PopularBrands(limit int) ([]string, error) {
	var brands []string
	err := r.db.Model(&models.Product{}).
		Where("brand <> '' AND status = ?", models.ProductStatusActive).
		Group("brand").
		Order("SUM(stats_total_orders) DESC").
		Limit(limit).
		Pluck("brand", &brands).Error
	return brands, err
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
