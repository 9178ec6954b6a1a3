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

// ProductService owns catalog writes and the follower fan-outs they
// trigger. Derived fields are recomputed by the model hooks on save.
type ProductService interface {
	CreateProduct(ctx context.Context, actorID uuid.UUID, role models.UserRole, shopID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, actorID uuid.UUID, role models.UserRole, productID uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, actorID uuid.UUID, role models.UserRole, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(req *models.ListProductsRequest) ([]models.Product, int64, error)
	TrackView(ctx context.Context, productID uuid.UUID) error
	TrackAddToCart(ctx context.Context, productID uuid.UUID) error
	TrackWishlist(ctx context.Context, productID uuid.UUID) error
	GetProductAnalytics(ctx context.Context, actorID uuid.UUID, role models.UserRole, productID uuid.UUID) (*models.ProductAnalytics, error)
}

type productService struct {
	products  repository.ProductRepository
	shops     repository.ShopRepository
	follows   FollowService
	publisher *events.Publisher
	log       *logrus.Logger
}

func NewProductService(products repository.ProductRepository, shops repository.ShopRepository, follows FollowService, publisher *events.Publisher, log *logrus.Logger) ProductService {
	return &productService{
		products:  products,
		shops:     shops,
		follows:   follows,
		publisher: publisher,
		log:       log,
	}
}

// ownedShop loads a shop and verifies the actor controls it.
func (s *productService) ownedShop(actorID uuid.UUID, role models.UserRole, shopID uuid.UUID) (*models.Shop, error) {
	shop, err := s.shops.GetByID(shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "shop"}
		}
		return nil, err
	}
	if role != models.UserRoleAdmin && shop.OwnerID != actorID {
		return nil, &AuthorizationError{Message: "shop belongs to another vendor"}
	}
	return shop, nil
}

func (s *productService) CreateProduct(ctx context.Context, actorID uuid.UUID, role models.UserRole, shopID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error) {
	shop, err := s.ownedShop(actorID, role, shopID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		VendorID:    shopID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		SKU:         req.SKU,
		Price:       req.Price,
		Stock:       req.Stock,
		Status:      models.ProductStatusActive,
		Images:      req.Images,
		Tags:        req.Tags,
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	} else {
		product.Discount = models.Discount{Type: models.DiscountTypeNone}
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	} else {
		product.LowStockThreshold = 10
	}
	product.TrackInventory = true
	if req.TrackInventory != nil {
		product.TrackInventory = *req.TrackInventory
	}
	product.AllowBackorders = req.AllowBackorders
	if req.Status != "" {
		product.Status = models.ProductStatus(req.Status)
	}

	if err := s.products.Create(product); err != nil {
		return nil, err
	}

	if err := s.shops.AdjustProductCount(shopID, 1); err != nil {
		s.log.WithError(err).WithField("shop_id", shopID).Warn("Failed to bump shop product count")
	}

	s.follows.NotifyFollowers(shopID, models.NotificationTypeNewProduct,
		"New Product",
		fmt.Sprintf("%s added a new product: %s", shop.Name, product.Name),
		map[string]string{"productId": product.ID.String(), "shopId": shopID.String()})

	s.publisher.Publish(events.SubjectProductCreated, map[string]interface{}{
		"productId": product.ID.String(),
		"shopId":    shopID.String(),
		"name":      product.Name,
	})

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actorID uuid.UUID, role models.UserRole, productID uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product"}
		}
		return nil, err
	}
	shop, err := s.ownedShop(actorID, role, product.VendorID)
	if err != nil {
		return nil, err
	}

	wasDiscounted := product.Discount.ActiveAt(time.Now())
	previousVendor := product.VendorID

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.VendorID != nil {
		if _, err := s.ownedShop(actorID, role, *req.VendorID); err != nil {
			return nil, err
		}
		product.VendorID = *req.VendorID
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, validationf("price must be positive")
		}
		product.Price = *req.Price
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, validationf("stock cannot be negative")
		}
		product.Stock = *req.Stock
	}
	if req.TrackInventory != nil {
		product.TrackInventory = *req.TrackInventory
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.AllowBackorders != nil {
		product.AllowBackorders = *req.AllowBackorders
	}
	if req.Status != nil {
		product.Status = models.ProductStatus(*req.Status)
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	if product.VendorID != previousVendor {
		if err := s.shops.AdjustProductCount(previousVendor, -1); err != nil {
			s.log.WithError(err).WithField("shop_id", previousVendor).Warn("Failed to drop shop product count")
		}
		if err := s.shops.AdjustProductCount(product.VendorID, 1); err != nil {
			s.log.WithError(err).WithField("shop_id", product.VendorID).Warn("Failed to bump shop product count")
		}
	}

	// A discount turning active notifies followers once, on the transition.
	if !wasDiscounted && product.Discount.ActiveAt(time.Now()) {
		s.follows.NotifyFollowers(product.VendorID, models.NotificationTypeProductDiscount,
			"Deal Alert",
			fmt.Sprintf("%s on %s at %s", discountText(product.Discount), product.Name, shop.Name),
			map[string]string{"productId": product.ID.String(), "shopId": product.VendorID.String()})

		s.publisher.Publish(events.SubjectProductDiscounted, map[string]interface{}{
			"productId":     product.ID.String(),
			"shopId":        product.VendorID.String(),
			"discountType":  string(product.Discount.Type),
			"discountValue": product.Discount.Value,
		})
	}

	return product, nil
}

func discountText(d models.Discount) string {
	if d.Type == models.DiscountTypePercentage {
		return fmt.Sprintf("%.0f%% off", d.Value)
	}
	return fmt.Sprintf("$%.2f off", d.Value)
}

func (s *productService) DeleteProduct(ctx context.Context, actorID uuid.UUID, role models.UserRole, productID uuid.UUID) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "product"}
		}
		return err
	}
	if _, err := s.ownedShop(actorID, role, product.VendorID); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}
	if err := s.shops.AdjustProductCount(product.VendorID, -1); err != nil {
		s.log.WithError(err).WithField("shop_id", product.VendorID).Warn("Failed to drop shop product count")
	}
	return nil
}

func (s *productService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product"}
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(req *models.ListProductsRequest) ([]models.Product, int64, error) {
	return s.products.List(req)
}

func (s *productService) TrackView(ctx context.Context, productID uuid.UUID) error {
	return s.products.IncrementViews(ctx, productID)
}

func (s *productService) TrackAddToCart(ctx context.Context, productID uuid.UUID) error {
	return s.products.IncrementCartAdds(ctx, productID)
}

func (s *productService) TrackWishlist(ctx context.Context, productID uuid.UUID) error {
	return s.products.IncrementWishlisted(ctx, productID)
}

func (s *productService) GetProductAnalytics(ctx context.Context, actorID uuid.UUID, role models.UserRole, productID uuid.UUID) (*models.ProductAnalytics, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product"}
		}
		return nil, err
	}
	if _, err := s.ownedShop(actorID, role, product.VendorID); err != nil {
		return nil, err
	}

	recent := product.PurchaseHistory
	if len(recent) > 20 {
		recent = recent[len(recent)-20:]
	}
	return &models.ProductAnalytics{
		ProductID:       product.ID,
		Name:            product.Name,
		Stats:           product.Stats,
		BuyerInsights:   product.BuyerInsights,
		RecentPurchases: recent,
	}, nil
}
