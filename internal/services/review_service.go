package services

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"marketplace-service/internal/events"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repository"
)

// ReviewService owns review writes. Every create, update and delete ends
// with a full recompute of the target's averageRating and totalReviews
// from the review table, so the cached stats never drift from source.
type ReviewService interface {
	UpsertReview(ctx context.Context, userID uuid.UUID, req *models.UpsertReviewRequest) (*models.Review, error)
	UpdateReview(ctx context.Context, userID uuid.UUID, reviewID uuid.UUID, req *models.UpdateReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, actorID uuid.UUID, role models.UserRole, reviewID uuid.UUID) error
	GetProductReviews(productID uuid.UUID, page, limit int) (*models.ReviewListResponse, error)
	GetShopReviews(shopID uuid.UUID, page, limit int) (*models.ReviewListResponse, error)
	GetVendorReviews(actorID uuid.UUID, role models.UserRole, ownerID uuid.UUID, page, limit int) ([]models.Review, int64, error)
}

type reviewService struct {
	reviews   repository.ReviewRepository
	products  repository.ProductRepository
	shops     repository.ShopRepository
	orders    repository.OrderRepository
	publisher *events.Publisher
	log       *logrus.Logger
}

func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	shops repository.ShopRepository,
	orders repository.OrderRepository,
	publisher *events.Publisher,
	log *logrus.Logger,
) ReviewService {
	return &reviewService{
		reviews:   reviews,
		products:  products,
		shops:     shops,
		orders:    orders,
		publisher: publisher,
		log:       log,
	}
}

func (s *reviewService) UpsertReview(ctx context.Context, userID uuid.UUID, req *models.UpsertReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, validationf("rating must be between 1 and 5")
	}
	if (req.ProductID == nil) == (req.ShopID == nil) {
		return nil, validationf("exactly one of productId or shopId is required")
	}

	if req.ProductID != nil {
		if err := s.checkDeliveredPurchase(ctx, userID, *req.ProductID, req.OrderID); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.shops.GetByID(*req.ShopID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "shop"}
			}
			return nil, err
		}
	}

	var existing *models.Review
	var err error
	if req.ProductID != nil {
		existing, err = s.reviews.FindByUserAndProduct(userID, *req.ProductID)
	} else {
		existing, err = s.reviews.FindByUserAndShop(userID, *req.ShopID)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var review *models.Review
	if existing != nil {
		existing.Rating = req.Rating
		existing.Comment = req.Comment
		if err := s.reviews.Update(existing); err != nil {
			return nil, err
		}
		review = existing
	} else {
		review = &models.Review{
			UserID:    userID,
			ProductID: req.ProductID,
			ShopID:    req.ShopID,
			OrderID:   req.OrderID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := s.reviews.Create(review); err != nil {
			return nil, err
		}
	}

	s.recomputeTarget(ctx, review)
	return review, nil
}

// checkDeliveredPurchase verifies the reviewer owns a delivered order that
// contains the product.
func (s *reviewService) checkDeliveredPurchase(ctx context.Context, userID, productID uuid.UUID, orderID *uuid.UUID) error {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "product"}
		}
		return err
	}
	if orderID == nil {
		return preconditionf("a delivered order is required to review a product")
	}

	order, err := s.orders.GetByID(*orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "order"}
		}
		return err
	}
	if order.UserID != userID {
		return preconditionf("order belongs to another user")
	}
	if order.Status != models.OrderStatusDelivered {
		return preconditionf("order must be delivered before reviewing")
	}
	for _, item := range order.Items {
		if item.ProductID == productID {
			return nil
		}
	}
	return preconditionf("order does not contain this product")
}

// recomputeTarget rebuilds the review aggregates of the review's target
// and persists them, best-effort.
func (s *reviewService) recomputeTarget(ctx context.Context, review *models.Review) {
	if review.ProductID != nil {
		avg, count, err := s.reviews.AggregateForProduct(*review.ProductID)
		if err != nil {
			s.log.WithError(err).WithField("product_id", review.ProductID).Warn("Failed to aggregate product reviews")
			return
		}
		product, err := s.products.GetByID(ctx, *review.ProductID)
		if err != nil {
			s.log.WithError(err).WithField("product_id", review.ProductID).Warn("Failed to load product for review recompute")
			return
		}
		product.Stats.AverageRating = avg
		product.Stats.TotalReviews = int(count)
		if err := s.products.Update(ctx, product); err != nil {
			s.log.WithError(err).WithField("product_id", review.ProductID).Warn("Failed to persist product review stats")
			return
		}
		s.publisher.Publish(events.SubjectReviewUpdated, map[string]interface{}{
			"productId":     review.ProductID.String(),
			"averageRating": avg,
			"totalReviews":  count,
		})
		return
	}

	if review.ShopID != nil {
		avg, count, err := s.reviews.AggregateForShop(*review.ShopID)
		if err != nil {
			s.log.WithError(err).WithField("shop_id", review.ShopID).Warn("Failed to aggregate shop reviews")
			return
		}
		shop, err := s.shops.GetByID(*review.ShopID)
		if err != nil {
			s.log.WithError(err).WithField("shop_id", review.ShopID).Warn("Failed to load shop for review recompute")
			return
		}
		shop.Stats.AverageRating = avg
		shop.Stats.TotalReviews = int(count)
		if err := s.shops.Update(shop); err != nil {
			s.log.WithError(err).WithField("shop_id", review.ShopID).Warn("Failed to persist shop review stats")
			return
		}
		s.publisher.Publish(events.SubjectReviewUpdated, map[string]interface{}{
			"shopId":        review.ShopID.String(),
			"averageRating": avg,
			"totalReviews":  count,
		})
	}
}

func (s *reviewService) UpdateReview(ctx context.Context, userID uuid.UUID, reviewID uuid.UUID, req *models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.reviews.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "review"}
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, &AuthorizationError{Message: "review belongs to another user"}
	}

	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, validationf("rating must be between 1 and 5")
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.reviews.Update(review); err != nil {
		return nil, err
	}
	s.recomputeTarget(ctx, review)
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actorID uuid.UUID, role models.UserRole, reviewID uuid.UUID) error {
	review, err := s.reviews.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "review"}
		}
		return err
	}
	if role != models.UserRoleAdmin && review.UserID != actorID {
		return &AuthorizationError{Message: "review belongs to another user"}
	}

	if err := s.reviews.Delete(reviewID); err != nil {
		return err
	}
	s.recomputeTarget(ctx, review)
	return nil
}

func (s *reviewService) GetProductReviews(productID uuid.UUID, page, limit int) (*models.ReviewListResponse, error) {
	reviews, total, err := s.reviews.ListByProduct(productID, page, limit)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.reviews.AggregateForProduct(productID)
	if err != nil {
		return nil, err
	}
	distribution, err := s.reviews.RatingCountsForProduct(productID)
	if err != nil {
		return nil, err
	}
	return buildReviewList(reviews, avg, count, distribution, page, limit, total), nil
}

func (s *reviewService) GetShopReviews(shopID uuid.UUID, page, limit int) (*models.ReviewListResponse, error) {
	reviews, total, err := s.reviews.ListByShop(shopID, page, limit)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.reviews.AggregateForShop(shopID)
	if err != nil {
		return nil, err
	}
	distribution, err := s.reviews.RatingCountsForShop(shopID)
	if err != nil {
		return nil, err
	}
	return buildReviewList(reviews, avg, count, distribution, page, limit, total), nil
}

func buildReviewList(reviews []models.Review, avg float64, count int64, distribution map[int]int, page, limit int, total int64) *models.ReviewListResponse {
	if limit < 1 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	return &models.ReviewListResponse{
		Reviews: reviews,
		Summary: models.ReviewSummary{
			AverageRating:      math.Round(avg*10) / 10,
			TotalReviews:       int(count),
			RatingDistribution: distribution,
		},
		Pagination: models.NewPaginationInfo(page, limit, total),
	}
}

func (s *reviewService) GetVendorReviews(actorID uuid.UUID, role models.UserRole, ownerID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	if role != models.UserRoleAdmin && actorID != ownerID {
		return nil, 0, &AuthorizationError{Message: "cannot read another vendor's reviews"}
	}

	shops, err := s.shops.GetByOwner(ownerID)
	if err != nil {
		return nil, 0, err
	}
	shopIDs := make([]uuid.UUID, 0, len(shops))
	for _, shop := range shops {
		shopIDs = append(shopIDs, shop.ID)
	}
	return s.reviews.ListByShops(shopIDs, page, limit)
}
