package models

import (
	"time"

	"github.com/google/uuid"
)

// Review targets exactly one of ProductID or ShopID. A user holds at most
// one review per target; writes go through an upsert. Deletes are hard
// deletes so the per-target unique keys free up for a later re-review.
type Review struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index:idx_reviews_user_product,unique;index:idx_reviews_user_shop,unique"`
	ProductID *uuid.UUID `json:"productId,omitempty" gorm:"type:uuid;index:idx_reviews_user_product,unique;index"`
	ShopID    *uuid.UUID `json:"shopId,omitempty" gorm:"type:uuid;index:idx_reviews_user_shop,unique;index"`
	OrderID   *uuid.UUID `json:"orderId,omitempty" gorm:"type:uuid"`
	Rating    int        `json:"rating" gorm:"not null"`
	Comment   string     `json:"comment" gorm:"type:text"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Review) TableName() string {
	return "reviews"
}

// UpsertReviewRequest creates or replaces the caller's review of a target.
type UpsertReviewRequest struct {
	ProductID *uuid.UUID `json:"productId"`
	ShopID    *uuid.UUID `json:"shopId"`
	OrderID   *uuid.UUID `json:"orderId"`
	Rating    int        `json:"rating" binding:"required"`
	Comment   string     `json:"comment"`
}

// UpdateReviewRequest edits an existing review in place.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// ReviewSummary is the aggregate view returned alongside review lists.
type ReviewSummary struct {
	AverageRating      float64     `json:"averageRating"`
	TotalReviews       int         `json:"totalReviews"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

// ReviewListResponse pairs a page of reviews with the target's summary.
type ReviewListResponse struct {
	Reviews    []Review       `json:"reviews"`
	Summary    ReviewSummary  `json:"summary"`
	Pagination PaginationInfo `json:"pagination"`
}
