package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopStatus is the approval lifecycle of a shop.
type ShopStatus string

const (
	ShopStatusPending   ShopStatus = "pending"
	ShopStatusApproved  ShopStatus = "approved"
	ShopStatusRejected  ShopStatus = "rejected"
	ShopStatusSuspended ShopStatus = "suspended"
)

// ShopStats carries denormalized counters. TotalOrders and TotalRevenue are
// maintained incrementally by order placement/cancellation and can be
// rebuilt from source tables via the recompute path.
type ShopStats struct {
	TotalProducts int     `json:"totalProducts" gorm:"default:0"`
	TotalOrders   int     `json:"totalOrders" gorm:"default:0"`
	TotalRevenue  float64 `json:"totalRevenue" gorm:"type:decimal(14,2);default:0"`
	AverageRating float64 `json:"averageRating" gorm:"type:decimal(3,2);default:0"`
	TotalReviews  int     `json:"totalReviews" gorm:"default:0"`
	Followers     int     `json:"followers" gorm:"default:0"`
}

// Shop is a vendor storefront.
type Shop struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID     uuid.UUID      `json:"ownerId" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug        string         `json:"slug" gorm:"type:varchar(300);uniqueIndex"`
	Description string         `json:"description" gorm:"type:text"`
	Logo        string         `json:"logo" gorm:"type:varchar(500)"`
	Status      ShopStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	IsActive    bool           `json:"isActive" gorm:"default:false;index"`
	Stats       ShopStats      `json:"stats" gorm:"embedded;embeddedPrefix:stats_"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Shop) TableName() string {
	return "shops"
}

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.Slug == "" {
		s.Slug = GenerateSlug(s.Name)
	}
	return nil
}

// BeforeSave keeps IsActive consistent with the approval status.
func (s *Shop) BeforeSave(tx *gorm.DB) error {
	s.IsActive = s.Status == ShopStatusApproved
	return nil
}
