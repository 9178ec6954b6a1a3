package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryStats holds aggregates recomputed from the product table.
type CategoryStats struct {
	TotalProducts  int `json:"totalProducts" gorm:"default:0"`
	ActiveProducts int `json:"activeProducts" gorm:"default:0"`
	TotalSales     int `json:"totalSales" gorm:"default:0"`
}

// Category is a tree node. Level is derived: roots are 0, children are
// parent.level+1.
type Category struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string         `json:"name" gorm:"type:varchar(120);not null"`
	Slug        string         `json:"slug" gorm:"type:varchar(150);uniqueIndex"`
	Description string         `json:"description" gorm:"type:text"`
	ParentID    *uuid.UUID     `json:"parentId,omitempty" gorm:"type:uuid;index"`
	Level       int            `json:"level" gorm:"default:0"`
	IsActive    bool           `json:"isActive" gorm:"default:true;index"`
	Stats       CategoryStats  `json:"stats" gorm:"embedded;embeddedPrefix:stats_"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = GenerateSlug(c.Name)
	}
	return nil
}

// CreateCategoryRequest is the payload accepted by category creation.
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=2,max=120"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parentId"`
	IsActive    *bool      `json:"isActive"`
}

// UpdateCategoryRequest carries optional fields; nil means unchanged.
type UpdateCategoryRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parentId"`
	IsActive    *bool      `json:"isActive"`
}
