package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is the coarse role carried by the auth principal.
type UserRole string

const (
	UserRoleBuyer  UserRole = "buyer"
	UserRoleVendor UserRole = "vendor"
	UserRoleAdmin  UserRole = "admin"
)

// User is the slim account record this service needs: identity for
// ownership checks and the push token for notification delivery. Account
// management itself lives outside this service.
type User struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string         `json:"name" gorm:"type:varchar(120)"`
	Email     string         `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	Role      UserRole       `json:"role" gorm:"type:varchar(20);default:'buyer'"`
	PushToken string         `json:"-" gorm:"type:varchar(255)"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
