package models

import (
	"time"

	"github.com/google/uuid"
)

// ShopFollow is one user following one shop. The pair is unique; follow and
// unfollow are idempotence-checked in the service.
type ShopFollow struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index:idx_follows_user_shop,unique;index"`
	ShopID    uuid.UUID `json:"shopId" gorm:"type:uuid;not null;index:idx_follows_user_shop,unique;index"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ShopFollow) TableName() string {
	return "shop_follows"
}

// FollowStatusResponse reports whether the caller follows a shop.
type FollowStatusResponse struct {
	ShopID      uuid.UUID `json:"shopId"`
	IsFollowing bool      `json:"isFollowing"`
	Followers   int       `json:"followers"`
}
