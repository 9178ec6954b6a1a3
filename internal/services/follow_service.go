package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
	"marketplace-service/internal/repository"
)

// FollowService manages shop follows and the follower notification fan-out
// used by the catalog on new products and discount activations.
type FollowService interface {
	FollowShop(userID, shopID uuid.UUID) error
	UnfollowShop(userID, shopID uuid.UUID) error
	FollowStatus(userID, shopID uuid.UUID) (*models.FollowStatusResponse, error)
	ListFollowedShops(userID uuid.UUID) ([]models.Shop, error)
	ListShopFollowers(actorID uuid.UUID, role models.UserRole, shopID uuid.UUID, page, limit int) ([]models.ShopFollow, int64, error)
	NotifyFollowers(shopID uuid.UUID, notifType models.NotificationType, title, message string, data map[string]string)
}

type followService struct {
	follows       repository.FollowRepository
	shops         repository.ShopRepository
	notifications NotificationService
	log           *logrus.Logger
}

func NewFollowService(follows repository.FollowRepository, shops repository.ShopRepository, notifications NotificationService, log *logrus.Logger) FollowService {
	return &followService{follows: follows, shops: shops, notifications: notifications, log: log}
}

func (s *followService) FollowShop(userID, shopID uuid.UUID) error {
	shop, err := s.shops.GetByID(shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "shop"}
		}
		return err
	}
	if shop.OwnerID == userID {
		return &ValidationError{Message: "cannot follow your own shop"}
	}

	if _, err := s.follows.Find(userID, shopID); err == nil {
		return &ConflictError{Message: "already following this shop"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.follows.Create(&models.ShopFollow{UserID: userID, ShopID: shopID}); err != nil {
		return err
	}

	if err := s.shops.AdjustFollowers(shopID, 1); err != nil {
		s.log.WithError(err).WithField("shop_id", shopID).Warn("Failed to bump follower count")
	}
	if err := s.notifications.Notify(shop.OwnerID, models.NotificationTypeNewFollower,
		"New Follower", "Someone started following "+shop.Name,
		map[string]string{"shopId": shopID.String()}); err != nil {
		s.log.WithError(err).WithField("shop_id", shopID).Warn("Failed to notify shop owner of new follower")
	}
	return nil
}

func (s *followService) UnfollowShop(userID, shopID uuid.UUID) error {
	if _, err := s.follows.Find(userID, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "follow"}
		}
		return err
	}

	if err := s.follows.Delete(userID, shopID); err != nil {
		return err
	}
	if err := s.shops.AdjustFollowers(shopID, -1); err != nil {
		s.log.WithError(err).WithField("shop_id", shopID).Warn("Failed to drop follower count")
	}
	return nil
}

func (s *followService) FollowStatus(userID, shopID uuid.UUID) (*models.FollowStatusResponse, error) {
	followers, err := s.follows.CountByShop(shopID)
	if err != nil {
		return nil, err
	}

	isFollowing := true
	if _, err := s.follows.Find(userID, shopID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		isFollowing = false
	}

	return &models.FollowStatusResponse{
		ShopID:      shopID,
		IsFollowing: isFollowing,
		Followers:   int(followers),
	}, nil
}

func (s *followService) ListFollowedShops(userID uuid.UUID) ([]models.Shop, error) {
	ids, err := s.follows.ListFollowedShopIDs(userID)
	if err != nil {
		return nil, err
	}

	shops := make([]models.Shop, 0, len(ids))
	for _, id := range ids {
		shop, err := s.shops.GetByID(id)
		if err != nil {
			continue
		}
		shops = append(shops, *shop)
	}
	return shops, nil
}

func (s *followService) ListShopFollowers(actorID uuid.UUID, role models.UserRole, shopID uuid.UUID, page, limit int) ([]models.ShopFollow, int64, error) {
	shop, err := s.shops.GetByID(shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, &NotFoundError{Entity: "shop"}
		}
		return nil, 0, err
	}
	if role != models.UserRoleAdmin && shop.OwnerID != actorID {
		return nil, 0, &AuthorizationError{Message: "only the shop owner may list followers"}
	}
	return s.follows.ListFollowers(shopID, page, limit)
}

// NotifyFollowers fans one notification out to every follower of a shop.
// Failures are logged; the triggering write is never affected.
func (s *followService) NotifyFollowers(shopID uuid.UUID, notifType models.NotificationType, title, message string, data map[string]string) {
	followerIDs, err := s.follows.ListFollowerIDs(shopID)
	if err != nil {
		s.log.WithError(err).WithField("shop_id", shopID).Warn("Failed to load followers for fan-out")
		return
	}
	if len(followerIDs) == 0 {
		return
	}
	if err := s.notifications.NotifyMany(followerIDs, notifType, title, message, data); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"shop_id":   shopID,
			"followers": len(followerIDs),
		}).Warn("Follower fan-out failed")
	}
}
