package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketplace-service/internal/models"
)

// UserRepository reads the slim user records this service keeps for
// ownership checks and push delivery.
type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)
	PushTokens(userIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) PushTokens(userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	tokens := make(map[uuid.UUID]string)
	if len(userIDs) == 0 {
		return tokens, nil
	}

	var users []models.User
	if err := r.db.Select("id, push_token").Where("id IN ? AND push_token <> ''", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		tokens[u.ID] = u.PushToken
	}
	return tokens, nil
}
