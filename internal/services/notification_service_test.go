package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"marketplace-service/internal/clients"
	"marketplace-service/internal/models"
)

func newNotificationServiceForTest() (NotificationService, *MockNotificationRepository, *MockUserRepository) {
	repo := new(MockNotificationRepository)
	users := new(MockUserRepository)
	// Push dispatch runs in the background; token resolution may or may not
	// land before the test returns.
	users.On("PushTokens", mock.Anything).Return(map[uuid.UUID]string{}, nil).Maybe()
	svc := NewNotificationService(repo, users, clients.NewPushClient(""), newTestLogger())
	return svc, repo, users
}

func TestNotify_PersistsNotification(t *testing.T) {
	svc, repo, _ := newNotificationServiceForTest()

	user := uuid.New()
	repo.On("Create", mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == user &&
			n.Type == models.NotificationTypeOrderPlaced &&
			n.Title == "Order Placed"
	})).Return(nil)

	err := svc.Notify(user, models.NotificationTypeOrderPlaced, "Order Placed", "Your order #abc123 has been placed",
		map[string]string{"orderId": uuid.New().String()})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotify_PersistFailureSurfaces(t *testing.T) {
	svc, repo, _ := newNotificationServiceForTest()

	repo.On("Create", mock.Anything).Return(errors.New("insert failed"))

	err := svc.Notify(uuid.New(), models.NotificationTypeSystem, "t", "m", nil)

	assert.Error(t, err)
}

func TestNotifyMany_CreatesOneRowPerRecipient(t *testing.T) {
	svc, repo, _ := newNotificationServiceForTest()

	recipients := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	repo.On("CreateBulk", mock.MatchedBy(func(batch []models.Notification) bool {
		if len(batch) != len(recipients) {
			return false
		}
		for i, n := range batch {
			if n.UserID != recipients[i] || n.Type != models.NotificationTypeNewProduct {
				return false
			}
		}
		return true
	})).Return(nil)

	err := svc.NotifyMany(recipients, models.NotificationTypeNewProduct, "New Product", "Gadget Hut added a new product", nil)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestNotifyMany_EmptyRecipientsIsNoOp(t *testing.T) {
	svc, repo, _ := newNotificationServiceForTest()

	assert.NoError(t, svc.NotifyMany(nil, models.NotificationTypeSystem, "t", "m", nil))
	repo.AssertNotCalled(t, "CreateBulk", mock.Anything)
}

func TestMarkRead_OwnershipEnforced(t *testing.T) {
	svc, repo, _ := newNotificationServiceForTest()

	owner := uuid.New()
	notification := &models.Notification{ID: uuid.New(), UserID: owner}

	repo.On("GetByID", notification.ID).Return(notification, nil)
	repo.On("MarkRead", notification.ID).Return(nil)

	assert.NoError(t, svc.MarkRead(owner, notification.ID))

	err := svc.MarkRead(uuid.New(), notification.ID)
	var authz *AuthorizationError
	assert.ErrorAs(t, err, &authz)
}

func TestDelete_OwnershipEnforced(t *testing.T) {
	svc, repo, _ := newNotificationServiceForTest()

	owner := uuid.New()
	notification := &models.Notification{ID: uuid.New(), UserID: owner}

	repo.On("GetByID", notification.ID).Return(notification, nil)
	repo.On("Delete", notification.ID).Return(nil)

	err := svc.Delete(uuid.New(), notification.ID)
	var authz *AuthorizationError
	assert.ErrorAs(t, err, &authz)

	assert.NoError(t, svc.Delete(owner, notification.ID))
}

func TestUnreadCount(t *testing.T) {
	svc, repo, _ := newNotificationServiceForTest()

	user := uuid.New()
	repo.On("UnreadCount", user).Return(int64(7), nil)

	count, err := svc.UnreadCount(user)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
