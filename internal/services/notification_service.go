package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"marketplace-service/internal/clients"
	"marketplace-service/internal/models"
	"marketplace-service/internal/repository"
)

// NotificationService persists in-app notifications and dispatches pushes.
// The notification row always exists before a push is attempted; push
// failures are logged and swallowed.
type NotificationService interface {
	Notify(userID uuid.UUID, notifType models.NotificationType, title, message string, data map[string]string) error
	NotifyMany(userIDs []uuid.UUID, notifType models.NotificationType, title, message string, data map[string]string) error
	ListUserNotifications(userID uuid.UUID, unreadOnly bool, page, limit int) ([]models.Notification, int64, error)
	UnreadCount(userID uuid.UUID) (int64, error)
	MarkRead(userID, notificationID uuid.UUID) error
	MarkAllRead(userID uuid.UUID) error
	Delete(userID, notificationID uuid.UUID) error
}

type notificationService struct {
	repo  repository.NotificationRepository
	users repository.UserRepository
	push  clients.PushClient
	log   *logrus.Logger
}

func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository, push clients.PushClient, log *logrus.Logger) NotificationService {
	return &notificationService{repo: repo, users: users, push: push, log: log}
}

func dataJSON(data map[string]string) datatypes.JSON {
	if len(data) == 0 {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	return datatypes.JSON(payload)
}

func (s *notificationService) Notify(userID uuid.UUID, notifType models.NotificationType, title, message string, data map[string]string) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    dataJSON(data),
	}
	if err := s.repo.Create(notification); err != nil {
		return err
	}

	s.dispatchPush([]uuid.UUID{userID}, title, message, data)
	return nil
}

func (s *notificationService) NotifyMany(userIDs []uuid.UUID, notifType models.NotificationType, title, message string, data map[string]string) error {
	if len(userIDs) == 0 {
		return nil
	}

	notifications := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		notifications = append(notifications, models.Notification{
			UserID:  id,
			Type:    notifType,
			Title:   title,
			Message: message,
			Data:    dataJSON(data),
		})
	}
	if err := s.repo.CreateBulk(notifications); err != nil {
		return err
	}

	s.dispatchPush(userIDs, title, message, data)
	return nil
}

// dispatchPush resolves push tokens and sends asynchronously.
func (s *notificationService) dispatchPush(userIDs []uuid.UUID, title, message string, data map[string]string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tokens, err := s.users.PushTokens(userIDs)
		if err != nil {
			s.log.WithError(err).Warn("Failed to resolve push tokens")
			return
		}
		if len(tokens) == 0 {
			return
		}

		list := make([]string, 0, len(tokens))
		for _, token := range tokens {
			list = append(list, token)
		}
		if err := s.push.SendToTokens(ctx, list, title, message, data); err != nil {
			s.log.WithError(err).WithField("recipients", len(list)).Warn("Push delivery failed")
		}
	}()
}

func (s *notificationService) ListUserNotifications(userID uuid.UUID, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	return s.repo.ListByUser(userID, unreadOnly, page, limit)
}

func (s *notificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	return s.repo.UnreadCount(userID)
}

func (s *notificationService) MarkRead(userID, notificationID uuid.UUID) error {
	notification, err := s.repo.GetByID(notificationID)
	if err != nil {
		return &NotFoundError{Entity: "notification"}
	}
	if notification.UserID != userID {
		return &AuthorizationError{Message: "notification belongs to another user"}
	}
	return s.repo.MarkRead(notificationID)
}

func (s *notificationService) MarkAllRead(userID uuid.UUID) error {
	return s.repo.MarkAllRead(userID)
}

func (s *notificationService) Delete(userID, notificationID uuid.UUID) error {
	notification, err := s.repo.GetByID(notificationID)
	if err != nil {
		return &NotFoundError{Entity: "notification"}
	}
	if notification.UserID != userID {
		return &AuthorizationError{Message: "notification belongs to another user"}
	}
	return s.repo.Delete(notificationID)
}
