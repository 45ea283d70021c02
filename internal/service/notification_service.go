package service

import (
	"context"
	"fmt"

	"blood-bank-dashboard/internal/models"

	"go.uber.org/zap"
)

type NotificationStore interface {
	GetNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	GetUnreadNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	CreateNotification(ctx context.Context, notification *models.Notification) error
	DeleteNotification(ctx context.Context, userID, id string) error
	DeleteAllNotifications(ctx context.Context, userID string) error
}

// UserLister finds the users a broadcast notification goes to
type UserLister interface {
	FindUsersByRole(ctx context.Context, roles ...string) ([]models.User, error)
}

type NotificationService struct {
	store  NotificationStore
	users  UserLister
	logger *zap.Logger
}

func NewNotificationService(store NotificationStore, users UserLister, logger *zap.Logger) *NotificationService {
	return &NotificationService{store: store, users: users, logger: logger}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.store.GetNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) GetUnreadNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.store.GetUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unread notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id string) error {
	if err := s.store.MarkAsRead(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.store.MarkAllAsRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteNotification(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *NotificationService) ClearAllNotifications(ctx context.Context, userID string) error {
	if err := s.store.DeleteAllNotifications(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}

// NotifyRoles sends a copy of template to every user holding one of roles.
// It returns how many notifications were created.
func (s *NotificationService) NotifyRoles(ctx context.Context, template models.Notification, roles ...string) (int, error) {
	users, err := s.users.FindUsersByRole(ctx, roles...)
	if err != nil {
		return 0, fmt.Errorf("failed to find recipients: %w", err)
	}

	sent := 0
	for _, user := range users {
		n := template
		n.ID = ""
		n.UserID = user.ID
		if err := s.store.CreateNotification(ctx, &n); err != nil {
			s.logger.Warn("failed to notify user", zap.Error(err), zap.String("user_id", user.ID))
			continue
		}
		sent++
	}
	return sent, nil
}
