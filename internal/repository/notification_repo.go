package repository

import (
	"context"

	"blood-bank-dashboard/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// GetNotifications retrieves a user's notifications, newest first
func (r *NotificationRepository) GetNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&notifications).Error
	return notifications, err
}

// GetUnreadNotifications retrieves a user's unread notifications, newest first
func (r *NotificationRepository) GetUnreadNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND read = ?", userID, false).
		Order("timestamp DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkAsRead flags one notification of userID as read
func (r *NotificationRepository) MarkAsRead(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	return affected(res)
}

// MarkAllAsRead flags every unread notification of a user as read
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// CreateNotification inserts a notification
func (r *NotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// DeleteNotification removes one notification of userID
func (r *NotificationRepository) DeleteNotification(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	return affected(res)
}

// DeleteAllNotifications removes every notification of a user
func (r *NotificationRepository) DeleteAllNotifications(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Notification{}).Error
}
