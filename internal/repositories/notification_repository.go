package repositories

import (
	"context"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByRecipientID(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, recipientID string) (bool, error)
	MarkAllAsRead(ctx context.Context, recipientID string) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return translate("create notification", "notification", r.db.WithContext(ctx).Create(notification).Error)
}

func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Notification{}).Where("user_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, translate("count notifications", "notification", err)
	}

	offset := (page - 1) * limit
	err := db.Where("user_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, translate("list notifications", "notification", err)
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, translate("count unread", "notification", err)
}

// MarkAsRead only touches the row when it belongs to recipientID.
func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID, recipientID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return false, translate("mark read", "notification", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, translate("mark all read", "notification", res.Error)
}
