package services

import (
	"context"
	"time"

	"faculty-management-api/config"
	"faculty-management-api/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{db: db, now: time.Now}
}

func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	if n.CreateAt.IsZero() {
		n.CreateAt = s.now()
	}
	if n.Type == "" {
		n.Type = "info"
	}
	return s.db.WithContext(ctx).Create(n).Error
}

// ListForUser returns the user's notifications newest first, with the unread count.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	page := ListFilter{Limit: limit, Offset: offset}.normalized()

	q := s.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var items []models.Notification
	if err := q.Order("create_at DESC, notification_id DESC").Limit(page.Limit).Offset(page.Offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	var unread int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "update_at": s.now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("notification")
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "update_at": s.now()})
	return res.RowsAffected, res.Error
}
