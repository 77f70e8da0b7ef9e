package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/models"
	"gorm.io/gorm"
)

type NotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db}
}

// Add inserts a new notification into the database
func (r *NotificationRepo) Add(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Omit("Actor", "BlogPost").Create(notification).Error
}

func (r *NotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListByRecipient returns one page of a user's notifications, newest first,
// and the total matching count.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, offset, limit int) ([]*models.Notification, int64, error) {
	scope := func() *gorm.DB {
		tx := r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
		if unreadOnly {
			tx = tx.Where("read = ?", false)
		}
		return tx
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	notifications := make([]*models.Notification, 0)
	err := scope().
		Preload("Actor").
		Preload("BlogPost").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkRead sets the read flag. Marking an already-read notification is a no-op.
func (r *NotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

// MarkAllRead marks every unread notification of a user and returns how many changed
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepo) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("blog_post_id = ?", postID).Delete(&models.Notification{}).Error
}

func (r *NotificationRepo) DeleteByComments(ctx context.Context, commentIDs []uuid.UUID) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("comment_id IN ?", commentIDs).Delete(&models.Notification{}).Error
}
