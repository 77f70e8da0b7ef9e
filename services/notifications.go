package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const notificationPageSize = 10

// NotificationEvent describes one engagement event that may notify a user.
type NotificationEvent struct {
	RecipientID uuid.UUID
	ActorID     uuid.UUID
	Kind        models.NotificationKind
	BlogPostID  uuid.UUID
	CommentID   *uuid.UUID
}

// Notify records e through db, which is normally bound to the transaction of
// the triggering operation. Self-triggered events create nothing and return
// a nil notification.
func Notify(ctx context.Context, db database.Database, e NotificationEvent) (*models.Notification, error) {
	if e.RecipientID == e.ActorID {
		return nil, nil
	}
	if !e.Kind.Valid() {
		return nil, errs.NewInternalError("unknown notification kind " + string(e.Kind))
	}
	notification := &models.Notification{
		RecipientID: e.RecipientID,
		ActorID:     e.ActorID,
		Kind:        e.Kind,
		BlogPostID:  e.BlogPostID,
		CommentID:   e.CommentID,
	}
	if err := db.NotificationRepo().Add(ctx, notification); err != nil {
		return nil, errs.NewDatabaseError("create", "notification", err)
	}
	return notification, nil
}

// NotificationPage is one page of a recipient's feed.
type NotificationPage struct {
	Notifications []*models.Notification
	Page          int
	Total         int64
	HasMore       bool
}

type NotificationDispatcher struct {
	db     database.Database
	logger zerolog.Logger
}

func NewNotificationDispatcher(db database.Database) *NotificationDispatcher {
	return &NotificationDispatcher{
		db:     db,
		logger: log.With().Str("service", "notifications").Logger(),
	}
}

// List returns a page of the user's notifications, newest first.
func (d *NotificationDispatcher) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page int) (*NotificationPage, error) {
	page = normalizePage(page)
	offset := (page - 1) * notificationPageSize
	notifications, total, err := d.db.NotificationRepo().ListByRecipient(ctx, userID, unreadOnly, offset, notificationPageSize)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "notifications", err)
	}
	return &NotificationPage{
		Notifications: notifications,
		Page:          page,
		Total:         total,
		HasMore:       int64(offset+len(notifications)) < total,
	}, nil
}

func (d *NotificationDispatcher) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := d.db.NotificationRepo().CountUnread(ctx, userID)
	if err != nil {
		return 0, errs.NewDatabaseError("count", "notifications", err)
	}
	return count, nil
}

// MarkRead marks one of the user's notifications as read. Marking an
// already-read notification succeeds without writing.
func (d *NotificationDispatcher) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	notification, err := d.db.NotificationRepo().FindByID(ctx, notificationID)
	if err != nil {
		return errs.NewDatabaseError("find", "notification", err)
	}
	if notification.RecipientID != userID {
		return errs.NewForbiddenError("notification belongs to another user")
	}
	if notification.Read {
		return nil
	}
	if err := d.db.NotificationRepo().MarkRead(ctx, notificationID); err != nil {
		return errs.NewDatabaseError("update", "notification", err)
	}
	return nil
}

// MarkAllRead marks every unread notification of the user and returns how
// many were changed.
func (d *NotificationDispatcher) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := d.db.NotificationRepo().MarkAllRead(ctx, userID)
	if err != nil {
		return 0, errs.NewDatabaseError("update", "notifications", err)
	}
	d.logger.Debug().Str("userID", userID.String()).Int64("marked", n).Msg("Marked notifications read")
	return n, nil
}
