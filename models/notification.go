package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotificationNewLike    NotificationKind = "new_like"
	NotificationNewComment NotificationKind = "new_comment"
	NotificationNewReply   NotificationKind = "new_reply"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationNewLike, NotificationNewComment, NotificationNewReply:
		return true
	}
	return false
}

// Notification is created as a side effect of a like or a comment. Only Read
// ever changes afterwards.
type Notification struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID        `json:"-" gorm:"type:uuid;not null;index:idx_notification_recipient"`
	Kind        NotificationKind `json:"type" gorm:"type:text;not null"`
	BlogPostID  uuid.UUID        `json:"-" gorm:"type:uuid;not null;index:idx_notification_blog_post_id"`
	CommentID   *uuid.UUID       `json:"comment_id,omitempty" gorm:"type:uuid;index:idx_notification_comment_id"`
	ActorID     uuid.UUID        `json:"-" gorm:"type:uuid;not null"`
	Read        bool             `json:"seen" gorm:"not null;default:false;index:idx_notification_read"`
	CreatedAt   time.Time        `json:"created_at" gorm:"not null"`

	Actor    User     `json:"-" gorm:"foreignKey:ActorID;references:ID"`
	BlogPost BlogPost `json:"-" gorm:"foreignKey:BlogPostID;references:ID"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return nil
}
