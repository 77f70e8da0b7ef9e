package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment belongs to one post. ParentID is nil for top-level comments.
type Comment struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BlogPostID uuid.UUID  `json:"-" gorm:"type:uuid;not null;index:idx_comment_blog_post_id"`
	AuthorID   uuid.UUID  `json:"-" gorm:"type:uuid;not null;index:idx_comment_author_id"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index:idx_comment_parent_id"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	Edited     bool       `json:"edited" gorm:"not null;default:false"`
	CreatedAt  time.Time  `json:"created_at" gorm:"not null"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`

	Author User `json:"-" gorm:"foreignKey:AuthorID;references:ID"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

// CommentNode is a comment with its replies materialized, recursively.
type CommentNode struct {
	ID        uuid.UUID      `json:"id"`
	ParentID  *uuid.UUID     `json:"parent_id,omitempty"`
	Content   string         `json:"content"`
	Edited    bool           `json:"edited"`
	CreatedAt time.Time      `json:"created_at"`
	EditedAt  *time.Time     `json:"edited_at,omitempty"`
	Author    AuthorSummary  `json:"user"`
	Replies   []*CommentNode `json:"children"`
}
