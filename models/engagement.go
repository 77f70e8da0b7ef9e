package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogLike is one member of a post's like-set. The pair is unique, so the
// number of rows per post is the source of truth for BlogPost.TotalLikes.
type BlogLike struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BlogPostID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blog_like_unique"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blog_like_unique;index:idx_blog_like_user_id"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (l *BlogLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return nil
}

// SavedBlog is a presence-only bookmark edge.
type SavedBlog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_blog_unique"`
	BlogPostID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_blog_unique;index:idx_saved_blog_blog_post_id"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (s *SavedBlog) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return nil
}
