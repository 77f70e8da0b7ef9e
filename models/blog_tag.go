package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogTag represents a tag associated with a blog post
type BlogTag struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BlogPostID uuid.UUID `json:"-" gorm:"type:uuid;not null;index:idx_blog_tag_blog_post_id;uniqueIndex:idx_blog_tag_unique"`
	Value      string    `json:"value" gorm:"type:text;not null;index:idx_blog_tag_value;uniqueIndex:idx_blog_tag_unique"`
}

func (t *BlogTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
