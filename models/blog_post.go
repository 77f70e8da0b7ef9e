package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BlogPost represents a post with its publication state and engagement aggregates
type BlogPost struct {
	ID          uuid.UUID      `json:"-" gorm:"type:uuid;primaryKey"`
	BlogID      string         `json:"blog_id" gorm:"type:text;not null;uniqueIndex:idx_blog_posts_blog_id"`
	AuthorID    uuid.UUID      `json:"-" gorm:"type:uuid;not null;index:idx_blog_posts_author_id"`
	Title       string         `json:"title" gorm:"type:text;not null"`
	Description string         `json:"des" gorm:"type:text;not null;default:''"`
	Banner      string         `json:"banner" gorm:"type:text;not null;default:''"`
	Content     datatypes.JSON `json:"content" gorm:"not null"`
	Draft       bool           `json:"draft" gorm:"not null;default:false;index:idx_blog_posts_draft"`
	TotalReads  int64          `json:"-" gorm:"not null;default:0"`
	TotalLikes  int64          `json:"-" gorm:"not null;default:0"`
	ReadTime    int            `json:"-" gorm:"not null;default:0"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"not null"`
	PublishedAt *time.Time     `json:"published_at,omitempty" gorm:"index:idx_blog_posts_published_at"`

	Author User      `json:"-" gorm:"foreignKey:AuthorID;references:ID"`
	Tags   []BlogTag `json:"-" gorm:"foreignKey:BlogPostID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	return nil
}

// TagValues returns the normalized tag strings in stored order.
func (p BlogPost) TagValues() []string {
	values := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		values = append(values, t.Value)
	}
	return values
}

// Activity is the engagement aggregate exposed on every post response.
type Activity struct {
	TotalReads       int64 `json:"total_reads"`
	TotalLikes       int64 `json:"total_likes"`
	ReadTimeEstimate int   `json:"read_time_estimate"`
}

func (p BlogPost) Activity() Activity {
	return Activity{TotalReads: p.TotalReads, TotalLikes: p.TotalLikes, ReadTimeEstimate: p.ReadTime}
}
