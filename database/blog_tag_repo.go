package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/models"
	"gorm.io/gorm"
)

type BlogTagRepo struct {
	db *gorm.DB
}

func NewBlogTagRepo(db *gorm.DB) *BlogTagRepo {
	return &BlogTagRepo{db}
}

// FindByPost returns the tags of one post
func (r *BlogTagRepo) FindByPost(ctx context.Context, postID uuid.UUID) ([]*models.BlogTag, error) {
	var blogTags []*models.BlogTag
	err := r.db.WithContext(ctx).Where("blog_post_id = ?", postID).Order("value ASC").Find(&blogTags).Error
	return blogTags, err
}

// Replace swaps the tag set of a post for values. values must already be
// normalized and deduplicated.
func (r *BlogTagRepo) Replace(ctx context.Context, postID uuid.UUID, values []string) error {
	if err := r.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	blogTags := make([]*models.BlogTag, 0, len(values))
	for _, v := range values {
		blogTags = append(blogTags, &models.BlogTag{BlogPostID: postID, Value: v})
	}
	return r.db.WithContext(ctx).Create(&blogTags).Error
}

// DeleteByPost removes every tag of a post
func (r *BlogTagRepo) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("blog_post_id = ?", postID).Delete(&models.BlogTag{}).Error
}
