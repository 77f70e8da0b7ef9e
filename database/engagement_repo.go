package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlogLikeRepo struct {
	db *gorm.DB
}

func NewBlogLikeRepo(db *gorm.DB) *BlogLikeRepo {
	return &BlogLikeRepo{db}
}

// Exists reports whether userID currently likes postID
func (r *BlogLikeRepo) Exists(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BlogLike{}).
		Where("blog_post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// Insert adds the like edge. It reports false when the edge already existed.
func (r *BlogLikeRepo) Insert(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.BlogLike{BlogPostID: postID, UserID: userID})
	return res.RowsAffected == 1, res.Error
}

// Remove deletes the like edge. It reports false when there was nothing to delete.
func (r *BlogLikeRepo) Remove(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("blog_post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.BlogLike{})
	return res.RowsAffected == 1, res.Error
}

func (r *BlogLikeRepo) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BlogLike{}).Where("blog_post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *BlogLikeRepo) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("blog_post_id = ?", postID).Delete(&models.BlogLike{}).Error
}

type SavedBlogRepo struct {
	db *gorm.DB
}

func NewSavedBlogRepo(db *gorm.DB) *SavedBlogRepo {
	return &SavedBlogRepo{db}
}

// Exists reports whether userID has bookmarked postID
func (r *SavedBlogRepo) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SavedBlog{}).
		Where("user_id = ? AND blog_post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// Insert adds the bookmark. It reports false when it already existed.
func (r *SavedBlogRepo) Insert(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SavedBlog{UserID: userID, BlogPostID: postID})
	return res.RowsAffected == 1, res.Error
}

// Remove deletes the bookmark. It reports false when there was nothing to delete.
func (r *SavedBlogRepo) Remove(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND blog_post_id = ?", userID, postID).
		Delete(&models.SavedBlog{})
	return res.RowsAffected == 1, res.Error
}

// ListPostIDs returns one page of bookmarked post IDs, newest bookmark
// first, and the total number of bookmarks the user holds.
func (r *SavedBlogRepo) ListPostIDs(ctx context.Context, userID uuid.UUID, offset, limit int) ([]uuid.UUID, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.SavedBlog{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var saved []models.SavedBlog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&saved).Error
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(saved))
	for _, s := range saved {
		ids = append(ids, s.BlogPostID)
	}
	return ids, total, nil
}

func (r *SavedBlogRepo) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("blog_post_id = ?", postID).Delete(&models.SavedBlog{}).Error
}
