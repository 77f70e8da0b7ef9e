package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/models"
	"gorm.io/gorm"
)

// PostOrder selects the sort applied by BlogPostRepo.List.
type PostOrder int

const (
	// OrderRecent sorts by publication time, falling back to creation time
	// for drafts.
	OrderRecent PostOrder = iota
	// OrderTrending sorts by reads, then likes, then recency.
	OrderTrending
)

// PostQuery filters BlogPostRepo.List. Zero values mean "no filter".
type PostQuery struct {
	AuthorID      *uuid.UUID
	Draft         *bool
	Text          string // case-insensitive substring over title, description and tags
	TagContains   string // case-insensitive substring over tags
	TagEquals     string // exact tag match
	ExcludeBlogID string
	Order         PostOrder
	Offset        int
	Limit         int
}

// TagCount is one row of the popular tags aggregate.
type TagCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// FindByBlogID returns a post by its public blog_id with tags and author loaded
func (r *BlogPostRepo) FindByBlogID(ctx context.Context, blogID string) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Author").
		Where("blog_id = ?", blogID).
		First(&blogPost).Error
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// FindByID returns a blog post by its ID
func (r *BlogPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Author").
		Where("id = ?", id).
		First(&blogPost).Error
	if err != nil {
		return nil, err
	}
	return &blogPost, nil
}

// FindByIDs returns the posts with the given IDs, in no particular order
func (r *BlogPostRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.BlogPost, error) {
	var blogPosts []*models.BlogPost
	if len(ids) == 0 {
		return blogPosts, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Author").
		Where("id IN ?", ids).
		Find(&blogPosts).Error
	return blogPosts, err
}

func (r *BlogPostRepo) BlogIDExists(ctx context.Context, blogID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("blog_id = ?", blogID).Count(&count).Error
	return count > 0, err
}

// Add inserts a new blog post into the database. Tags are written separately
// through BlogTagRepo.
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost) error {
	return r.db.WithContext(ctx).Omit("Tags", "Author").Create(blogPost).Error
}

// UpdateContent overwrites the editable fields of an existing post. Counters
// are never written here.
func (r *BlogPostRepo) UpdateContent(ctx context.Context, blogPost *models.BlogPost) error {
	res := r.db.WithContext(ctx).Model(&models.BlogPost{}).Where("id = ?", blogPost.ID).Updates(map[string]any{
		"title":        blogPost.Title,
		"description":  blogPost.Description,
		"banner":       blogPost.Banner,
		"content":      blogPost.Content,
		"draft":        blogPost.Draft,
		"read_time":    blogPost.ReadTime,
		"published_at": blogPost.PublishedAt,
		"updated_at":   blogPost.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a blog post from the database by id
func (r *BlogPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BlogPost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one page of posts matching q and the total number of matches.
func (r *BlogPostRepo) List(ctx context.Context, q PostQuery) ([]*models.BlogPost, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	blogPosts := make([]*models.BlogPost, 0)
	if total == 0 {
		return blogPosts, 0, nil
	}

	tx := r.filtered(ctx, q).Preload("Tags").Preload("Author")
	switch q.Order {
	case OrderTrending:
		tx = tx.Order("total_reads DESC").Order("total_likes DESC").Order("published_at DESC")
	default:
		tx = tx.Order("COALESCE(published_at, created_at) DESC").Order("created_at DESC")
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if err := tx.Find(&blogPosts).Error; err != nil {
		return nil, 0, err
	}
	return blogPosts, total, nil
}

func (r *BlogPostRepo) filtered(ctx context.Context, q PostQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.BlogPost{})
	if q.AuthorID != nil {
		tx = tx.Where("author_id = ?", *q.AuthorID)
	}
	if q.Draft != nil {
		tx = tx.Where("draft = ?", *q.Draft)
	}
	if q.Text != "" {
		pattern := likePattern(q.Text)
		tx = tx.Where(
			"(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR EXISTS ("+
				"SELECT 1 FROM blog_tags WHERE blog_tags.blog_post_id = blog_posts.id AND blog_tags.value LIKE ? ESCAPE '\\'))",
			pattern, pattern, pattern,
		)
	}
	if q.TagContains != "" {
		tx = tx.Where(
			"EXISTS (SELECT 1 FROM blog_tags WHERE blog_tags.blog_post_id = blog_posts.id AND blog_tags.value LIKE ? ESCAPE '\\')",
			likePattern(q.TagContains),
		)
	}
	if q.TagEquals != "" {
		tx = tx.Where(
			"EXISTS (SELECT 1 FROM blog_tags WHERE blog_tags.blog_post_id = blog_posts.id AND blog_tags.value = ?)",
			strings.ToLower(strings.TrimSpace(q.TagEquals)),
		)
	}
	if q.ExcludeBlogID != "" {
		tx = tx.Where("blog_id <> ?", q.ExcludeBlogID)
	}
	return tx
}

// PopularTags counts tags across published posts, most used first.
func (r *BlogPostRepo) PopularTags(ctx context.Context, limit int) ([]TagCount, error) {
	tags := make([]TagCount, 0)
	err := r.db.WithContext(ctx).
		Table("blog_tags").
		Select("blog_tags.value AS name, COUNT(*) AS count").
		Joins("JOIN blog_posts ON blog_posts.id = blog_tags.blog_post_id").
		Where("blog_posts.draft = ?", false).
		Group("blog_tags.value").
		Order("count DESC").
		Order("name ASC").
		Limit(limit).
		Scan(&tags).Error
	return tags, err
}

// likePattern lowercases s and escapes LIKE wildcards so user input only
// ever matches literally.
func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// TotalLikes reads the current like counter of a post
func (r *BlogPostRepo) TotalLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	var post models.BlogPost
	err := r.db.WithContext(ctx).Select("total_likes").Where("id = ?", id).First(&post).Error
	return post.TotalLikes, err
}
