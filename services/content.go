package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const relatedPostsLimit = 3

// Author listing filters.
const (
	FilterAll       = "all"
	FilterPublished = "published"
	FilterDraft     = "draft"
)

// PostInput is a create (empty BlogID) or full update of a post.
type PostInput struct {
	BlogID      string
	Title       string
	Description string
	Banner      string
	Content     json.RawMessage
	Tags        []string
	Draft       bool
}

// PostDetail is a post as seen by one viewer.
type PostDetail struct {
	Post    *models.BlogPost
	IsLiked bool
}

type ContentStore struct {
	db     database.Database
	logger zerolog.Logger
	now    func() time.Time
}

func NewContentStore(db database.Database) *ContentStore {
	return &ContentStore{
		db:     db,
		logger: log.With().Str("service", "content").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// normalize validates in and returns the canonical tag set. Drafts only need
// a title; publishing needs description and body as well.
func (in *PostInput) normalize() ([]string, error) {
	in.BlogID = strings.TrimSpace(in.BlogID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Banner = strings.TrimSpace(in.Banner)
	if len(bytes.TrimSpace(in.Content)) == 0 {
		in.Content = json.RawMessage("[]")
	} else if !json.Valid(in.Content) {
		return nil, errs.NewInvalidFieldError("content", "must be valid JSON")
	}

	if in.Title == "" {
		return nil, errs.NewMissingRequiredFieldError("title")
	}
	if runeLen(in.Title) > maxTitleLen {
		return nil, errs.NewInvalidFieldError("title", "must be at most 200 characters")
	}
	if runeLen(in.Description) > maxDescriptionLen {
		return nil, errs.NewInvalidFieldError("des", "must be at most 200 characters")
	}

	tags := normalizeTags(in.Tags)
	if len(tags) > maxTagsPerPost {
		return nil, errs.NewInvalidFieldError("tags", "must contain at most 10 tags")
	}
	for _, t := range tags {
		if runeLen(t) > maxTagLength {
			return nil, errs.NewInvalidFieldError("tags", "must each be at most 50 characters")
		}
	}

	if !in.Draft {
		if in.Description == "" {
			return nil, errs.NewMissingRequiredFieldError("des")
		}
		if countWords(in.Content) == 0 {
			return nil, errs.NewMissingRequiredFieldError("content")
		}
	}
	return tags, nil
}

// Save creates a post when in.BlogID is empty and otherwise overwrites the
// editable fields of the author's existing post. The returned bool reports
// whether a post was created.
func (s *ContentStore) Save(ctx context.Context, authorID uuid.UUID, in PostInput) (*models.BlogPost, bool, error) {
	tags, err := in.normalize()
	if err != nil {
		return nil, false, err
	}
	if in.BlogID == "" {
		post, err := s.create(ctx, authorID, in, tags)
		return post, true, err
	}
	post, err := s.update(ctx, authorID, in, tags)
	return post, false, err
}

func (s *ContentStore) create(ctx context.Context, authorID uuid.UUID, in PostInput, tags []string) (*models.BlogPost, error) {
	blogID, err := s.newBlogID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &models.BlogPost{
		BlogID:      blogID,
		AuthorID:    authorID,
		Title:       in.Title,
		Description: in.Description,
		Banner:      in.Banner,
		Content:     datatypes.JSON(in.Content),
		Draft:       in.Draft,
		ReadTime:    EstimateReadTime(in.Content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !in.Draft {
		post.PublishedAt = &now
	}

	var created *models.BlogPost
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		if err := tx.BlogPostRepo().Add(ctx, post); err != nil {
			return errs.NewDatabaseError("create", "blog post", err)
		}
		if err := tx.BlogTagRepo().Replace(ctx, post.ID, tags); err != nil {
			return errs.NewDatabaseError("create", "blog tags", err)
		}
		if err := tx.Counters().AddToUser(ctx, authorID, database.UserPosts, 1); err != nil {
			return errs.NewDatabaseError("update", "user", err)
		}
		var err error
		if created, err = tx.BlogPostRepo().FindByID(ctx, post.ID); err != nil {
			return errs.NewDatabaseError("find", "blog post", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("blogID", blogID).Str("authorID", authorID.String()).Bool("draft", in.Draft).Msg("Created blog post")
	return created, nil
}

// newBlogID draws nanoid external ids until one is unused.
func (s *ContentStore) newBlogID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		id, err := gonanoid.New()
		if err != nil {
			return "", errs.NewInternalErrorWithCause("generate blog id", err)
		}
		taken, err := s.db.BlogPostRepo().BlogIDExists(ctx, id)
		if err != nil {
			return "", errs.NewDatabaseError("check", "blog id", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", errs.NewConflictError("could not allocate a unique blog id")
}

func (s *ContentStore) update(ctx context.Context, authorID uuid.UUID, in PostInput, tags []string) (*models.BlogPost, error) {
	var updated *models.BlogPost
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		post, err := tx.BlogPostRepo().FindByBlogID(ctx, in.BlogID)
		if err != nil {
			return errs.NewDatabaseError("find", "blog post", err)
		}
		if post.AuthorID != authorID {
			return errs.NewForbiddenError("only the author can edit this post")
		}
		if in.Draft && !post.Draft {
			return errs.NewInvalidFieldError("draft", "a published post cannot return to draft")
		}

		now := s.now()
		post.Title = in.Title
		post.Description = in.Description
		post.Banner = in.Banner
		post.Content = datatypes.JSON(in.Content)
		post.Draft = in.Draft
		post.ReadTime = EstimateReadTime(in.Content)
		post.UpdatedAt = now
		if !in.Draft && post.PublishedAt == nil {
			post.PublishedAt = &now
		}

		if err := tx.BlogPostRepo().UpdateContent(ctx, post); err != nil {
			return errs.NewDatabaseError("update", "blog post", err)
		}
		if err := tx.BlogTagRepo().Replace(ctx, post.ID, tags); err != nil {
			return errs.NewDatabaseError("update", "blog tags", err)
		}
		if updated, err = tx.BlogPostRepo().FindByID(ctx, post.ID); err != nil {
			return errs.NewDatabaseError("find", "blog post", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns a post for viewer, who may be nil for anonymous reads. Drafts
// are visible to their author only. Every published read bumps the post and
// author read counters; repeated reads count again.
func (s *ContentStore) Get(ctx context.Context, blogID string, viewer *models.User) (*PostDetail, error) {
	post, err := s.db.BlogPostRepo().FindByBlogID(ctx, blogID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog post", err)
	}
	if post.Draft {
		if viewer == nil || viewer.ID != post.AuthorID {
			return nil, errs.NewNotFoundError("blog post not found")
		}
	} else {
		err = s.db.Transaction(ctx, func(tx database.Database) error {
			if err := tx.Counters().AddToPost(ctx, post.ID, database.PostReads, 1); err != nil {
				return errs.NewDatabaseError("update", "blog post", err)
			}
			if err := tx.Counters().AddToUser(ctx, post.AuthorID, database.UserReads, 1); err != nil {
				return errs.NewDatabaseError("update", "user", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		post.TotalReads++
		post.Author.TotalReads++
	}

	detail := &PostDetail{Post: post}
	if viewer != nil {
		if detail.IsLiked, err = s.db.BlogLikeRepo().Exists(ctx, post.ID, viewer.ID); err != nil {
			return nil, errs.NewDatabaseError("find", "like", err)
		}
	}
	return detail, nil
}

// Delete removes the author's post with every dependent record in one
// transaction. Dependents go first, the post itself last.
func (s *ContentStore) Delete(ctx context.Context, authorID uuid.UUID, blogID string) error {
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		post, err := tx.BlogPostRepo().FindByBlogID(ctx, blogID)
		if err != nil {
			return errs.NewDatabaseError("find", "blog post", err)
		}
		if post.AuthorID != authorID {
			return errs.NewForbiddenError("only the author can delete this post")
		}

		if err := tx.NotificationRepo().DeleteByPost(ctx, post.ID); err != nil {
			return errs.NewDatabaseError("delete", "notifications", err)
		}
		if err := tx.CommentRepo().DeleteByPost(ctx, post.ID); err != nil {
			return errs.NewDatabaseError("delete", "comments", err)
		}
		if err := tx.BlogLikeRepo().DeleteByPost(ctx, post.ID); err != nil {
			return errs.NewDatabaseError("delete", "likes", err)
		}
		if err := tx.SavedBlogRepo().DeleteByPost(ctx, post.ID); err != nil {
			return errs.NewDatabaseError("delete", "saved blogs", err)
		}
		if err := tx.BlogTagRepo().DeleteByPost(ctx, post.ID); err != nil {
			return errs.NewDatabaseError("delete", "blog tags", err)
		}
		if err := tx.BlogPostRepo().Delete(ctx, post.ID); err != nil {
			return errs.NewDatabaseError("delete", "blog post", err)
		}
		if err := tx.Counters().AddToUser(ctx, authorID, database.UserPosts, -1); err != nil {
			return errs.NewDatabaseError("update", "user", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("blogID", blogID).Str("authorID", authorID.String()).Msg("Deleted blog post")
	return nil
}

// ListByAuthor pages through the author's own posts. filter is one of
// FilterAll, FilterPublished or FilterDraft.
func (s *ContentStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, filter string, page int) (*PostPage, error) {
	q := database.PostQuery{AuthorID: &authorID, Order: database.OrderRecent}
	switch filter {
	case "", FilterAll:
	case FilterPublished:
		q.Draft = boolPtr(false)
	case FilterDraft:
		q.Draft = boolPtr(true)
	default:
		return nil, errs.NewInvalidFieldError("filter", "must be one of all, published, draft")
	}
	return s.list(ctx, q, page)
}

// ListPublishedByUsername pages through another user's published posts.
func (s *ContentStore) ListPublishedByUsername(ctx context.Context, username string, page int) (*PostPage, error) {
	user, err := s.db.UserRepo().FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	return s.list(ctx, database.PostQuery{AuthorID: &user.ID, Draft: boolPtr(false), Order: database.OrderRecent}, page)
}

// Recent pages through published posts, newest first.
func (s *ContentStore) Recent(ctx context.Context, page int) (*PostPage, error) {
	return s.list(ctx, database.PostQuery{Draft: boolPtr(false), Order: database.OrderRecent}, page)
}

// Trending pages through published posts by read count.
func (s *ContentStore) Trending(ctx context.Context, page int) (*PostPage, error) {
	return s.list(ctx, database.PostQuery{Draft: boolPtr(false), Order: database.OrderTrending}, page)
}

// Related returns up to three published posts carrying tag, excluding
// excludeBlogID.
func (s *ContentStore) Related(ctx context.Context, tag, excludeBlogID string) ([]*models.BlogPost, error) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return nil, errs.NewMissingRequiredFieldError("tag")
	}
	posts, _, err := s.db.BlogPostRepo().List(ctx, database.PostQuery{
		Draft:         boolPtr(false),
		TagEquals:     tag,
		ExcludeBlogID: strings.TrimSpace(excludeBlogID),
		Order:         database.OrderRecent,
		Limit:         relatedPostsLimit,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("list", "blog posts", err)
	}
	return posts, nil
}

func (s *ContentStore) list(ctx context.Context, q database.PostQuery, page int) (*PostPage, error) {
	return listPosts(ctx, s.db, q, page)
}

func listPosts(ctx context.Context, db database.Database, q database.PostQuery, page int) (*PostPage, error) {
	page = normalizePage(page)
	q.Offset = pageOffset(page)
	q.Limit = PageSize
	posts, total, err := db.BlogPostRepo().List(ctx, q)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "blog posts", err)
	}
	return newPostPage(posts, page, total), nil
}
