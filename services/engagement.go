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

// LikeResult is the state of a like edge after a toggle.
type LikeResult struct {
	Liked      bool
	TotalLikes int64
}

type EngagementEngine struct {
	db     database.Database
	logger zerolog.Logger
}

func NewEngagementEngine(db database.Database) *EngagementEngine {
	return &EngagementEngine{
		db:     db,
		logger: log.With().Str("service", "engagement").Logger(),
	}
}

// ToggleLike flips userID's membership in the post's like-set inside one
// transaction. The edge change and both counter updates commit together, so
// total_likes always equals the number of like rows.
//
// A first like notifies the post author unless the author liked their own
// post. Unliking never retracts an earlier notification.
//
// If a concurrent toggle for the same pair wins the race, ToggleLike returns
// a Conflict and changes nothing.
func (e *EngagementEngine) ToggleLike(ctx context.Context, userID uuid.UUID, blogID string) (*LikeResult, error) {
	result := &LikeResult{}
	err := e.db.Transaction(ctx, func(tx database.Database) error {
		post, err := visiblePost(ctx, tx, blogID, userID)
		if err != nil {
			return err
		}

		removed, err := tx.BlogLikeRepo().Remove(ctx, post.ID, userID)
		if err != nil {
			return errs.NewDatabaseError("delete", "like", err)
		}

		delta := int64(-1)
		if !removed {
			inserted, err := tx.BlogLikeRepo().Insert(ctx, post.ID, userID)
			if err != nil {
				return errs.NewDatabaseError("create", "like", err)
			}
			if !inserted {
				return errs.NewConflictError("like changed concurrently, retry")
			}
			delta = 1
		}

		if err := tx.Counters().AddToPost(ctx, post.ID, database.PostLikes, delta); err != nil {
			return errs.NewDatabaseError("update", "blog post", err)
		}
		if err := tx.Counters().AddToUser(ctx, post.AuthorID, database.UserLikes, delta); err != nil {
			return errs.NewDatabaseError("update", "user", err)
		}

		if delta > 0 {
			_, err := Notify(ctx, tx, NotificationEvent{
				RecipientID: post.AuthorID,
				ActorID:     userID,
				Kind:        models.NotificationNewLike,
				BlogPostID:  post.ID,
			})
			if err != nil {
				return err
			}
		}

		total, err := tx.BlogPostRepo().TotalLikes(ctx, post.ID)
		if err != nil {
			return errs.NewDatabaseError("find", "blog post", err)
		}
		result.Liked = delta > 0
		result.TotalLikes = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IsLiked reports whether userID currently likes the post.
func (e *EngagementEngine) IsLiked(ctx context.Context, userID uuid.UUID, blogID string) (bool, error) {
	post, err := visiblePost(ctx, e.db, blogID, userID)
	if err != nil {
		return false, err
	}
	liked, err := e.db.BlogLikeRepo().Exists(ctx, post.ID, userID)
	if err != nil {
		return false, errs.NewDatabaseError("find", "like", err)
	}
	return liked, nil
}

// ToggleSave flips the bookmark edge and returns the resulting state. No
// counters or notifications are involved.
func (e *EngagementEngine) ToggleSave(ctx context.Context, userID uuid.UUID, blogID string) (bool, error) {
	var saved bool
	err := e.db.Transaction(ctx, func(tx database.Database) error {
		post, err := visiblePost(ctx, tx, blogID, userID)
		if err != nil {
			return err
		}
		removed, err := tx.SavedBlogRepo().Remove(ctx, userID, post.ID)
		if err != nil {
			return errs.NewDatabaseError("delete", "saved blog", err)
		}
		if removed {
			saved = false
			return nil
		}
		inserted, err := tx.SavedBlogRepo().Insert(ctx, userID, post.ID)
		if err != nil {
			return errs.NewDatabaseError("create", "saved blog", err)
		}
		if !inserted {
			return errs.NewConflictError("bookmark changed concurrently, retry")
		}
		saved = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return saved, nil
}

// IsSaved reports whether userID has bookmarked the post.
func (e *EngagementEngine) IsSaved(ctx context.Context, userID uuid.UUID, blogID string) (bool, error) {
	post, err := visiblePost(ctx, e.db, blogID, userID)
	if err != nil {
		return false, err
	}
	saved, err := e.db.SavedBlogRepo().Exists(ctx, userID, post.ID)
	if err != nil {
		return false, errs.NewDatabaseError("find", "saved blog", err)
	}
	return saved, nil
}

// SavedPosts pages through the user's bookmarks, most recently saved first.
func (e *EngagementEngine) SavedPosts(ctx context.Context, userID uuid.UUID, page int) (*PostPage, error) {
	page = normalizePage(page)
	ids, total, err := e.db.SavedBlogRepo().ListPostIDs(ctx, userID, pageOffset(page), PageSize)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "saved blogs", err)
	}
	found, err := e.db.BlogPostRepo().FindByIDs(ctx, ids)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "blog posts", err)
	}

	byID := make(map[uuid.UUID]*models.BlogPost, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	posts := make([]*models.BlogPost, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}

	return &PostPage{
		Posts:   posts,
		Page:    page,
		Total:   total,
		HasMore: int64(pageOffset(page)+len(ids)) < total,
	}, nil
}

// visiblePost loads a post that userID may see: any published post, or a
// draft they wrote.
func visiblePost(ctx context.Context, db database.Database, blogID string, userID uuid.UUID) (*models.BlogPost, error) {
	post, err := db.BlogPostRepo().FindByBlogID(ctx, blogID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "blog post", err)
	}
	if post.Draft && post.AuthorID != userID {
		return nil, errs.NewNotFoundError("blog post not found")
	}
	return post, nil
}
