package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/models"
	"gorm.io/gorm"
)

// PostCounter names an aggregate column on blog_posts.
type PostCounter string

const (
	PostReads PostCounter = "total_reads"
	PostLikes PostCounter = "total_likes"
)

// UserCounter names an aggregate column on users.
type UserCounter string

const (
	UserPosts UserCounter = "total_posts"
	UserReads UserCounter = "total_reads"
	UserLikes UserCounter = "total_likes"
)

// Counters is the only code path that mutates aggregate counters. Every
// change is a single relative UPDATE so concurrent writers never lose an
// increment.
type Counters struct {
	db *gorm.DB
}

func NewCounters(db *gorm.DB) *Counters {
	return &Counters{db}
}

// AddToPost applies delta to one counter of a post.
func (c *Counters) AddToPost(ctx context.Context, postID uuid.UUID, counter PostCounter, delta int64) error {
	switch counter {
	case PostReads, PostLikes:
	default:
		return fmt.Errorf("unknown post counter %q", counter)
	}
	return c.add(ctx, &models.BlogPost{}, postID, string(counter), delta)
}

// AddToUser applies delta to one counter of a user.
func (c *Counters) AddToUser(ctx context.Context, userID uuid.UUID, counter UserCounter, delta int64) error {
	switch counter {
	case UserPosts, UserReads, UserLikes:
	default:
		return fmt.Errorf("unknown user counter %q", counter)
	}
	return c.add(ctx, &models.User{}, userID, string(counter), delta)
}

func (c *Counters) add(ctx context.Context, model any, id uuid.UUID, column string, delta int64) error {
	if delta == 0 {
		return nil
	}
	res := c.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
