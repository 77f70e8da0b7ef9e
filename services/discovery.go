package services

import (
	"context"
	"strings"

	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
	"golang.org/x/sync/errgroup"
)

const (
	homeTrendingLimit = 6
	homeRecentLimit   = 10
	homeTagsLimit     = 8
	maxPopularTags    = 50
)

// Home is the landing page feed.
type Home struct {
	Trending    []*models.BlogPost
	Recent      []*models.BlogPost
	PopularTags []database.TagCount
}

// Discovery answers search and browse queries straight from the content
// tables. Matching is case-insensitive substring with no ranking.
type Discovery struct {
	db database.Database
}

func NewDiscovery(db database.Database) *Discovery {
	return &Discovery{db: db}
}

// Search matches query against title, description and tags of published
// posts, newest first.
func (d *Discovery) Search(ctx context.Context, query string, page int) (*PostPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.NewMissingRequiredFieldError("query")
	}
	return listPosts(ctx, d.db, database.PostQuery{Draft: boolPtr(false), Text: query, Order: database.OrderRecent}, page)
}

// SearchTag matches tag as a substring of the tags of published posts.
func (d *Discovery) SearchTag(ctx context.Context, tag string, page int) (*PostPage, error) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return nil, errs.NewMissingRequiredFieldError("tag")
	}
	return listPosts(ctx, d.db, database.PostQuery{Draft: boolPtr(false), TagContains: tag, Order: database.OrderRecent}, page)
}

// PopularTags returns the most used tags across published posts.
func (d *Discovery) PopularTags(ctx context.Context, limit int) ([]database.TagCount, error) {
	if limit <= 0 || limit > maxPopularTags {
		limit = homeTagsLimit
	}
	tags, err := d.db.BlogPostRepo().PopularTags(ctx, limit)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "tags", err)
	}
	return tags, nil
}

// Home loads trending posts, recent posts and popular tags concurrently.
func (d *Discovery) Home(ctx context.Context) (*Home, error) {
	home := &Home{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		posts, _, err := d.db.BlogPostRepo().List(gctx, database.PostQuery{
			Draft: boolPtr(false),
			Order: database.OrderTrending,
			Limit: homeTrendingLimit,
		})
		if err != nil {
			return errs.NewDatabaseError("list", "trending posts", err)
		}
		home.Trending = posts
		return nil
	})
	g.Go(func() error {
		posts, _, err := d.db.BlogPostRepo().List(gctx, database.PostQuery{
			Draft: boolPtr(false),
			Order: database.OrderRecent,
			Limit: homeRecentLimit,
		})
		if err != nil {
			return errs.NewDatabaseError("list", "recent posts", err)
		}
		home.Recent = posts
		return nil
	})
	g.Go(func() error {
		tags, err := d.PopularTags(gctx, homeTagsLimit)
		if err != nil {
			return err
		}
		home.PopularTags = tags
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return home, nil
}
