package services

import (
	"context"
	"testing"

	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(posts []*models.BlogPost) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "writer")
	f.publish(t, author, "Concurrency in Go", "golang")
	f.publish(t, author, "Rust ownership", "systems")
	f.publish(t, author, "Gardening", "GO outside")
	f.publish(t, author, "100% coverage", "testing")
	_, _, err := f.content.Save(ctx, author.ID, PostInput{Title: "Go draft", Draft: true})
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{"go", []string{"Concurrency in Go", "Gardening"}},
		{"OWNERSHIP", []string{"Rust ownership"}},
		{"about rust", []string{"Rust ownership"}},
		{"systems", []string{"Rust ownership"}},
		{"%", []string{"100% coverage"}},
		{"_", nil},
		{"nothing matches", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, err := f.discovery.Search(ctx, tt.query, 1)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, titles(page.Posts))
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}

	_, err = f.discovery.Search(ctx, "  ", 1)
	assert.True(t, errs.IsBadRequest(err))
}

func TestSearchTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "writer")
	f.publish(t, author, "One", "golang")
	f.publish(t, author, "Two", "go")
	f.publish(t, author, "Three", "python")

	page, err := f.discovery.SearchTag(ctx, "GO", 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"One", "Two"}, titles(page.Posts))

	_, err = f.discovery.SearchTag(ctx, "", 1)
	assert.True(t, errs.IsBadRequest(err))
}

func TestPopularTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "writer")
	f.publish(t, author, "One", "go", "db")
	f.publish(t, author, "Two", "go", "web")
	f.publish(t, author, "Three", "go", "db")
	_, _, err := f.content.Save(ctx, author.ID, PostInput{Title: "Draft", Draft: true, Tags: []string{"web", "secret"}})
	require.NoError(t, err)

	tags, err := f.discovery.PopularTags(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []database.TagCount{{Name: "go", Count: 3}, {Name: "db", Count: 2}}, tags)

	all, err := f.discovery.PopularTags(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []database.TagCount{{Name: "go", Count: 3}, {Name: "db", Count: 2}, {Name: "web", Count: 1}}, all)
}

func TestHome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "writer")
	older := f.publish(t, author, "Older", "go")
	newer := f.publish(t, author, "Newer", "go")
	f.draft(t, author, "Hidden")
	_, err := f.content.Get(ctx, older.BlogID, nil)
	require.NoError(t, err)

	home, err := f.discovery.Home(ctx)
	require.NoError(t, err)

	require.Len(t, home.Trending, 2)
	assert.Equal(t, older.BlogID, home.Trending[0].BlogID)
	require.Len(t, home.Recent, 2)
	assert.Equal(t, newer.BlogID, home.Recent[0].BlogID)
	assert.Equal(t, []database.TagCount{{Name: "go", Count: 2}}, home.PopularTags)
}
