package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "writer")
	reader := f.user(t, "reader")
	post := f.publish(t, author, "Likeable")

	liked, err := f.engagement.ToggleLike(ctx, reader.ID, post.BlogID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, int64(1), liked.TotalLikes)
	assert.Equal(t, int64(1), f.reloadUser(t, author).TotalLikes)

	isLiked, err := f.engagement.IsLiked(ctx, reader.ID, post.BlogID)
	require.NoError(t, err)
	assert.True(t, isLiked)

	notifications := f.notificationsFor(t, author)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationNewLike, notifications[0].Kind)
	assert.Equal(t, reader.ID, notifications[0].ActorID)
	assert.Nil(t, notifications[0].CommentID)

	unliked, err := f.engagement.ToggleLike(ctx, reader.ID, post.BlogID)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Equal(t, int64(0), unliked.TotalLikes)
	assert.Equal(t, int64(0), f.reloadUser(t, author).TotalLikes)

	isLiked, err = f.engagement.IsLiked(ctx, reader.ID, post.BlogID)
	require.NoError(t, err)
	assert.False(t, isLiked)
	assert.Len(t, f.notificationsFor(t, author), 1, "unliking keeps the earlier notification")
}

func TestToggleLikeOwnPostDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "writer")
	post := f.publish(t, author, "Self")

	result, err := f.engagement.ToggleLike(context.Background(), author.ID, post.BlogID)
	require.NoError(t, err)

	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.TotalLikes)
	assert.Empty(t, f.notificationsFor(t, author))
}

func TestToggleLikeHiddenDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "writer")
	reader := f.user(t, "reader")
	post := f.draft(t, author, "Hidden")

	_, err := f.engagement.ToggleLike(ctx, reader.ID, post.BlogID)
	assert.True(t, errs.IsNotFound(err))

	_, err = f.engagement.ToggleLike(ctx, reader.ID, "missing")
	assert.True(t, errs.IsNotFound(err))
}

func TestConcurrentLikesMatchRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "writer")
	post := f.publish(t, author, "Hot")

	const readers = 8
	const togglesEach = 3
	users := make([]*models.User, readers)
	for i := range users {
		users[i] = f.user(t, fmt.Sprintf("reader%d", i))
	}

	var wg sync.WaitGroup
	errCh := make(chan error, readers*togglesEach)
	for _, u := range users {
		for i := 0; i < togglesEach; i++ {
			wg.Add(1)
			go func(u *models.User) {
				defer wg.Done()
				if _, err := f.engagement.ToggleLike(ctx, u.ID, post.BlogID); err != nil && !errs.IsConflict(err) {
					errCh <- err
				}
			}(u)
		}
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	rows, err := f.db.BlogLikeRepo().CountByPost(ctx, post.ID)
	require.NoError(t, err)
	fresh := f.reloadPost(t, post)
	assert.Equal(t, rows, fresh.TotalLikes)
	assert.Equal(t, rows, f.reloadUser(t, author).TotalLikes)
}

func TestToggleSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "writer")
	reader := f.user(t, "reader")
	post := f.publish(t, author, "Bookmark me")

	saved, err := f.engagement.ToggleSave(ctx, reader.ID, post.BlogID)
	require.NoError(t, err)
	assert.True(t, saved)

	isSaved, err := f.engagement.IsSaved(ctx, reader.ID, post.BlogID)
	require.NoError(t, err)
	assert.True(t, isSaved)

	saved, err = f.engagement.ToggleSave(ctx, reader.ID, post.BlogID)
	require.NoError(t, err)
	assert.False(t, saved)

	isSaved, err = f.engagement.IsSaved(ctx, reader.ID, post.BlogID)
	require.NoError(t, err)
	assert.False(t, isSaved)

	assert.Empty(t, f.notificationsFor(t, author), "bookmarks never notify")
	assert.Equal(t, int64(0), f.reloadPost(t, post).TotalLikes)
}

func TestSavedPostsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "writer")
	reader := f.user(t, "reader")

	var posts []*models.BlogPost
	for i := 1; i <= 6; i++ {
		p := f.publish(t, author, fmt.Sprintf("Post %d", i))
		posts = append(posts, p)
		_, err := f.engagement.ToggleSave(ctx, reader.ID, p.BlogID)
		require.NoError(t, err)
	}

	first, err := f.engagement.SavedPosts(ctx, reader.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), first.Total)
	assert.True(t, first.HasMore)
	require.Len(t, first.Posts, PageSize)
	assert.Equal(t, posts[5].BlogID, first.Posts[0].BlogID)

	second, err := f.engagement.SavedPosts(ctx, reader.ID, 2)
	require.NoError(t, err)
	assert.False(t, second.HasMore)
	require.Len(t, second.Posts, 1)
	assert.Equal(t, posts[0].BlogID, second.Posts[0].BlogID)

	empty, err := f.engagement.SavedPosts(ctx, author.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Posts)
	assert.Zero(t, empty.Total)
}
