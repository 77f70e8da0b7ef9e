package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/database/databasetest"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/stretchr/testify/require"
)

var sampleContent = json.RawMessage(`[{"id":"b1","type":"paragraph","data":{"text":"hello world from the blog"}}]`)

// fakeClock hands out strictly increasing timestamps one second apart.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	db            database.Database
	clock         *fakeClock
	users         *UserDirectory
	content       *ContentStore
	engagement    *EngagementEngine
	comments      *CommentTree
	notifications *NotificationDispatcher
	discovery     *Discovery
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.New(t)
	clock := newFakeClock()

	content := NewContentStore(db)
	content.now = clock.now
	comments := NewCommentTree(db)
	comments.now = clock.now

	return &fixture{
		db:            db,
		clock:         clock,
		users:         NewUserDirectory(db),
		content:       content,
		engagement:    NewEngagementEngine(db),
		comments:      comments,
		notifications: NewNotificationDispatcher(db),
		discovery:     NewDiscovery(db),
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	return databasetest.CreateUser(t, f.db, username)
}

func (f *fixture) publish(t *testing.T, author *models.User, title string, tags ...string) *models.BlogPost {
	t.Helper()
	post, created, err := f.content.Save(context.Background(), author.ID, PostInput{
		Title:       title,
		Description: "about " + title,
		Content:     sampleContent,
		Tags:        tags,
	})
	require.NoError(t, err)
	require.True(t, created)
	return post
}

func (f *fixture) draft(t *testing.T, author *models.User, title string) *models.BlogPost {
	t.Helper()
	post, _, err := f.content.Save(context.Background(), author.ID, PostInput{Title: title, Draft: true})
	require.NoError(t, err)
	return post
}

func (f *fixture) reloadUser(t *testing.T, user *models.User) *models.User {
	t.Helper()
	fresh, err := f.db.UserRepo().FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	return fresh
}

func (f *fixture) reloadPost(t *testing.T, post *models.BlogPost) *models.BlogPost {
	t.Helper()
	fresh, err := f.db.BlogPostRepo().FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	return fresh
}

func (f *fixture) notificationsFor(t *testing.T, user *models.User) []*models.Notification {
	t.Helper()
	notifications, _, err := f.db.NotificationRepo().ListByRecipient(context.Background(), user.ID, false, 0, 100)
	require.NoError(t, err)
	return notifications
}
