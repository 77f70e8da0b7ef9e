package services

import (
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/models"
)

// PageSize is the fixed number of posts returned per listing page.
const PageSize = 5

// Services bundles the domain components that share one Database.
type Services struct {
	Users         *UserDirectory
	Content       *ContentStore
	Engagement    *EngagementEngine
	Comments      *CommentTree
	Notifications *NotificationDispatcher
	Discovery     *Discovery
}

func New(db database.Database) *Services {
	return &Services{
		Users:         NewUserDirectory(db),
		Content:       NewContentStore(db),
		Engagement:    NewEngagementEngine(db),
		Comments:      NewCommentTree(db),
		Notifications: NewNotificationDispatcher(db),
		Discovery:     NewDiscovery(db),
	}
}

// PostPage is one offset page of a post listing.
type PostPage struct {
	Posts   []*models.BlogPost
	Page    int
	Total   int64
	HasMore bool
}

func newPostPage(posts []*models.BlogPost, page int, total int64) *PostPage {
	return &PostPage{
		Posts:   posts,
		Page:    page,
		Total:   total,
		HasMore: int64(pageOffset(page)+len(posts)) < total,
	}
}

// normalizePage clamps page numbers to start at 1.
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func pageOffset(page int) int {
	return (normalizePage(page) - 1) * PageSize
}

func boolPtr(b bool) *bool {
	return &b
}
