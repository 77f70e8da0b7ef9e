package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/rpupo63/blog-platform-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	userHandler         userHandler
	blogPostHandler     blogPostHandler
	engagementHandler   engagementHandler
	commentHandler      commentHandler
	notificationHandler notificationHandler
	discoveryHandler    discoveryHandler
	uploadHandler       *uploadHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"blog post not found"`
	Kind    string `json:"kind" example:"not_found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"title must be at most 200 characters"`
}

// BlogPostResponse is the public shape of a post
type BlogPostResponse struct {
	BlogID      string               `json:"blog_id"`
	Title       string               `json:"title"`
	Description string               `json:"des"`
	Banner      string               `json:"banner"`
	Content     json.RawMessage      `json:"content,omitempty"`
	Tags        []string             `json:"tags"`
	Draft       bool                 `json:"draft"`
	Activity    models.Activity      `json:"activity"`
	Author      models.AuthorSummary `json:"author"`
	PublishedAt *time.Time           `json:"published_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func newBlogPostResponse(p *models.BlogPost, withContent bool) BlogPostResponse {
	resp := BlogPostResponse{
		BlogID:      p.BlogID,
		Title:       p.Title,
		Description: p.Description,
		Banner:      p.Banner,
		Tags:        p.TagValues(),
		Draft:       p.Draft,
		Activity:    p.Activity(),
		Author:      p.Author.Summary(),
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if withContent {
		resp.Content = json.RawMessage(p.Content)
	}
	return resp
}

func newBlogPostResponses(posts []*models.BlogPost) []BlogPostResponse {
	out := make([]BlogPostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, newBlogPostResponse(p, false))
	}
	return out
}

// BlogPostDetailResponse is a single post as seen by the caller
type BlogPostDetailResponse struct {
	Blog    BlogPostResponse `json:"blog"`
	IsLiked bool             `json:"is_liked"`
}

// BlogPostPageResponse is one page of a post listing
type BlogPostPageResponse struct {
	Blogs   []BlogPostResponse `json:"blogs"`
	Page    int                `json:"page"`
	Total   int64              `json:"total"`
	HasMore bool               `json:"has_more"`
}

func newBlogPostPageResponse(page *services.PostPage) BlogPostPageResponse {
	return BlogPostPageResponse{
		Blogs:   newBlogPostResponses(page.Posts),
		Page:    page.Page,
		Total:   page.Total,
		HasMore: page.HasMore,
	}
}

// CreateBlogPostResponse is returned when a new post is created
type CreateBlogPostResponse struct {
	BlogID string `json:"blog_id"`
}

// UserResponse is the public profile of a user
type UserResponse struct {
	ID           uuid.UUID          `json:"id"`
	Username     string             `json:"username"`
	Fullname     string             `json:"fullname"`
	ProfileImage string             `json:"profile_img"`
	Bio          string             `json:"bio"`
	Role         models.Role        `json:"role"`
	Blocked      bool               `json:"blocked"`
	AccountInfo  models.AccountInfo `json:"account_info"`
	JoinedAt     time.Time          `json:"joined_at"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Fullname:     u.Fullname,
		ProfileImage: u.ProfileImage,
		Bio:          u.Bio,
		Role:         u.Role,
		Blocked:      u.Blocked,
		AccountInfo:  u.AccountInfo(),
		JoinedAt:     u.JoinedAt,
	}
}

// SyncUserResponse is returned by the identity sync endpoint
type SyncUserResponse struct {
	User    UserResponse `json:"user"`
	Created bool         `json:"created"`
}

// ProfileResponse is a public profile with recent posts
type ProfileResponse struct {
	User    UserResponse       `json:"user"`
	Blogs   []BlogPostResponse `json:"blogs"`
	HasMore bool               `json:"has_more"`
}

// LikeResponse reports the like state after a toggle or query
type LikeResponse struct {
	Liked      bool   `json:"liked"`
	TotalLikes *int64 `json:"total_likes,omitempty"`
}

// SaveResponse reports the bookmark state after a toggle or query
type SaveResponse struct {
	Saved bool `json:"saved"`
}

// CommentsResponse is the full comment forest of a post
type CommentsResponse struct {
	Comments []*models.CommentNode `json:"comments"`
}

func newCommentResponse(c *models.Comment) *models.CommentNode {
	return &models.CommentNode{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		Edited:    c.Edited,
		CreatedAt: c.CreatedAt,
		EditedAt:  c.EditedAt,
		Author:    c.Author.Summary(),
		Replies:   []*models.CommentNode{},
	}
}

// DeleteCommentResponse reports how many comments a subtree delete removed
type DeleteCommentResponse struct {
	Deleted int64 `json:"deleted"`
}

// NotificationBlog is the post summary embedded in a notification
type NotificationBlog struct {
	BlogID string `json:"blog_id"`
	Title  string `json:"title"`
}

// NotificationResponse is one entry of the notification feed
type NotificationResponse struct {
	ID        uuid.UUID               `json:"id"`
	Type      models.NotificationKind `json:"type"`
	Seen      bool                    `json:"seen"`
	CommentID *uuid.UUID              `json:"comment_id,omitempty"`
	User      models.AuthorSummary    `json:"user"`
	Blog      NotificationBlog        `json:"blog"`
	CreatedAt time.Time               `json:"created_at"`
}

// NotificationPageResponse is one page of the notification feed
type NotificationPageResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Page          int                    `json:"page"`
	Total         int64                  `json:"total"`
	HasMore       bool                   `json:"has_more"`
}

func newNotificationPageResponse(page *services.NotificationPage) NotificationPageResponse {
	out := make([]NotificationResponse, 0, len(page.Notifications))
	for _, n := range page.Notifications {
		out = append(out, NotificationResponse{
			ID:        n.ID,
			Type:      n.Kind,
			Seen:      n.Read,
			CommentID: n.CommentID,
			User:      n.Actor.Summary(),
			Blog:      NotificationBlog{BlogID: n.BlogPost.BlogID, Title: n.BlogPost.Title},
			CreatedAt: n.CreatedAt,
		})
	}
	return NotificationPageResponse{
		Notifications: out,
		Page:          page.Page,
		Total:         page.Total,
		HasMore:       page.HasMore,
	}
}

// CountResponse carries a single count
type CountResponse struct {
	Count int64 `json:"count"`
}

// HomeResponse is the landing page feed
type HomeResponse struct {
	Trending    []BlogPostResponse  `json:"trending"`
	Recent      []BlogPostResponse  `json:"recent"`
	PopularTags []database.TagCount `json:"popular_tags"`
}

// TagsResponse lists tags with their usage counts
type TagsResponse struct {
	Tags []database.TagCount `json:"tags"`
}

// UploadImageResponse carries the public URL of a stored image
type UploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// StatusResponse is a minimal acknowledgement
type StatusResponse struct {
	Status string `json:"status"`
}
