package api

import (
	"encoding/json"
	"net/http"

	"github.com/rpupo63/blog-platform-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     *services.UserDirectory
	content   *services.ContentStore
}

func newBlogPostHandler(users *services.UserDirectory, content *services.ContentStore) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
		content:   content,
	}
}

// SaveBlogPostRequest creates a post (no blog_id) or replaces an existing one
type SaveBlogPostRequest struct {
	BlogID      string          `json:"blog_id" validate:"omitempty,max=64"`
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"des" validate:"max=200"`
	Banner      string          `json:"banner" validate:"omitempty,url"`
	Content     json.RawMessage `json:"content"`
	Tags        []string        `json:"tags" validate:"max=10,dive,max=50"`
	Draft       bool            `json:"draft"`
}

// saveBlogPost creates or updates a blog post
// @Summary Create or update blog post
// @Description Creates a new post when blog_id is empty, otherwise replaces the editable fields of the caller's post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param blogPost body SaveBlogPostRequest true "Blog post data"
// @Success 201 {object} CreateBlogPostResponse "Created"
// @Success 200 {object} BlogPostDetailResponse "Updated"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid blog post data"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the author"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog [post]
func (h blogPostHandler) saveBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := currentActor(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req SaveBlogPostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, created, err := h.content.Save(r.Context(), actor.ID, services.PostInput{
			BlogID:      req.BlogID,
			Title:       req.Title,
			Description: req.Description,
			Banner:      req.Banner,
			Content:     req.Content,
			Tags:        req.Tags,
			Draft:       req.Draft,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if created {
			h.responder.WriteJSONWithStatus(w, http.StatusCreated, CreateBlogPostResponse{BlogID: post.BlogID})
			return
		}
		h.responder.WriteJSON(w, BlogPostDetailResponse{Blog: newBlogPostResponse(post, true)})
	}
}

// getBlogPost retrieves a post and counts the read
// @Summary Get blog post
// @Description Returns a post with its author. Published reads increment the post and author read counters.
// @Tags Blog Posts
// @Produce json
// @Param blogID path string true "Blog ID"
// @Success 200 {object} BlogPostDetailResponse "Blog post"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog/{blogID} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := stringParam(r, "blogID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		viewer, err := currentViewer(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		detail, err := h.content.Get(r.Context(), blogID, viewer)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, BlogPostDetailResponse{
			Blog:    newBlogPostResponse(detail.Post, true),
			IsLiked: detail.IsLiked,
		})
	}
}

// deleteBlogPost deletes a post and everything attached to it
// @Summary Delete blog post
// @Tags Blog Posts
// @Produce json
// @Param blogID path string true "Blog ID"
// @Success 200 {object} StatusResponse "Deleted"
// @Failure 403 {object} ErrorResponse "Forbidden - Not the author"
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog/{blogID} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := stringParam(r, "blogID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		actor, err := currentActor(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.content.Delete(r.Context(), actor.ID, blogID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "deleted"})
	}
}

// getMyBlogPosts lists the caller's own posts
// @Summary List own blog posts
// @Tags Blog Posts
// @Produce json
// @Param filter query string false "all, published or draft"
// @Param page query int false "Page number"
// @Success 200 {object} BlogPostPageResponse
// @Router /user/blogs [get]
func (h blogPostHandler) getMyBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		page, err := pageParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.content.ListByAuthor(r.Context(), user.ID, r.URL.Query().Get("filter"), page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newBlogPostPageResponse(result))
	}
}

// getUserBlogPosts lists another user's published posts
// @Summary List a user's published posts
// @Tags Blog Posts
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} BlogPostPageResponse
// @Failure 404 {object} ErrorResponse "Not Found - User not found"
// @Router /user/blogs/{username} [get]
func (h blogPostHandler) getUserBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := stringParam(r, "username")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		page, err := pageParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.content.ListPublishedByUsername(r.Context(), username, page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newBlogPostPageResponse(result))
	}
}

// getRecentBlogPosts lists published posts, newest first
// @Summary Recent posts
// @Tags Blog Posts
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} BlogPostPageResponse
// @Router /blogs [get]
func (h blogPostHandler) getRecentBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		result, err := h.content.Recent(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newBlogPostPageResponse(result))
	}
}

// getTrendingBlogPosts lists published posts by reads
// @Summary Trending posts
// @Tags Blog Posts
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} BlogPostPageResponse
// @Router /blogs/trending [get]
func (h blogPostHandler) getTrendingBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		result, err := h.content.Trending(r.Context(), page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newBlogPostPageResponse(result))
	}
}

// getRelatedBlogPosts returns up to three posts sharing a tag
// @Summary Related posts
// @Tags Blog Posts
// @Produce json
// @Param tag query string true "Tag"
// @Param blog_id query string false "Blog ID to exclude"
// @Success 200 {object} BlogPostPageResponse
// @Router /related-blogs [get]
func (h blogPostHandler) getRelatedBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		posts, err := h.content.Related(r.Context(), q.Get("tag"), q.Get("blog_id"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, BlogPostPageResponse{
			Blogs: newBlogPostResponses(posts),
			Page:  1,
			Total: int64(len(posts)),
		})
	}
}
