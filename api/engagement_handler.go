package api

import (
	"net/http"

	"github.com/rpupo63/blog-platform-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type engagementHandler struct {
	responder  Responder
	logger     zerolog.Logger
	users      *services.UserDirectory
	engagement *services.EngagementEngine
}

func newEngagementHandler(users *services.UserDirectory, engagement *services.EngagementEngine) engagementHandler {
	logger := log.With().Str("handlerName", "engagementHandler").Logger()

	return engagementHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		users:      users,
		engagement: engagement,
	}
}

// toggleLike likes or unlikes a post
// @Summary Toggle like
// @Tags Engagement
// @Produce json
// @Param blogID path string true "Blog ID"
// @Success 200 {object} LikeResponse
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Failure 409 {object} ErrorResponse "Conflict - Concurrent toggle, retry"
// @Router /blog/like/{blogID} [post]
func (h engagementHandler) toggleLike() http.HandlerFunc {
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

		result, err := h.engagement.ToggleLike(r.Context(), actor.ID, blogID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, LikeResponse{Liked: result.Liked, TotalLikes: &result.TotalLikes})
	}
}

// isLiked reports whether the caller likes a post
// @Summary Like state
// @Tags Engagement
// @Produce json
// @Param blogID path string true "Blog ID"
// @Success 200 {object} LikeResponse
// @Router /blog/liked/{blogID} [get]
func (h engagementHandler) isLiked() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := stringParam(r, "blogID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		user, err := currentUser(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		liked, err := h.engagement.IsLiked(r.Context(), user.ID, blogID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, LikeResponse{Liked: liked})
	}
}

// toggleSave bookmarks or un-bookmarks a post
// @Summary Toggle bookmark
// @Tags Engagement
// @Produce json
// @Param blogID path string true "Blog ID"
// @Success 200 {object} SaveResponse
// @Router /user/save-blog/{blogID} [post]
func (h engagementHandler) toggleSave() http.HandlerFunc {
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

		saved, err := h.engagement.ToggleSave(r.Context(), actor.ID, blogID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, SaveResponse{Saved: saved})
	}
}

// isSaved reports whether the caller bookmarked a post
// @Summary Bookmark state
// @Tags Engagement
// @Produce json
// @Param blogID path string true "Blog ID"
// @Success 200 {object} SaveResponse
// @Router /user/saved-blog/{blogID} [get]
func (h engagementHandler) isSaved() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogID, err := stringParam(r, "blogID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		user, err := currentUser(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		saved, err := h.engagement.IsSaved(r.Context(), user.ID, blogID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, SaveResponse{Saved: saved})
	}
}

// getSavedBlogPosts lists the caller's bookmarks
// @Summary Saved posts
// @Tags Engagement
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} BlogPostPageResponse
// @Router /user/saved-blogs [get]
func (h engagementHandler) getSavedBlogPosts() http.HandlerFunc {
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

		result, err := h.engagement.SavedPosts(r.Context(), user.ID, page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newBlogPostPageResponse(result))
	}
}
