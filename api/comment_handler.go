package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type commentHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     *services.UserDirectory
	comments  *services.CommentTree
}

func newCommentHandler(users *services.UserDirectory, comments *services.CommentTree) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
		comments:  comments,
	}
}

// CreateCommentRequest adds a comment, or a reply when parent_id is set
type CreateCommentRequest struct {
	Content  string  `json:"content" validate:"required,max=1000"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

// EditCommentRequest replaces the text of a comment
type EditCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// getComments returns the comment tree of a post
// @Summary List comments
// @Tags Comments
// @Produce json
// @Param blogID path string true "Blog ID"
// @Success 200 {object} CommentsResponse
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /blog/{blogID}/comments [get]
func (h commentHandler) getComments() http.HandlerFunc {
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
		viewerID := uuid.Nil
		if viewer != nil {
			viewerID = viewer.ID
		}

		tree, err := h.comments.List(r.Context(), blogID, viewerID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, CommentsResponse{Comments: tree})
	}
}

// addComment comments on a post or replies to a comment
// @Summary Add comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param blogID path string true "Blog ID"
// @Param comment body CreateCommentRequest true "Comment"
// @Success 201 {object} models.CommentNode
// @Failure 400 {object} ErrorResponse "Bad Request - Parent comment on another post"
// @Router /blog/{blogID}/comments [post]
func (h commentHandler) addComment() http.HandlerFunc {
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

		var req CreateCommentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var parentID *uuid.UUID
		if req.ParentID != nil {
			id := uuid.MustParse(*req.ParentID)
			parentID = &id
		}

		comment, err := h.comments.Add(r.Context(), actor, blogID, req.Content, parentID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONWithStatus(w, http.StatusCreated, newCommentResponse(comment))
	}
}

// editComment edits the caller's comment
// @Summary Edit comment
// @Tags Comments
// @Accept json
// @Produce json
// @Param commentID path string true "Comment ID" format(uuid)
// @Param comment body EditCommentRequest true "Comment"
// @Success 200 {object} models.CommentNode
// @Failure 403 {object} ErrorResponse "Forbidden - Not the comment author"
// @Router /comments/{commentID} [put]
func (h commentHandler) editComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuidParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		actor, err := currentActor(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req EditCommentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment, err := h.comments.Edit(r.Context(), actor.ID, commentID, req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newCommentResponse(comment))
	}
}

// deleteComment deletes a comment with all its replies
// @Summary Delete comment
// @Tags Comments
// @Produce json
// @Param commentID path string true "Comment ID" format(uuid)
// @Success 200 {object} DeleteCommentResponse
// @Failure 403 {object} ErrorResponse "Forbidden - Neither comment nor post author"
// @Router /comments/{commentID} [delete]
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuidParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		actor, err := currentActor(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.comments.Delete(r.Context(), actor.ID, commentID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, DeleteCommentResponse{Deleted: deleted})
	}
}
