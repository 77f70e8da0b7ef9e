package api

import (
	"net/http"

	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     *services.UserDirectory
}

func newUserHandler(users *services.UserDirectory) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
	}
}

// SyncUserRequest carries the identity provider's profile fields
type SyncUserRequest struct {
	Fullname     string `json:"fullname" validate:"max=100"`
	Email        string `json:"email" validate:"omitempty,email"`
	Username     string `json:"username" validate:"omitempty,min=3,max=30"`
	ProfileImage string `json:"profile_img" validate:"omitempty,url"`
}

// UpdateProfileRequest holds the self-editable profile fields. Absent
// fields are left unchanged.
type UpdateProfileRequest struct {
	Fullname     *string `json:"fullname" validate:"omitempty,max=100"`
	Bio          *string `json:"bio" validate:"omitempty,max=200"`
	ProfileImage *string `json:"profile_img" validate:"omitempty,max=2048"`
}

// syncUser creates or refreshes the caller's profile from the identity provider
// @Summary Sync user
// @Description Creates the user on first login and refreshes provider-owned fields afterwards
// @Tags Users
// @Accept json
// @Produce json
// @Param user body SyncUserRequest true "Profile fields"
// @Success 200 {object} SyncUserResponse
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 409 {object} ErrorResponse "Conflict - Username taken"
// @Router /user/sync [post]
func (h userHandler) syncUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, ok := ctxGetSubject(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewUnauthenticatedError("authentication required"))
			return
		}

		var req SyncUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, created, err := h.users.Sync(r.Context(), services.SyncInput{
			Subject:      subject,
			Fullname:     req.Fullname,
			Email:        req.Email,
			Username:     req.Username,
			ProfileImage: req.ProfileImage,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		h.responder.WriteJSONWithStatus(w, status, SyncUserResponse{User: newUserResponse(user), Created: created})
	}
}

// getMe returns the caller's own profile
// @Summary Current user
// @Tags Users
// @Produce json
// @Success 200 {object} UserResponse
// @Router /user/me [get]
func (h userHandler) getMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newUserResponse(user))
	}
}

// getProfile returns a public profile with the user's five latest posts
// @Summary Get profile
// @Tags Users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} ErrorResponse "Not Found - User not found"
// @Router /user/profile/{username} [get]
func (h userHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := stringParam(r, "username")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		profile, err := h.users.Profile(r.Context(), username)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ProfileResponse{
			User:    newUserResponse(profile.User),
			Blogs:   newBlogPostResponses(profile.RecentPosts),
			HasMore: profile.HasMore,
		})
	}
}

// updateProfile edits the caller's bio, display name or image
// @Summary Update profile
// @Tags Users
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} UserResponse
// @Router /user/profile [put]
func (h userHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := currentActor(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req UpdateProfileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.UpdateProfile(r.Context(), actor.ID, services.ProfileUpdate{
			Fullname:     req.Fullname,
			Bio:          req.Bio,
			ProfileImage: req.ProfileImage,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newUserResponse(user))
	}
}

// setBlocked returns a handler that blocks (true) or unblocks (false) a user
// @Summary Block or unblock a user
// @Tags Admin
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} UserResponse
// @Failure 403 {object} ErrorResponse "Forbidden - Admin role required"
// @Router /admin/users/{username}/block [post]
// @Router /admin/users/{username}/block [delete]
func (h userHandler) setBlocked(blocked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := stringParam(r, "username")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		admin, err := currentActor(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.users.SetBlocked(r.Context(), admin, username, blocked)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newUserResponse(user))
	}
}
