package api

import (
	"net/http"

	"github.com/rpupo63/blog-platform-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type notificationHandler struct {
	responder     Responder
	logger        zerolog.Logger
	users         *services.UserDirectory
	notifications *services.NotificationDispatcher
}

func newNotificationHandler(users *services.UserDirectory, notifications *services.NotificationDispatcher) notificationHandler {
	logger := log.With().Str("handlerName", "notificationHandler").Logger()

	return notificationHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		users:         users,
		notifications: notifications,
	}
}

// getNotifications returns the caller's notification feed
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number"
// @Param unread query bool false "Only unread"
// @Success 200 {object} NotificationPageResponse
// @Router /notifications [get]
func (h notificationHandler) getNotifications() http.HandlerFunc {
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
		unreadOnly := r.URL.Query().Get("unread") == "true"

		result, err := h.notifications.List(r.Context(), user.ID, unreadOnly, page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newNotificationPageResponse(result))
	}
}

// getUnreadCount returns how many notifications are unread
// @Summary Unread count
// @Tags Notifications
// @Produce json
// @Success 200 {object} CountResponse
// @Router /notifications/unread-count [get]
func (h notificationHandler) getUnreadCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		count, err := h.notifications.UnreadCount(r.Context(), user.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, CountResponse{Count: count})
	}
}

// markRead marks one notification as read
// @Summary Mark notification read
// @Tags Notifications
// @Produce json
// @Param notificationID path string true "Notification ID" format(uuid)
// @Success 200 {object} StatusResponse
// @Failure 403 {object} ErrorResponse "Forbidden - Another user's notification"
// @Router /notifications/{notificationID}/read [post]
func (h notificationHandler) markRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notificationID, err := uuidParam(r, "notificationID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		user, err := currentUser(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.notifications.MarkRead(r.Context(), user.ID, notificationID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, StatusResponse{Status: "read"})
	}
}

// markAllRead marks every notification as read
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Success 200 {object} CountResponse
// @Router /notifications/read-all [post]
func (h notificationHandler) markAllRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, h.users)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		n, err := h.notifications.MarkAllRead(r.Context(), user.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, CountResponse{Count: n})
	}
}
