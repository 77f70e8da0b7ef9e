package api

import (
	"github.com/rpupo63/blog-platform-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svc *services.Services, uploader *services.ImageUploader) *routeHandlers {
	handlers := &routeHandlers{
		userHandler:         newUserHandler(svc.Users),
		blogPostHandler:     newBlogPostHandler(svc.Users, svc.Content),
		engagementHandler:   newEngagementHandler(svc.Users, svc.Engagement),
		commentHandler:      newCommentHandler(svc.Users, svc.Comments),
		notificationHandler: newNotificationHandler(svc.Users, svc.Notifications),
		discoveryHandler:    newDiscoveryHandler(svc.Discovery),
	}
	if uploader != nil {
		handlers.uploadHandler = newUploadHandler(svc.Users, uploader)
	}
	return handlers
}
