package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public, optionally authenticated and
// authenticated route groups.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Public routes; a valid credential only personalizes the response
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.identify)

		r.Get("/blog/{blogID}", handlers.blogPostHandler.getBlogPost())
		r.Get("/blog/{blogID}/comments", handlers.commentHandler.getComments())
		r.Get("/blogs", handlers.blogPostHandler.getRecentBlogPosts())
		r.Get("/blogs/trending", handlers.blogPostHandler.getTrendingBlogPosts())
		r.Get("/related-blogs", handlers.blogPostHandler.getRelatedBlogPosts())
		r.Get("/user/blogs/{username}", handlers.blogPostHandler.getUserBlogPosts())
		r.Get("/user/profile/{username}", handlers.userHandler.getProfile())

		r.Get("/search", handlers.discoveryHandler.search())
		r.Get("/search/tag/{tag}", handlers.discoveryHandler.searchTag())
		r.Get("/home", handlers.discoveryHandler.getHome())
		r.Get("/popular-tags", handlers.discoveryHandler.getPopularTags())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		// User Handler endpoints
		r.Post("/user/sync", handlers.userHandler.syncUser())
		r.Get("/user/me", handlers.userHandler.getMe())
		r.Put("/user/profile", handlers.userHandler.updateProfile())
		r.Post("/admin/users/{username}/block", handlers.userHandler.setBlocked(true))
		r.Delete("/admin/users/{username}/block", handlers.userHandler.setBlocked(false))

		// Blog Post Handler endpoints
		r.Post("/blog", handlers.blogPostHandler.saveBlogPost())
		r.Delete("/blog/{blogID}", handlers.blogPostHandler.deleteBlogPost())
		r.Get("/user/blogs", handlers.blogPostHandler.getMyBlogPosts())

		// Engagement Handler endpoints
		r.Post("/blog/like/{blogID}", handlers.engagementHandler.toggleLike())
		r.Get("/blog/liked/{blogID}", handlers.engagementHandler.isLiked())
		r.Post("/user/save-blog/{blogID}", handlers.engagementHandler.toggleSave())
		r.Get("/user/saved-blog/{blogID}", handlers.engagementHandler.isSaved())
		r.Get("/user/saved-blogs", handlers.engagementHandler.getSavedBlogPosts())

		// Comment Handler endpoints
		r.Post("/blog/{blogID}/comments", handlers.commentHandler.addComment())
		r.Put("/comments/{commentID}", handlers.commentHandler.editComment())
		r.Delete("/comments/{commentID}", handlers.commentHandler.deleteComment())

		// Notification Handler endpoints
		r.Get("/notifications", handlers.notificationHandler.getNotifications())
		r.Get("/notifications/unread-count", handlers.notificationHandler.getUnreadCount())
		r.Post("/notifications/read-all", handlers.notificationHandler.markAllRead())
		r.Post("/notifications/{notificationID}/read", handlers.notificationHandler.markRead())

		if handlers.uploadHandler != nil {
			r.Post("/upload-image", handlers.uploadHandler.uploadImage())
		}
	})
}
