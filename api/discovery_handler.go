package api

import (
	"net/http"
	"strconv"

	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type discoveryHandler struct {
	responder Responder
	logger    zerolog.Logger
	discovery *services.Discovery
}

func newDiscoveryHandler(discovery *services.Discovery) discoveryHandler {
	logger := log.With().Str("handlerName", "discoveryHandler").Logger()

	return discoveryHandler{
		responder: NewResponder(logger),
		logger:    logger,
		discovery: discovery,
	}
}

// search matches published posts by title, description or tag
// @Summary Search posts
// @Tags Discovery
// @Produce json
// @Param query query string true "Search text"
// @Param page query int false "Page number"
// @Success 200 {object} BlogPostPageResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing query"
// @Router /search [get]
func (h discoveryHandler) search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		result, err := h.discovery.Search(r.Context(), r.URL.Query().Get("query"), page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newBlogPostPageResponse(result))
	}
}

// searchTag matches published posts by tag
// @Summary Search posts by tag
// @Tags Discovery
// @Produce json
// @Param tag path string true "Tag"
// @Param page query int false "Page number"
// @Success 200 {object} BlogPostPageResponse
// @Router /search/tag/{tag} [get]
func (h discoveryHandler) searchTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag, err := stringParam(r, "tag")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		page, err := pageParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		result, err := h.discovery.SearchTag(r.Context(), tag, page)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newBlogPostPageResponse(result))
	}
}

// getHome returns trending posts, recent posts and popular tags
// @Summary Home feed
// @Tags Discovery
// @Produce json
// @Success 200 {object} HomeResponse
// @Router /home [get]
func (h discoveryHandler) getHome() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		home, err := h.discovery.Home(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, HomeResponse{
			Trending:    newBlogPostResponses(home.Trending),
			Recent:      newBlogPostResponses(home.Recent),
			PopularTags: home.PopularTags,
		})
	}
}

// getPopularTags lists the most used tags
// @Summary Popular tags
// @Tags Discovery
// @Produce json
// @Param limit query int false "Number of tags"
// @Success 200 {object} TagsResponse
// @Router /popular-tags [get]
func (h discoveryHandler) getPopularTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("limit", "must be a positive integer"))
				return
			}
			limit = n
		}
		tags, err := h.discovery.PopularTags(r.Context(), limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, TagsResponse{Tags: tags})
	}
}
