package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/database/databasetest"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/rpupo63/blog-platform-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryImageStore struct {
	objects map[string][]byte
}

func (s *memoryImageStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	s.objects[key] = data
	return "https://images.example.com/" + key, nil
}

type testServer struct {
	t        *testing.T
	db       database.Database
	handler  http.Handler
	verifier *services.JWTVerifier
	images   *memoryImageStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := databasetest.New(t)
	verifier := services.NewJWTVerifier("test-secret", "blog-test")
	images := &memoryImageStore{objects: map[string][]byte{}}
	return &testServer{
		t:        t,
		db:       db,
		handler:  NewRouter(services.New(db), verifier, WithImageStore(images)),
		verifier: verifier,
		images:   images,
	}
}

func (s *testServer) request(method, path, subject, contentType string, body io.Reader) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if subject != "" {
		token, err := s.verifier.Issue(subject, time.Hour)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) do(method, path, subject string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	return s.request(method, path, subject, "application/json", reader)
}

func (s *testServer) sync(subject, username string) UserResponse {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/user/sync", subject, map[string]string{
		"fullname": username,
		"email":    username + "@example.com",
		"username": username,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[SyncUserResponse](s.t, rec).User
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, kind string) ErrorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, kind, resp.Kind)
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Error)
	return resp
}

var postBody = map[string]any{
	"title":   "Hello Gophers",
	"des":     "An introduction",
	"content": []map[string]any{{"type": "paragraph", "data": map[string]string{"text": "hello there fellow gophers"}}},
	"tags":    []string{"Go", "intro"},
}

func TestBlogFlow(t *testing.T) {
	s := newTestServer(t)

	alice := s.sync("alice-sub", "alice")
	assert.Equal(t, "alice", alice.Username)
	s.sync("bob-sub", "bob")

	again := s.do(http.MethodPost, "/user/sync", "alice-sub", map[string]string{"fullname": "Alice A."})
	require.Equal(t, http.StatusOK, again.Code)
	resynced := decode[SyncUserResponse](t, again)
	assert.False(t, resynced.Created)
	assert.Equal(t, "Alice A.", resynced.User.Fullname)

	rec := s.do(http.MethodPost, "/blog", "alice-sub", postBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	blogID := decode[CreateBlogPostResponse](t, rec).BlogID
	require.NotEmpty(t, blogID)

	rec = s.do(http.MethodGet, "/blog/"+blogID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[BlogPostDetailResponse](t, rec)
	assert.Equal(t, "Hello Gophers", detail.Blog.Title)
	assert.Equal(t, "alice", detail.Blog.Author.Username)
	assert.ElementsMatch(t, []string{"go", "intro"}, detail.Blog.Tags)
	assert.Equal(t, int64(1), detail.Blog.Activity.TotalReads)
	assert.Equal(t, 1, detail.Blog.Activity.ReadTimeEstimate)
	assert.NotEmpty(t, detail.Blog.Content)
	assert.False(t, detail.IsLiked)

	rec = s.do(http.MethodPost, "/blog/like/"+blogID, "bob-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	like := decode[LikeResponse](t, rec)
	assert.True(t, like.Liked)
	require.NotNil(t, like.TotalLikes)
	assert.Equal(t, int64(1), *like.TotalLikes)

	rec = s.do(http.MethodGet, "/blog/liked/"+blogID, "bob-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[LikeResponse](t, rec).Liked)

	rec = s.do(http.MethodGet, "/blog/"+blogID, "bob-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[BlogPostDetailResponse](t, rec).IsLiked)

	rec = s.do(http.MethodPost, "/blog/"+blogID+"/comments", "bob-sub", map[string]string{"content": "Nice post"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comment := decode[models.CommentNode](t, rec)
	assert.Equal(t, "bob", comment.Author.Username)

	rec = s.do(http.MethodPost, "/blog/"+blogID+"/comments", "alice-sub", map[string]string{
		"content":   "Thanks!",
		"parent_id": comment.ID.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/blog/"+blogID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tree := decode[CommentsResponse](t, rec).Comments
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "Thanks!", tree[0].Replies[0].Content)

	rec = s.do(http.MethodGet, "/notifications", "alice-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[NotificationPageResponse](t, rec)
	assert.Equal(t, int64(2), feed.Total)
	require.Len(t, feed.Notifications, 2)
	assert.Equal(t, models.NotificationNewComment, feed.Notifications[0].Type)
	assert.Equal(t, models.NotificationNewLike, feed.Notifications[1].Type)
	assert.Equal(t, "bob", feed.Notifications[0].User.Username)
	assert.Equal(t, blogID, feed.Notifications[0].Blog.BlogID)

	rec = s.do(http.MethodGet, "/notifications/unread-count", "bob-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[CountResponse](t, rec).Count)

	rec = s.do(http.MethodPost, "/notifications/"+feed.Notifications[0].ID.String()+"/read", "alice-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/notifications/read-all", "alice-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[CountResponse](t, rec).Count)

	rec = s.do(http.MethodGet, "/user/profile/alice", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[ProfileResponse](t, rec)
	assert.Equal(t, int64(1), profile.User.AccountInfo.TotalPosts)
	assert.Equal(t, int64(2), profile.User.AccountInfo.TotalReads)
	assert.Equal(t, int64(1), profile.User.AccountInfo.TotalLikes)
	require.Len(t, profile.Blogs, 1)
	assert.Empty(t, profile.Blogs[0].Content, "listings omit the body")

	rec = s.do(http.MethodGet, "/search?query=GOPHERS", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[BlogPostPageResponse](t, rec).Blogs, 1)

	rec = s.do(http.MethodGet, "/home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	home := decode[HomeResponse](t, rec)
	assert.Len(t, home.Trending, 1)
	assert.Len(t, home.PopularTags, 2)

	rec = s.do(http.MethodDelete, "/blog/"+blogID, "bob-sub", nil)
	assertError(t, rec, http.StatusForbidden, "forbidden")

	rec = s.do(http.MethodDelete, "/blog/"+blogID, "alice-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "deleted", decode[StatusResponse](t, rec).Status)

	rec = s.do(http.MethodGet, "/blog/"+blogID, "", nil)
	assertError(t, rec, http.StatusNotFound, "not_found")
}

func TestDraftsAreHidden(t *testing.T) {
	s := newTestServer(t)
	s.sync("alice-sub", "alice")

	rec := s.do(http.MethodPost, "/blog", "alice-sub", map[string]any{"title": "Unfinished", "draft": true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	blogID := decode[CreateBlogPostResponse](t, rec).BlogID

	assertError(t, s.do(http.MethodGet, "/blog/"+blogID, "", nil), http.StatusNotFound, "not_found")

	rec = s.do(http.MethodGet, "/blog/"+blogID, "alice-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/user/blogs?filter=draft", "alice-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), decode[BlogPostPageResponse](t, rec).Total)

	rec = s.do(http.MethodGet, "/blogs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[BlogPostPageResponse](t, rec).Blogs)
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/user/me", "", nil)
	assertError(t, rec, http.StatusUnauthorized, "unauthenticated")

	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assertError(t, rec, http.StatusUnauthorized, "unauthenticated")

	expired, err := s.verifier.Issue("alice-sub", -time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assertError(t, rec, http.StatusUnauthorized, "unauthenticated")

	// public routes treat a bad credential as anonymous
	req = httptest.NewRequest(http.MethodGet, "/blogs", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// a verified subject that never synced has no profile yet
	assertError(t, s.do(http.MethodGet, "/user/me", "stranger-sub", nil), http.StatusNotFound, "not_found")

	s.sync("alice-sub", "alice")
	rec = s.do(http.MethodGet, "/user/me", "alice-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[UserResponse](t, rec).Username)
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t)
	s.sync("alice-sub", "alice")

	rec := s.request(http.MethodPost, "/blog", "alice-sub", "application/json", bytes.NewBufferString(`{"title":`))
	resp := assertError(t, rec, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "payload", resp.Field)

	rec = s.do(http.MethodPost, "/blog", "alice-sub", map[string]any{"des": "no title"})
	resp = assertError(t, rec, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "title", resp.Field)

	rec = s.do(http.MethodPost, "/blog", "alice-sub", map[string]any{"title": "t", "banner": "not a url", "draft": true})
	resp = assertError(t, rec, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "banner", resp.Field)

	rec = s.do(http.MethodPost, "/blog", "alice-sub", map[string]any{"title": "t", "des": "d"})
	resp = assertError(t, rec, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "content", resp.Field)

	rec = s.do(http.MethodGet, "/blogs?page=0", "", nil)
	resp = assertError(t, rec, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "page", resp.Field)

	rec = s.do(http.MethodPut, "/comments/not-a-uuid", "alice-sub", map[string]string{"content": "x"})
	resp = assertError(t, rec, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "commentID", resp.Field)

	rec = s.do(http.MethodGet, "/search", "", nil)
	resp = assertError(t, rec, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "query", resp.Field)

	rec = s.do(http.MethodPost, "/user/sync", "bob-sub", map[string]string{"username": "alice"})
	assertError(t, rec, http.StatusConflict, "conflict")
}

func TestBlockedUsersCannotWrite(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, s.db.UserRepo().Add(ctx, &models.User{Subject: "admin-sub", Username: "admin", Role: models.RoleAdmin}))
	s.sync("bob-sub", "bob")

	assertError(t, s.do(http.MethodPost, "/admin/users/admin/block", "bob-sub", nil), http.StatusForbidden, "forbidden")

	rec := s.do(http.MethodPost, "/admin/users/bob/block", "admin-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[UserResponse](t, rec).Blocked)

	assertError(t, s.do(http.MethodPost, "/blog", "bob-sub", postBody), http.StatusForbidden, "forbidden")

	rec = s.do(http.MethodGet, "/user/me", "bob-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code, "blocked users can still read")

	rec = s.do(http.MethodDelete, "/admin/users/bob/block", "admin-sub", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/blog", "bob-sub", postBody)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUploadImage(t *testing.T) {
	s := newTestServer(t)
	s.sync("alice-sub", "alice")

	upload := func(filename string, data []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return s.request(http.MethodPost, "/upload-image", "alice-sub", mw.FormDataContentType(), &body)
	}

	rec := upload("banner.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	url := decode[UploadImageResponse](t, rec).ImageURL
	assert.Contains(t, url, "https://images.example.com/blog-images/")
	assert.Len(t, s.images.objects, 1)

	rec = upload("notes.png", []byte("plain text, not an image"))
	resp := assertError(t, rec, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "content_type", resp.Field)

	rec = s.request(http.MethodPost, "/upload-image", "alice-sub", "application/json", bytes.NewBufferString(`{}`))
	resp = assertError(t, rec, http.StatusBadRequest, "bad_request")
	assert.Equal(t, "image", resp.Field)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
