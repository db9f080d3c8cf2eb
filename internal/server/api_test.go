package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/cache"
	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires the full route table onto an in-memory database.
// The Prometheus middleware is left out so repeated setups do not fight
// over the default metrics registry.
func newTestServer(t *testing.T) (*fiber.App, *Server) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	c := cache.NewWithClient(nil)
	userRepo := repository.NewUserRepository(db, c)
	postRepo := repository.NewPostRepository(db, c)
	commentRepo := repository.NewCommentRepository(db, c)
	followRepo := repository.NewFollowRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	s := &Server{
		config:         &config.Config{JWTSecret: "integration-test-secret"},
		db:             db,
		cache:          c,
		userRepo:       userRepo,
		postRepo:       postRepo,
		followRepo:     followRepo,
		userService:    service.NewUserService(userRepo),
		postService:    service.NewPostService(db, postRepo, notifRepo),
		commentService: service.NewCommentService(db, commentRepo, postRepo, notifRepo),
		followService:  service.NewFollowService(db, userRepo, followRepo, notifRepo),
		notifService:   service.NewNotificationService(notifRepo),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	data, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if len(data) > 0 {
		_ = json.Unmarshal(data, &parsed)
	}
	return resp, parsed
}

func doJSONList(t *testing.T, app *fiber.App, path, token string) (*http.Response, []map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed []map[string]interface{}
	data, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	_ = json.Unmarshal(data, &parsed)
	return resp, parsed
}

func signupUser(t *testing.T, app *fiber.App, username string) (token string, userID uint) {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Password1234",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token = body["token"].(string)
	user := body["user"].(map[string]interface{})
	return token, uint(user["id"].(float64))
}

func TestSocialFlow(t *testing.T) {
	app, _ := newTestServer(t)

	aliceToken, aliceID := signupUser(t, app, "alice")
	bobToken, bobID := signupUser(t, app, "bob")

	var bobPostID uint

	t.Run("CreatePostRequiresAuth", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/posts", "", map[string]string{
			"title": "x", "content": "y",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("BobCreatesPost", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/posts", bobToken, map[string]string{
			"title":   "Bob's first",
			"content": "Hello from bob",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, float64(bobID), body["user_id"])
		bobPostID = uint(body["id"].(float64))
	})

	t.Run("AliceFollowsBob", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", bobID), aliceToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("RefollowIsConflict", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", bobID), aliceToken, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("SelfFollowIsBadRequest", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", aliceID), aliceToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("AliceFeedShowsBobsPost", func(t *testing.T) {
		resp, feed := doJSONList(t, app, "/api/feed", aliceToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, feed, 1)
		assert.Equal(t, "Bob's first", feed[0]["title"])
	})

	t.Run("BobFeedIsEmpty", func(t *testing.T) {
		resp, feed := doJSONList(t, app, "/api/feed", bobToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, feed)
	})

	t.Run("AliceLikesBobsPost", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", bobPostID), aliceToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", bobPostID), aliceToken, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("AliceCommentsOnBobsPost", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", bobPostID), aliceToken, map[string]string{
			"content": "Nice one",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		listResp, comments := doJSONList(t, app, fmt.Sprintf("/api/posts/%d/comments", bobPostID), "")
		require.Equal(t, http.StatusOK, listResp.StatusCode)
		assert.Len(t, comments, 1)
	})

	t.Run("BobSeesNotifications", func(t *testing.T) {
		resp, notifications := doJSONList(t, app, "/api/notifications", bobToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		// followed + liked + commented
		require.Len(t, notifications, 3)

		countResp, count := doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", bobToken, nil)
		require.Equal(t, http.StatusOK, countResp.StatusCode)
		assert.Equal(t, float64(3), count["unread"])
	})

	t.Run("MarkNotificationRead", func(t *testing.T) {
		_, notifications := doJSONList(t, app, "/api/notifications", bobToken)
		require.NotEmpty(t, notifications)
		notifID := uint(notifications[0]["id"].(float64))

		// Only the recipient may mark it read.
		resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", notifID), aliceToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", notifID), bobToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["read"])

		_, count := doJSON(t, app, http.MethodGet, "/api/notifications/unread-count", bobToken, nil)
		assert.Equal(t, float64(2), count["unread"])
	})

	t.Run("AliceLikingOwnActivityNeverNotifiedBob", func(t *testing.T) {
		resp, notifications := doJSONList(t, app, "/api/notifications", aliceToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, notifications)
	})

	t.Run("NonAuthorCannotUpdatePost", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d", bobPostID), aliceToken, map[string]string{
			"title": "Hijacked", "content": "x",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("ProfileCounts", func(t *testing.T) {
		resp, profile := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", bobID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), profile["followers_count"])
		assert.Equal(t, float64(0), profile["following_count"])
	})

	t.Run("BobDeletesPost", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", bobPostID), bobToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		feedResp, feed := doJSONList(t, app, "/api/feed", aliceToken)
		require.Equal(t, http.StatusOK, feedResp.StatusCode)
		assert.Empty(t, feed)

		getResp, _ := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", bobPostID), "", nil)
		assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	})

	t.Run("Unfollow", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d/follow", bobID), aliceToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d/follow", bobID), aliceToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("InvalidIDParam", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/posts/notanumber", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPut, "/api/users/me", aliceToken, map[string]string{
			"bio": "hello world",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "hello world", body["bio"])
	})
}
