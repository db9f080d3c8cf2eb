package server

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	app := fiber.New()

	var got Pagination
	app.Get("/items", func(c *fiber.Ctx) error {
		got = parsePagination(c, 20)
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"Defaults", "", 20, 0},
		{"Explicit", "?limit=5&offset=10", 5, 10},
		{"ClampedToMax", "?limit=5000", 100, 0},
		{"NegativeLimitFallsBack", "?limit=-1", 20, 0},
		{"NegativeOffsetFallsBack", "?offset=-3", 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/items"+tc.query, nil)
			resp, err := app.Test(req)
			assert.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tc.wantLimit, got.Limit)
			assert.Equal(t, tc.wantOffset, got.Offset)
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "user ID", humanizeParam("userId"))
	assert.Equal(t, "post comment ID", humanizeParam("postCommentId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestCurrentUserID(t *testing.T) {
	app := fiber.New()

	var got uint
	app.Get("/anon", func(c *fiber.Ctx) error {
		got = currentUserID(c)
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/authed", func(c *fiber.Ctx) error {
		c.Locals("userID", uint(42))
		got = currentUserID(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/anon", nil))
	_ = resp.Body.Close()
	assert.Equal(t, uint(0), got)

	resp, _ = app.Test(httptest.NewRequest("GET", "/authed", nil))
	_ = resp.Body.Close()
	assert.Equal(t, uint(42), got)
}
