package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := currentUserID(c)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if followErr := s.followService.Follow(c.Context(), userID, targetID); followErr != nil {
		return models.RespondWithAppError(c, followErr)
	}

	return c.JSON(fiber.Map{
		"message":   "Now following user",
		"following": true,
		"user_id":   targetID,
	})
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := currentUserID(c)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if unfollowErr := s.followService.Unfollow(c.Context(), userID, targetID); unfollowErr != nil {
		return models.RespondWithAppError(c, unfollowErr)
	}

	return c.JSON(fiber.Map{
		"message":   "Unfollowed user",
		"following": false,
		"user_id":   targetID,
	})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	users, listErr := s.followService.Followers(c.Context(), id, p.Limit, p.Offset)
	if listErr != nil {
		return models.RespondWithAppError(c, listErr)
	}
	return c.JSON(users)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	users, listErr := s.followService.Following(c.Context(), id, p.Limit, p.Offset)
	if listErr != nil {
		return models.RespondWithAppError(c, listErr)
	}
	return c.JSON(users)
}
