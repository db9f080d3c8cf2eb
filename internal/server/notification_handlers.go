package server

import (
	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
// Supports ?unread=true to restrict the list to unread entries.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID := currentUserID(c)
	p := parsePagination(c, 50)
	unreadOnly := c.QueryBool("unread", false)

	notifications, err := s.notifService.List(c.Context(), userID, unreadOnly, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(notifications)
}

// GetUnreadNotificationCount handles GET /api/notifications/unread-count
func (s *Server) GetUnreadNotificationCount(c *fiber.Ctx) error {
	userID := currentUserID(c)

	count, err := s.notifService.UnreadCount(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// MarkNotificationRead handles POST /api/notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	userID := currentUserID(c)
	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	notification, markErr := s.notifService.MarkRead(c.Context(), userID, notificationID)
	if markErr != nil {
		return models.RespondWithAppError(c, markErr)
	}
	return c.JSON(notification)
}
