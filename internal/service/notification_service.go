package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// NotificationService exposes the read side of the append-only
// notification log. Creation happens only as a side effect of other
// services; there is no client-facing create path.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// List returns the requester's notifications, newest first, optionally
// restricted to unread ones.
func (s *NotificationService) List(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	return s.notifRepo.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
}

// UnreadCount returns the number of unread notifications for the requester.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.notifRepo.CountUnread(ctx, recipientID)
}

// MarkRead flags one notification as read. Only the recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, requesterID, notificationID uint) (*models.Notification, error) {
	notification, err := s.notifRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification.RecipientID != requesterID {
		return nil, models.NewForbiddenError("Only the recipient can mark this notification read")
	}
	if err := s.notifRepo.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}
	notification.Read = true
	return notification, nil
}
