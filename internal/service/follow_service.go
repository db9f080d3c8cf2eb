// Package service implements the application's domain logic on top of
// the repository layer. Authorization decisions are explicit
// conditionals here and in the handlers, not inherited behavior.
package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// FollowService manages the directed follow graph.
type FollowService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	notifRepo  repository.NotificationRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	notifRepo repository.NotificationRepository,
) *FollowService {
	return &FollowService{
		db:         db,
		userRepo:   userRepo,
		followRepo: followRepo,
		notifRepo:  notifRepo,
	}
}

// Follow adds a directed edge from actor to target. Following yourself
// is a validation error; following someone twice is a conflict. The
// edge and the "followed" notification commit atomically.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return models.NewValidationError("Cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		follow := &models.Follow{FollowerID: actorID, FollowedID: targetID}
		if err := s.followRepo.WithTx(tx).Create(ctx, follow); err != nil {
			return err
		}
		notification := &models.Notification{
			RecipientID: targetID,
			ActorID:     actorID,
			Verb:        models.VerbFollowed,
		}
		return s.notifRepo.WithTx(tx).Create(ctx, notification)
	})
	if err != nil {
		return err
	}

	observability.NotificationsEmitted.WithLabelValues(models.VerbFollowed).Inc()
	return nil
}

// Unfollow removes the edge from actor to target. Removing an edge that
// does not exist is NOT_FOUND.
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID uint) error {
	if actorID == targetID {
		return models.NewValidationError("Cannot unfollow yourself")
	}
	return s.followRepo.Delete(ctx, actorID, targetID)
}

// IsFollowing reports whether actor currently follows target.
func (s *FollowService) IsFollowing(ctx context.Context, actorID, targetID uint) (bool, error) {
	return s.followRepo.Exists(ctx, actorID, targetID)
}

// Followers lists accounts following the given user.
func (s *FollowService) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowers(ctx, userID, limit, offset)
}

// Following lists accounts the given user follows.
func (s *FollowService) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.GetFollowing(ctx, userID, limit, offset)
}
