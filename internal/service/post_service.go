package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTitleLen   = 150
	maxContentLen = 50000
)

// PostService manages posts, the like registry, and feed assembly.
type PostService struct {
	db        *gorm.DB
	postRepo  repository.PostRepository
	notifRepo repository.NotificationRepository
}

// CreatePostInput carries validated fields for a new post. UserID is
// always the authenticated caller; client-supplied author fields are
// ignored upstream.
type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
}

// UpdatePostInput carries fields for a post update.
type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
}

// NewPostService returns a new PostService.
func NewPostService(db *gorm.DB, postRepo repository.PostRepository, notifRepo repository.NotificationRepository) *PostService {
	return &PostService{db: db, postRepo: postRepo, notifRepo: notifRepo}
}

// CreatePost validates input and persists a post authored by the caller.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 150 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// GetPost returns one post; Liked is computed for currentUserID.
func (s *PostService) GetPost(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

// ListPosts returns the public timeline, newest first.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

// ListUserPosts returns one author's posts, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// UpdatePost applies an author-only update.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("Only the author can update this post")
	}

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 150 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post.Title = in.Title
	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// DeletePost removes an author's post along with its comments, likes,
// and targeting notifications.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("Only the author can delete this post")
	}
	return s.postRepo.Delete(ctx, postID)
}

// LikePost records a like and notifies the post's author. The like row
// and the notification commit or roll back together; liking your own
// post emits no notification.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.WithTx(tx).Like(ctx, userID, postID); err != nil {
			return err
		}
		if post.UserID == userID {
			return nil
		}
		targetID := postID
		notification := &models.Notification{
			RecipientID:  post.UserID,
			ActorID:      userID,
			Verb:         models.VerbLiked,
			TargetPostID: &targetID,
		}
		return s.notifRepo.WithTx(tx).Create(ctx, notification)
	})
	if err != nil {
		return err
	}

	if post.UserID != userID {
		observability.NotificationsEmitted.WithLabelValues(models.VerbLiked).Inc()
	}
	return nil
}

// UnlikePost removes a like; removing an absent like is NOT_FOUND. No
// notification side effect on removal.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return err
	}
	return s.postRepo.Unlike(ctx, userID, postID)
}

// Feed returns posts authored by accounts the user follows, ordered
// created_at descending with ID descending as the stable tie-breaker.
func (s *PostService) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	ctx, span := observability.Tracer.Start(ctx, "feed.assemble")
	defer span.End()

	return s.postRepo.Feed(ctx, userID, limit, offset)
}
