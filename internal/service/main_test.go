package service

import (
	"testing"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires the service layer onto an in-memory database so the
// transactional side effects (notifications, cascades) run for real.
type testEnv struct {
	db       *gorm.DB
	users    *UserService
	posts    *PostService
	comments *CommentService
	follows  *FollowService
	notifs   *NotificationService

	notifRepo repository.NotificationRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	c := cache.NewWithClient(nil)
	userRepo := repository.NewUserRepository(db, c)
	postRepo := repository.NewPostRepository(db, c)
	commentRepo := repository.NewCommentRepository(db, c)
	followRepo := repository.NewFollowRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	return &testEnv{
		db:        db,
		users:     NewUserService(userRepo),
		posts:     NewPostService(db, postRepo, notifRepo),
		comments:  NewCommentService(db, commentRepo, postRepo, notifRepo),
		follows:   NewFollowService(db, userRepo, followRepo, notifRepo),
		notifs:    NewNotificationService(notifRepo),
		notifRepo: notifRepo,
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) countNotifications(t *testing.T, recipientID uint, verb string) int64 {
	t.Helper()
	var count int64
	e.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND verb = ?", recipientID, verb).
		Count(&count)
	return count
}
