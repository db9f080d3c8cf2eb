package seed

import (
	"fmt"
	"log"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
}

// Seed populates the database with a small social mesh: users, a follow
// graph, posts, comments, likes, and the notifications those interactions
// would have produced.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, SeedOptions{SkipBcrypt: opts.SkipBcrypt})

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("✓ %d test users created", len(users))

	follows, err := createFollowMesh(factory, users)
	if err != nil {
		return fmt.Errorf("failed to create follow graph: %w", err)
	}
	log.Printf("✓ %d follow edges created", follows)

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[factory.rand.Intn(len(users))]
		posts = append(posts, factory.BuildPost(author))
	}
	if err := factory.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	interactions, err := createInteractions(factory, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create interactions: %w", err)
	}
	log.Printf("✓ %d likes/comments created", interactions)

	log.Println("🎉 Database seeding completed!")
	return nil
}

// createFollowMesh gives every user a handful of random accounts to
// follow. Self-edges and duplicate edges are skipped.
func createFollowMesh(factory *Factory, users []*models.User) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}

	created := 0
	for _, follower := range users {
		targets := 2 + factory.rand.Intn(4)
		seen := map[uint]bool{follower.ID: true}
		for t := 0; t < targets; t++ {
			followed := users[factory.rand.Intn(len(users))]
			if seen[followed.ID] {
				continue
			}
			seen[followed.ID] = true
			if err := factory.CreateFollow(follower, followed); err != nil {
				return created, err
			}
			if err := factory.CreateNotification(followed, follower, models.VerbFollowed, nil); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// createInteractions sprinkles likes and comments across posts, emitting
// the matching notifications. Authors never get notified about their own
// activity.
func createInteractions(factory *Factory, users []*models.User, posts []*models.Post) (int, error) {
	created := 0
	for _, post := range posts {
		author := findUser(users, post.UserID)

		likers := factory.rand.Intn(4)
		seen := map[uint]bool{}
		for l := 0; l < likers; l++ {
			user := users[factory.rand.Intn(len(users))]
			if seen[user.ID] {
				continue
			}
			seen[user.ID] = true
			if err := factory.CreateLike(user, post); err != nil {
				return created, err
			}
			if author != nil && user.ID != author.ID {
				if err := factory.CreateNotification(author, user, models.VerbLiked, post); err != nil {
					return created, err
				}
			}
			created++
		}

		commenters := factory.rand.Intn(3)
		for c := 0; c < commenters; c++ {
			user := users[factory.rand.Intn(len(users))]
			if _, err := factory.CreateComment(user, post); err != nil {
				return created, err
			}
			if author != nil && user.ID != author.ID {
				if err := factory.CreateNotification(author, user, models.VerbCommented, post); err != nil {
					return created, err
				}
			}
			created++
		}
	}
	return created, nil
}

func findUser(users []*models.User, id uint) *models.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// clearData removes all seeded rows in dependency order.
func clearData(db *gorm.DB) error {
	tables := []string{"notifications", "likes", "comments", "follows", "posts", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
