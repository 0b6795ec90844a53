// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"

	"gophertalk/internal/models"

	"gorm.io/gorm"
)

// Options controls how much demo data is generated.
type Options struct {
	Users        int
	PostsPerUser int
	// ReplyRatio is the fraction of posts created as replies to earlier posts.
	ReplyRatio float64
	// MaxDays spreads created_at timestamps over this many days in the past.
	MaxDays int
}

// DefaultOptions returns a small but realistic data set.
func DefaultOptions() Options {
	return Options{
		Users:        10,
		PostsPerUser: 8,
		ReplyRatio:   0.3,
		MaxDays:      30,
	}
}

// Run populates the database with demo users, posts, likes and views.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}

	var posts []*models.Post
	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			var replyTo *models.Post
			if len(posts) > 0 && rand.Float64() < opts.ReplyRatio {
				replyTo = posts[rand.Intn(len(posts))]
			}
			post, err := f.CreatePost(user, replyTo)
			if err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
			posts = append(posts, post)
		}
	}

	likes, views := f.CreateEngagement(users, posts)

	log.Printf("Seeded %d users, %d posts, %d likes, %d views",
		len(users), len(posts), likes, views)
	return nil
}
