package seed

import (
	"fmt"
	"math/rand"
	"time"

	"gophertalk/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts}
}

// CreateUser persists a fake user. All seeded accounts share the password
// "password123" for easy manual testing.
func (f *Factory) CreateUser() (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserName:     fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(10, 9999)),
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		PasswordHash: string(hash),
		Status:       models.UserStatusEnabled,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a fake post by the user, optionally as a reply.
func (f *Factory) CreatePost(user *models.User, replyTo *models.Post) (*models.Post, error) {
	text := gofakeit.Sentence(gofakeit.Number(3, 20))
	if len(text) > models.MaxPostTextLen {
		text = text[:models.MaxPostTextLen]
	}

	post := &models.Post{
		Text:      text,
		UserID:    user.ID,
		CreatedAt: f.spreadCreatedAt(),
	}
	if replyTo != nil {
		post.ReplyToID = &replyTo.ID
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateEngagement sprinkles likes and views across the posts. Every view of
// a liked post is also recorded, since liking implies having seen it.
func (f *Factory) CreateEngagement(users []*models.User, posts []*models.Post) (likes, views int) {
	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID {
				continue
			}
			if rand.Float64() < 0.5 {
				f.db.Exec(
					`INSERT INTO views (user_id, post_id, created_at)
					 VALUES (?, ?, NOW())
					 ON CONFLICT (user_id, post_id) DO NOTHING`,
					user.ID, post.ID,
				)
				views++
				if rand.Float64() < 0.4 {
					f.db.Exec(
						`INSERT INTO likes (user_id, post_id, created_at)
						 VALUES (?, ?, NOW())
						 ON CONFLICT (user_id, post_id) DO NOTHING`,
						user.ID, post.ID,
					)
					likes++
				}
			}
		}
	}
	return likes, views
}

// spreadCreatedAt returns a timestamp spread over the configured window so
// listings look organic.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	daysBack := rand.Intn(maxDays)
	hoursBack := rand.Intn(24)
	minsBack := rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}
