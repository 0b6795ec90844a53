package repository

import (
	"context"
	"errors"

	"gophertalk/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing. Zero values mean "no restriction"
// except ReplyToID, where zero selects top-level posts only.
type PostFilter struct {
	RequesterID uint
	Limit       int
	Offset      int
	ReplyToID   uint
	OwnerID     uint
	Search      string
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, requesterID uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	Delete(ctx context.Context, postID, requesterID uint) error
	AddView(ctx context.Context, postID, userID uint) error
	AddLike(ctx context.Context, postID, userID uint) error
	RemoveLike(ctx context.Context, postID, userID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ReplyToID != nil {
		// A reply must reference a live post at creation time.
		if err := r.assertLive(ctx, *post.ReplyToID); err != nil {
			return err
		}
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, requesterID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), requesterID).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	var posts []*models.Post

	q := r.applyPostDetails(r.db.WithContext(ctx), filter.RequesterID).
		Preload("User")

	if filter.ReplyToID > 0 {
		q = q.Where("reply_to_id = ?", filter.ReplyToID)
	} else {
		q = q.Where("reply_to_id IS NULL")
	}
	if filter.OwnerID > 0 {
		q = q.Where("posts.user_id = ?", filter.OwnerID)
	}
	if filter.Search != "" {
		q = q.Where("text ILIKE ?", "%"+filter.Search+"%")
	}

	// id DESC tie-break keeps pagination deterministic for equal timestamps.
	err := q.Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, requesterID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count, " +
		"(SELECT COUNT(*) FROM views WHERE views.post_id = posts.id) as views_count"

	if requesterID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as user_liked", requesterID)
	}

	return db.Select(selectQuery + ", false as user_liked")
}

// Delete soft-deletes a post owned by requesterID. Ownership and existence
// are checked in one statement; a non-owner gets the same NotFound as a
// missing post.
func (r *postRepository) Delete(ctx context.Context, postID, requesterID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", requesterID).
		Delete(&models.Post{}, postID)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

func (r *postRepository) AddView(ctx context.Context, postID, userID uint) error {
	if err := r.assertLive(ctx, postID); err != nil {
		return err
	}
	// ON CONFLICT DO NOTHING makes concurrent duplicate views collapse to a
	// single row without application-level locking.
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO views (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	return nil
}

func (r *postRepository) AddLike(ctx context.Context, postID, userID uint) error {
	if err := r.assertLive(ctx, postID); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	return nil
}

func (r *postRepository) RemoveLike(ctx context.Context, postID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Like", postID)
	}
	return nil
}

// assertLive fails with NotFound unless a live post with the id exists.
func (r *postRepository) assertLive(ctx context.Context, postID uint) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}
