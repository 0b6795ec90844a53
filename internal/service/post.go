package service

import (
	"context"
	"unicode/utf8"

	"gophertalk/internal/models"
	"gophertalk/internal/repository"
)

// defaultPostLimit bounds listings when the caller sends no or an oversized
// limit.
const defaultPostLimit = 100

type PostService struct {
	posts repository.PostRepository
}

type CreatePostInput struct {
	UserID    uint
	Text      string
	ReplyToID *uint
}

func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if utf8.RuneCountInString(in.Text) > models.MaxPostTextLen {
		return nil, models.NewValidationError("Text too long (max 280 characters)")
	}
	if in.ReplyToID != nil && *in.ReplyToID == 0 {
		return nil, models.NewValidationError("reply_to_id must be greater than 0")
	}

	post := &models.Post{
		Text:      in.Text,
		ReplyToID: in.ReplyToID,
		UserID:    in.UserID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	// Re-read for the computed counts and the author preload.
	return s.posts.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) ListPosts(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	if filter.Limit <= 0 || filter.Limit > defaultPostLimit {
		filter.Limit = defaultPostLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.posts.List(ctx, filter)
}

func (s *PostService) DeletePost(ctx context.Context, postID, requesterID uint) error {
	if postID == 0 {
		return models.NewValidationError("Post ID must be greater than 0")
	}
	return s.posts.Delete(ctx, postID, requesterID)
}

func (s *PostService) ViewPost(ctx context.Context, postID, userID uint) error {
	if postID == 0 {
		return models.NewValidationError("Post ID must be greater than 0")
	}
	return s.posts.AddView(ctx, postID, userID)
}

func (s *PostService) LikePost(ctx context.Context, postID, userID uint) error {
	if postID == 0 {
		return models.NewValidationError("Post ID must be greater than 0")
	}
	return s.posts.AddLike(ctx, postID, userID)
}

func (s *PostService) UnlikePost(ctx context.Context, postID, userID uint) error {
	if postID == 0 {
		return models.NewValidationError("Post ID must be greater than 0")
	}
	return s.posts.RemoveLike(ctx, postID, userID)
}
