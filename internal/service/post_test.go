package service

import (
	"context"
	"strings"
	"testing"

	"gophertalk/internal/models"
	"gophertalk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, uint, uint) (*models.Post, error)
	listFn       func(context.Context, repository.PostFilter) ([]*models.Post, error)
	deleteFn     func(context.Context, uint, uint) error
	addViewFn    func(context.Context, uint, uint) error
	addLikeFn    func(context.Context, uint, uint) error
	removeLikeFn func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, requesterID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, requesterID)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) Delete(ctx context.Context, postID, requesterID uint) error {
	return s.deleteFn(ctx, postID, requesterID)
}
func (s *postRepoStub) AddView(ctx context.Context, postID, userID uint) error {
	return s.addViewFn(ctx, postID, userID)
}
func (s *postRepoStub) AddLike(ctx context.Context, postID, userID uint) error {
	return s.addLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) RemoveLike(ctx context.Context, postID, userID uint) error {
	return s.removeLikeFn(ctx, postID, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		listFn:       func(_ context.Context, _ repository.PostFilter) ([]*models.Post, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _, _ uint) error { return nil },
		addViewFn:    func(_ context.Context, _, _ uint) error { return nil },
		addLikeFn:    func(_ context.Context, _, _ uint) error { return nil },
		removeLikeFn: func(_ context.Context, _, _ uint) error { return nil },
	}
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	svc := NewPostService(noopPostRepo())
	ctx := context.Background()

	zero := uint(0)
	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"Empty Text", CreatePostInput{UserID: 1, Text: ""}},
		{"Text Too Long", CreatePostInput{UserID: 1, Text: strings.Repeat("a", 281)}},
		{"Zero ReplyTo", CreatePostInput{UserID: 1, Text: "hi", ReplyToID: &zero}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.in)
			assertAppErrorCode(t, err, models.CodeValidation)
		})
	}
}

func TestPostService_CreatePost_TextLengthInCodePoints(t *testing.T) {
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 10
		return nil
	}
	svc := NewPostService(repo)

	// 280 multi-byte runes exceed 280 bytes but stay within the limit.
	text := strings.Repeat("ц", 280)
	post, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Text: text})
	require.NoError(t, err)
	assert.Equal(t, uint(10), post.ID)
}

func TestPostService_CreatePost_Reply(t *testing.T) {
	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 11
		created = post
		return nil
	}
	svc := NewPostService(repo)

	parent := uint(3)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:    1,
		Text:      "replying",
		ReplyToID: &parent,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ReplyToID)
	assert.Equal(t, uint(3), *created.ReplyToID)
}

func TestPostService_CreatePost_ReplyToMissingPost(t *testing.T) {
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, _ *models.Post) error {
		return models.NewNotFoundError("Post", 99)
	}
	svc := NewPostService(repo)

	parent := uint(99)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:    1,
		Text:      "replying to nothing",
		ReplyToID: &parent,
	})
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestPostService_ListPosts_ClampsPagination(t *testing.T) {
	repo := noopPostRepo()
	var got repository.PostFilter
	repo.listFn = func(_ context.Context, filter repository.PostFilter) ([]*models.Post, error) {
		got = filter
		return nil, nil
	}
	svc := NewPostService(repo)

	tests := []struct {
		name       string
		in         repository.PostFilter
		wantLimit  int
		wantOffset int
	}{
		{"Defaults", repository.PostFilter{}, 100, 0},
		{"Oversized Limit", repository.PostFilter{Limit: 5000}, 100, 0},
		{"Negative Offset", repository.PostFilter{Limit: 10, Offset: -5}, 10, 0},
		{"Passthrough", repository.PostFilter{Limit: 25, Offset: 50}, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListPosts(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}

func TestPostService_ZeroIDValidation(t *testing.T) {
	svc := NewPostService(noopPostRepo())
	ctx := context.Background()

	assertAppErrorCode(t, svc.DeletePost(ctx, 0, 1), models.CodeValidation)
	assertAppErrorCode(t, svc.ViewPost(ctx, 0, 1), models.CodeValidation)
	assertAppErrorCode(t, svc.LikePost(ctx, 0, 1), models.CodeValidation)
	assertAppErrorCode(t, svc.UnlikePost(ctx, 0, 1), models.CodeValidation)
}

func TestPostService_RepoErrorsPassThrough(t *testing.T) {
	repo := noopPostRepo()
	repo.deleteFn = func(_ context.Context, postID, _ uint) error {
		return models.NewNotFoundError("Post", postID)
	}
	repo.removeLikeFn = func(_ context.Context, postID, _ uint) error {
		return models.NewNotFoundError("Like", postID)
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	assertAppErrorCode(t, svc.DeletePost(ctx, 9, 1), models.CodeNotFound)
	assertAppErrorCode(t, svc.UnlikePost(ctx, 9, 1), models.CodeNotFound)
}
