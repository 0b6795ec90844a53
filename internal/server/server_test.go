package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"gophertalk/internal/config"
	"gophertalk/internal/models"
	"gophertalk/internal/repository"
	"gophertalk/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	args := m.Called(ctx, userName)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	if u := args.Get(0); u != nil {
		return u.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPostRepository is a mock implementation of repository.PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id, requesterID uint) (*models.Post, error) {
	args := m.Called(ctx, id, requesterID)
	if p := args.Get(0); p != nil {
		return p.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	args := m.Called(ctx, filter)
	if p := args.Get(0); p != nil {
		return p.([]*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, postID, requesterID uint) error {
	args := m.Called(ctx, postID, requesterID)
	return args.Error(0)
}

func (m *MockPostRepository) AddView(ctx context.Context, postID, userID uint) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockPostRepository) AddLike(ctx context.Context, postID, userID uint) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *MockPostRepository) RemoveLike(ctx context.Context, postID, userID uint) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

// newTestServer wires a Server with mock repositories onto a fresh Fiber app.
// Metrics, tracing and the DB/Redis clients are left out.
func newTestServer(t *testing.T) (*fiber.App, *Server, *MockUserRepository, *MockPostRepository) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := &config.Config{
		Port:               "8080",
		Env:                "test",
		AccessTokenSecret:  "access-secret-for-tests-1234567890ab",
		RefreshTokenSecret: "refresh-secret-for-tests-1234567890a",
		AccessTokenTTLSec:  3600,
		RefreshTokenTTLSec: 86400,
	}

	userRepo := new(MockUserRepository)
	postRepo := new(MockPostRepository)

	s := &Server{
		config:   cfg,
		userRepo: userRepo,
		postRepo: postRepo,
	}
	s.authService = service.NewAuthService(userRepo, service.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL(),
		RefreshTTL:    cfg.RefreshTokenTTL(),
	})
	s.postService = service.NewPostService(postRepo)
	s.userService = service.NewUserService(userRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, userRepo, postRepo
}

// bearerToken issues a valid access token for userID.
func bearerToken(t *testing.T, s *Server, userID uint) string {
	t.Helper()
	pair, err := s.authService.IssueTokenPair(userID)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

// doRequest performs a JSON request against the test app.
func doRequest(t *testing.T, app *fiber.App, method, path string, body any, auth string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	app, _, _, _ := newTestServer(t)

	resp := doRequest(t, app, fiber.MethodGet, "/api/users/me", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_MalformedHeader(t *testing.T) {
	app, _, _, _ := newTestServer(t)

	for _, header := range []string{"Bearer", "Token abc", "Bearer a b"} {
		resp := doRequest(t, app, fiber.MethodGet, "/api/users/me", nil, header)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestAuthRequired_RefreshTokenRejected(t *testing.T) {
	app, s, _, _ := newTestServer(t)

	pair, err := s.authService.IssueTokenPair(1)
	require.NoError(t, err)

	// A refresh token must not open protected routes.
	resp := doRequest(t, app, fiber.MethodGet, "/api/users/me", nil, "Bearer "+pair.RefreshToken)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_WrongSecret(t *testing.T) {
	app, s, _, _ := newTestServer(t)

	other := service.NewAuthService(nil, service.TokenConfig{
		AccessSecret:  "a-completely-different-secret-value!",
		RefreshSecret: s.config.RefreshTokenSecret,
		AccessTTL:     s.config.AccessTokenTTL(),
		RefreshTTL:    s.config.RefreshTokenTTL(),
	})
	pair, err := other.IssueTokenPair(1)
	require.NoError(t, err)

	resp := doRequest(t, app, fiber.MethodGet, "/api/users/me", nil, "Bearer "+pair.AccessToken)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_ValidToken(t *testing.T) {
	app, s, userRepo, _ := newTestServer(t)

	userRepo.On("GetByID", mock.Anything, uint(1)).
		Return(&models.User{ID: 1, UserName: "alice"}, nil)

	resp := doRequest(t, app, fiber.MethodGet, "/api/users/me", nil, bearerToken(t, s, 1))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	decodeJSON(t, resp, &user)
	assert.Equal(t, "alice", user.UserName)
	userRepo.AssertExpectations(t)
}

func TestLivenessCheck(t *testing.T) {
	app, _, _, _ := newTestServer(t)

	resp := doRequest(t, app, fiber.MethodGet, "/health/live", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
