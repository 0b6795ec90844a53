package server

import (
	"testing"

	"gophertalk/internal/models"
	"gophertalk/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app, s, userRepo, _ := newTestServer(t)

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 1
		}).
		Return(nil)

	resp := doRequest(t, app, fiber.MethodPost, "/api/auth/register", fiber.Map{
		"user_name":  "alice",
		"password":   "correct horse battery staple",
		"first_name": "Alice",
		"last_name":  "Anderson",
	}, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var pair service.TokenPair
	decodeJSON(t, resp, &pair)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// The issued access token opens protected routes immediately.
	uid, err := s.authService.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(1), uid)
	userRepo.AssertExpectations(t)
}

func TestRegister_DuplicateUserName(t *testing.T) {
	app, _, userRepo, _ := newTestServer(t)

	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(models.NewConflictError("User already exists"))

	// Duplicate names answer 401, same as every other registration failure,
	// so the endpoint cannot be used to enumerate user names.
	resp := doRequest(t, app, fiber.MethodPost, "/api/auth/register", fiber.Map{
		"user_name": "alice",
		"password":  "pw",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRegister_MissingFields(t *testing.T) {
	app, _, _, _ := newTestServer(t)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"No User Name", fiber.Map{"password": "pw"}},
		{"No Password", fiber.Map{"user_name": "alice"}},
		{"Password Mismatch", fiber.Map{"user_name": "alice", "password": "pw", "password_confirm": "other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, fiber.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestLogin(t *testing.T) {
	app, s, userRepo, _ := newTestServer(t)

	digest, err := s.authService.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	userRepo.On("GetByUserName", mock.Anything, "bob").
		Return(&models.User{ID: 2, UserName: "bob", PasswordHash: digest}, nil)

	resp := doRequest(t, app, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"user_name": "bob",
		"password":  "hunter2hunter2",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var pair service.TokenPair
	decodeJSON(t, resp, &pair)
	uid, err := s.authService.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(2), uid)
}

func TestLogin_WrongPassword(t *testing.T) {
	app, s, userRepo, _ := newTestServer(t)

	digest, err := s.authService.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	userRepo.On("GetByUserName", mock.Anything, "bob").
		Return(&models.User{ID: 2, UserName: "bob", PasswordHash: digest}, nil)

	resp := doRequest(t, app, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"user_name": "bob",
		"password":  "hunter2hunter3",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_UnknownUser(t *testing.T) {
	app, _, userRepo, _ := newTestServer(t)

	userRepo.On("GetByUserName", mock.Anything, "mallory").Return(nil, nil)

	resp := doRequest(t, app, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"user_name": "mallory",
		"password":  "whatever",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRefresh(t *testing.T) {
	app, s, userRepo, _ := newTestServer(t)

	pair, err := s.authService.IssueTokenPair(5)
	require.NoError(t, err)
	userRepo.On("GetByID", mock.Anything, uint(5)).
		Return(&models.User{ID: 5, UserName: "eve"}, nil)

	resp := doRequest(t, app, fiber.MethodPost, "/api/auth/refresh", fiber.Map{
		"refresh_token": pair.RefreshToken,
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh service.TokenPair
	decodeJSON(t, resp, &fresh)
	uid, err := s.authService.VerifyAccessToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(5), uid)
}

func TestRefresh_Invalid(t *testing.T) {
	app, s, _, _ := newTestServer(t)

	pair, err := s.authService.IssueTokenPair(5)
	require.NoError(t, err)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{"Empty", fiber.Map{}},
		{"Garbage", fiber.Map{"refresh_token": "not-a-token"}},
		{"Access Token", fiber.Map{"refresh_token": pair.AccessToken}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, fiber.MethodPost, "/api/auth/refresh", tt.body, "")
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRefresh_DeletedUser(t *testing.T) {
	app, s, userRepo, _ := newTestServer(t)

	pair, err := s.authService.IssueTokenPair(9)
	require.NoError(t, err)
	userRepo.On("GetByID", mock.Anything, uint(9)).
		Return(nil, models.NewNotFoundError("User", uint(9)))

	resp := doRequest(t, app, fiber.MethodPost, "/api/auth/refresh", fiber.Map{
		"refresh_token": pair.RefreshToken,
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
