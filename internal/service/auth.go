// Package service contains the business logic layer of the application.
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gophertalk/internal/models"
	"gophertalk/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "gophertalk-api"
	tokenAudience = "gophertalk-client"
)

// TokenPair is the ephemeral credential pair handed out on login/registration.
// Neither token is persisted; each is self-contained and valid until expiry.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenConfig carries the signing material for both token types. Access and
// refresh secrets are independent so leaking one does not forge the other.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// RegisterInput is the validated payload for account registration. Password
// confirmation matching happens upstream in the HTTP validation layer.
type RegisterInput struct {
	UserName  string
	Password  string
	FirstName string
	LastName  string
}

// AuthService verifies credentials and mints token pairs. It holds no
// mutable state; every dependency arrives at construction.
type AuthService struct {
	users  repository.UserRepository
	tokens TokenConfig
}

// NewAuthService creates an AuthService backed by the given user repository.
func NewAuthService(users repository.UserRepository, tokens TokenConfig) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// HashPassword produces a one-way salted digest of the plaintext.
func (s *AuthService) HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(digest), nil
}

// CheckPassword reports whether the plaintext matches the stored digest.
func (s *AuthService) CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// Login verifies the credentials and issues a token pair. Absent user and
// wrong password produce the same Unauthorized error.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*TokenPair, error) {
	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.CheckPassword(password, user.PasswordHash) {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return s.IssueTokenPair(user.ID)
}

// Register creates the account and issues a token pair. A duplicate
// user_name among live users surfaces as Conflict from the store; the
// uniqueness constraint is the sole serialization point for races.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*TokenPair, error) {
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserName:     in.UserName,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		Status:       models.UserStatusEnabled,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.IssueTokenPair(user.ID)
}

// Refresh exchanges a valid refresh token for a fresh pair. The subject must
// still resolve to a live user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	return s.IssueTokenPair(userID)
}

// IssueTokenPair mints an access/refresh pair for the user id.
func (s *AuthService) IssueTokenPair(userID uint) (*TokenPair, error) {
	access, err := s.signToken(userID, s.tokens.AccessSecret, s.tokens.AccessTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refresh, err := s.signToken(userID, s.tokens.RefreshSecret, s.tokens.RefreshTTL)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccessToken validates an access token and returns the subject user id.
func (s *AuthService) VerifyAccessToken(token string) (uint, error) {
	return verifyToken(token, []byte(s.tokens.AccessSecret))
}

// VerifyRefreshToken validates a refresh token and returns the subject user id.
func (s *AuthService) VerifyRefreshToken(token string) (uint, error) {
	return verifyToken(token, []byte(s.tokens.RefreshSecret))
}

func (s *AuthService) signToken(userID uint, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("token secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// verifyToken parses and validates a signed token against the secret and
// returns the subject user id. Any failure collapses to Unauthorized.
func verifyToken(tokenString string, secret []byte) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return 0, models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return 0, models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}

	return uint(userID), nil
}
