package server

import (
	"gophertalk/internal/models"
	"gophertalk/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register.
// Registration failures (duplicate name, bad payload) all answer 401 so the
// endpoint cannot be used to probe which user names exist.
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		UserName        string `json:"user_name"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewValidationError("Invalid request body"))
	}

	if req.UserName == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewValidationError("User name and password are required"))
	}
	if req.PasswordConfirm != "" && req.PasswordConfirm != req.Password {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewValidationError("Passwords do not match"))
	}

	pair, err := s.authService.Register(c.Context(), service.RegisterInput{
		UserName:  req.UserName,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code != models.CodeInternal {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusCreated).JSON(pair)
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		UserName string `json:"user_name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewValidationError("Invalid request body"))
	}

	pair, err := s.authService.Login(c.Context(), req.UserName, req.Password)
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code != models.CodeInternal {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(pair)
}

// Refresh handles POST /api/auth/refresh, exchanging a valid refresh token
// for a new token pair.
func (s *Server) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Refresh token required"))
	}

	pair, err := s.authService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, err)
	}

	return c.JSON(pair)
}
