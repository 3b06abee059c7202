package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/JCWilliams12/TaskTrack/internal/apperr"
	"github.com/JCWilliams12/TaskTrack/internal/middleware"
	"github.com/JCWilliams12/TaskTrack/internal/models"
	"github.com/JCWilliams12/TaskTrack/internal/repository"
	"github.com/JCWilliams12/TaskTrack/pkg/logger"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userResponse is the outward user projection.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID.Hex(), Username: u.Username, Email: u.Email}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Bad request", nil)
	}
	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during register", zap.Error(err))
		return apperr.Validation("Validation error", err.Error())
	}

	user, err := h.Users.Create(c.Context(), req.Username, normalizeEmail(req.Email), req.Password)
	if err != nil {
		if err == repository.ErrDuplicateUser {
			logger.SecurityLogger.Warn("Duplicate identity at registration",
				zap.String("username", req.Username),
			)
			return apperr.Conflict("Username or email already exists")
		}
		return err
	}

	tokenString, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		return err
	}

	logger.AuditLogger.Info("User registered", zap.String("user_id", user.ID.Hex()))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   tokenString,
		"user":    toUserResponse(user),
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Bad request", nil)
	}
	if err := h.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return apperr.Validation("Validation error", err.Error())
	}

	email := normalizeEmail(req.Email)
	if h.LoginThrottle != nil && !h.LoginThrottle.Allow(c.Context(), email) {
		logger.SecurityLogger.Warn("Login throttled", zap.String("email", email))
		return &apperr.Error{Status: fiber.StatusTooManyRequests, Message: "Too many login attempts"}
	}

	// One "Invalid credentials" message whether the account exists or not.
	user, err := h.Users.FindByEmail(c.Context(), email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			logger.SecurityLogger.Warn("Login failed", zap.String("email", email))
			return apperr.LoginFailed("Invalid credentials")
		}
		return err
	}
	if !repository.VerifySecret(user, req.Password) {
		logger.SecurityLogger.Warn("Login failed", zap.String("email", email))
		return apperr.LoginFailed("Invalid credentials")
	}

	if h.LoginThrottle != nil {
		h.LoginThrottle.Reset(c.Context(), email)
	}

	tokenString, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		return err
	}

	logger.AuditLogger.Info("Login success", zap.String("user_id", user.ID.Hex()))
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   tokenString,
		"user":    toUserResponse(user),
	})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{"user": toUserResponse(user)})
}
