package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/JCWilliams12/TaskTrack/internal/apperr"
	"github.com/JCWilliams12/TaskTrack/internal/models"
	"github.com/JCWilliams12/TaskTrack/internal/repository"
	"github.com/JCWilliams12/TaskTrack/internal/token"
	"github.com/JCWilliams12/TaskTrack/pkg/logger"
)

const userLocal = "user"

// RequireAuth is the authentication gate. Two checkpoints: a request without
// an extractable bearer token is rejected 401; a token that fails
// verification, or whose subject no longer resolves to a user, is rejected
// 403. On success the resolved user is attached to the request.
func RequireAuth(tokens *token.Service, users repository.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if authHeader == "" || len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return apperr.MissingCredential("Access token required")
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			logger.SecurityLogger.Warn("Token rejected",
				zap.String("url", c.OriginalURL()),
			)
			return apperr.InvalidCredential("Invalid or expired token")
		}

		// One store lookup per request; verified identities are never cached.
		user, err := users.FindByID(c.Context(), claims.UserID)
		if err != nil {
			if err == repository.ErrUserNotFound {
				logger.SecurityLogger.Warn("Token subject no longer exists",
					zap.String("user_id", claims.UserID),
				)
				return apperr.InvalidCredential("Invalid or expired token")
			}
			return err
		}

		c.Locals(userLocal, user)
		return c.Next()
	}
}

// CurrentUser returns the identity attached by RequireAuth.
func CurrentUser(c *fiber.Ctx) *models.User {
	return c.Locals(userLocal).(*models.User)
}
