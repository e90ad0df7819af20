package middleware

import (
	"runtime/debug"
	"strings"

	"lexio/config"
	"lexio/pkg/apperror"
	"lexio/pkg/apperror/status"
	"lexio/pkg/logger"
	"lexio/pkg/token"

	"github.com/gofiber/fiber/v3"
)

// ConnectionLimiter limits the number of concurrent connections
type ConnectionLimiter struct {
	limit    int
	waitlist chan struct{}
}

func NewConnectionLimiter(limit int) *ConnectionLimiter {
	return &ConnectionLimiter{
		limit:    limit,
		waitlist: make(chan struct{}, limit),
	}
}

func (cl *ConnectionLimiter) Acquire() bool {
	select {
	case cl.waitlist <- struct{}{}:
		return true
	default:
		return false
	}
}

func (cl *ConnectionLimiter) Release() {
	select {
	case <-cl.waitlist:
	default:
	}
}

// ConnectionLimit creates a middleware for connection limiting
func ConnectionLimit(limiter *ConnectionLimiter) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !limiter.Acquire() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Server is at maximum capacity")
		}
		defer limiter.Release()
		return c.Next()
	}
}

// PanicRecovery creates a middleware for panic recovery
func PanicRecovery() fiber.Handler {
	return func(c fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger.WithFields(map[string]interface{}{
					"panic":      r,
					"method":     c.Method(),
					"path":       c.Path(),
					"ip":         c.IP(),
					"user_agent": c.Get("User-Agent"),
					"stack":      string(stack),
				}).Errorf("Panic recovered")

				err := c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"detail":     "An unexpected error occurred",
					"error_code": "LX-500",
				})
				if err != nil {
					logger.WithField("error", err).Errorf("Failed to send error response")
				}
			}
		}()
		return c.Next()
	}
}

// Locals keys set by RequireAuth.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// RequireAuth validates the bearer token and stashes the caller identity in
// the request locals.
func RequireAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return apperror.Unauthorized(config.ModuleAuth, c, status.AuthTokenMissing, "Not authenticated")
		}
		claims, err := token.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return apperror.Unauthorized(config.ModuleAuth, c, status.AuthTokenInvalid, "Could not validate credentials")
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// Role returns the authenticated user role set by RequireAuth.
func Role(c fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return role
}
