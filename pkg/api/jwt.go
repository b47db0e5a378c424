package api

import (
	"strings"

	"github.com/buslane/buslane/pkg/api/token"
	"github.com/buslane/buslane/pkg/database"
	"github.com/buslane/buslane/pkg/models"
	"github.com/buslane/buslane/pkg/util"
	"github.com/gofiber/fiber/v2"
)

const localsUserKey = "account_user"

// RequireAuth is a middleware that checks the identity token and, when
// roles are given, gates on them. The user row is re-read on every
// request so deactivating an account bites immediately, even for tokens
// issued before the deactivation.
func RequireAuth(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")

		if authHeader == "" {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		// The Bearer prefix is optional
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		username, err := token.Verify(tokenString)
		if err != nil {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Invalid auth token",
			})
		}

		var user models.User
		err = database.GlobalGorm.Where("username = ?", username).First(&user).Error
		if err != nil {
			c.SendStatus(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Invalid auth token",
			})
		}

		if !user.Active {
			c.SendStatus(fiber.StatusForbidden)
			return c.JSON(fiber.Map{
				"error": "Account deactivated",
			})
		}

		if len(roles) > 0 && !util.ContainsString(roles, user.Role) {
			c.SendStatus(fiber.StatusForbidden)
			return c.JSON(fiber.Map{
				"error": "Forbidden",
			})
		}

		c.Locals(localsUserKey, &user)

		return c.Next()
	}
}
