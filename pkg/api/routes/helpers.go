package routes

import (
	"github.com/buslane/buslane/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// currentUser returns the account the auth middleware resolved for this
// request.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("account_user").(*models.User)

	return user
}
