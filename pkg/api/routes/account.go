package routes

import (
	"github.com/buslane/buslane/pkg/api/token"
	"github.com/buslane/buslane/pkg/database"
	"github.com/buslane/buslane/pkg/models"
	"github.com/gofiber/fiber/v2"
)

func AuthRouter(router fiber.Router) {
	router.Post("/login", login)
}

func login(c *fiber.Ctx) error {
	var requestBody struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	c.BodyParser(&requestBody)

	if err := validate.Struct(requestBody); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "username and password are required",
		})
	}

	var user models.User
	err := database.GlobalGorm.Where("username = ?", requestBody.Username).First(&user).Error
	if err != nil || !user.CheckPassword(requestBody.Password) {
		c.SendStatus(fiber.StatusUnauthorized)
		return c.JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	signedToken, err := token.Issue(user.Username)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not issue token",
		})
	}

	return c.JSON(fiber.Map{
		"token": signedToken,
	})
}
