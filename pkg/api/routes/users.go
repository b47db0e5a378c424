package routes

import (
	"errors"
	"time"

	"github.com/buslane/buslane/pkg/database"
	"github.com/buslane/buslane/pkg/models"
	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// Admin-only user management. The router group carries the role gate.
func UsersRouter(router fiber.Router) {
	router.Get("/", listUsers)
	router.Post("/", createUser)
	router.Get("/:id", getUser)
	router.Patch("/:id", patchUser)
	router.Delete("/:id", deleteUser)
}

type userResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func listUsers(c *fiber.Ctx) error {
	var users []models.User
	database.GlobalGorm.Order("id asc").Find(&users)

	items := []userResponse{}
	copier.Copy(&items, &users)

	return c.JSON(items)
}

func createUser(c *fiber.Ctx) error {
	var requestBody struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
		Role     string `json:"role" validate:"required,oneof=planner commuter"`
	}
	c.BodyParser(&requestBody)

	if err := validate.Struct(requestBody); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "username, password, role(planner|commuter) required",
		})
	}

	var existing models.User
	err := database.GlobalGorm.Where("username = ?", requestBody.Username).First(&existing).Error
	if err == nil {
		c.SendStatus(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"error": "username already exists",
		})
	}

	user := models.User{
		Username: requestBody.Username,
		Role:     requestBody.Role,
		Active:   true,
	}
	if err := user.SetPassword(requestBody.Password); err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "could not hash password",
		})
	}

	if err := database.GlobalGorm.Create(&user).Error; err != nil {
		c.SendStatus(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"error": "username already exists",
		})
	}

	var item userResponse
	copier.Copy(&item, &user)

	c.SendStatus(fiber.StatusCreated)
	return c.JSON(item)
}

func findUserParam(c *fiber.Ctx) (*models.User, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := database.GlobalGorm.First(&user, id).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func getUser(c *fiber.Ctx) error {
	user, err := findUserParam(c)
	if err != nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "not found",
		})
	}

	var item userResponse
	copier.Copy(&item, user)

	return c.JSON(item)
}

func patchUser(c *fiber.Ctx) error {
	user, err := findUserParam(c)
	if err != nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "not found",
		})
	}

	var requestBody struct {
		Active *bool `json:"active" validate:"required"`
	}
	c.BodyParser(&requestBody)

	if err := validate.Struct(requestBody); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "active(boolean) required",
		})
	}

	user.Active = *requestBody.Active
	if err := database.GlobalGorm.Save(user).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "could not update user",
		})
	}

	var item userResponse
	copier.Copy(&item, user)

	return c.JSON(item)
}

func deleteUser(c *fiber.Ctx) error {
	user, err := findUserParam(c)
	if err != nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "not found",
		})
	}

	if user.Username == models.AdminUsername {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "cannot delete the built-in admin account",
		})
	}

	database.GlobalGorm.Delete(user)

	return c.JSON(fiber.Map{
		"status": "deleted",
	})
}
