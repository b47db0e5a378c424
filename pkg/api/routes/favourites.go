package routes

import (
	"strings"
	"time"

	"github.com/buslane/buslane/pkg/database"
	"github.com/buslane/buslane/pkg/models"
	"github.com/gofiber/fiber/v2"
)

// Favourites are strictly self-scoped: a favourite belonging to another
// user is reported as not found, never as forbidden, so ids don't leak.
func FavouritesRouter(router fiber.Router) {
	router.Get("/", listFavourites)
	router.Post("/", createFavourite)
	router.Patch("/:id", patchFavourite)
	router.Delete("/:id", deleteFavourite)
}

type favouriteItem struct {
	ID        uint      `json:"id"`
	Agency    string    `json:"agency"`
	RouteID   string    `json:"route_id"`
	Alias     string    `json:"alias"`
	CreatedAt time.Time `json:"created_at"`
}

func favouriteToItem(favourite models.Favourite) favouriteItem {
	agency := favourite.AgencyKey
	if _, bare, found := strings.Cut(favourite.AgencyKey, ":"); found {
		agency = bare
	}

	return favouriteItem{
		ID:        favourite.ID,
		Agency:    agency,
		RouteID:   favourite.RouteID,
		Alias:     favourite.Alias,
		CreatedAt: favourite.CreatedAt,
	}
}

func listFavourites(c *fiber.Ctx) error {
	user := currentUser(c)

	var favourites []models.Favourite
	database.GlobalGorm.
		Where("user_id = ?", user.ID).
		Order("id desc").
		Find(&favourites)

	items := []favouriteItem{}
	for _, favourite := range favourites {
		items = append(items, favouriteToItem(favourite))
	}

	return c.JSON(fiber.Map{
		"items": items,
		"total": len(items),
	})
}

func createFavourite(c *fiber.Ctx) error {
	user := currentUser(c)

	var requestBody struct {
		Agency  string `json:"agency" validate:"required"`
		RouteID string `json:"route_id" validate:"required"`
		Alias   string `json:"alias"`
	}
	c.BodyParser(&requestBody)

	requestBody.Agency = strings.ToUpper(strings.TrimSpace(requestBody.Agency))
	requestBody.RouteID = strings.TrimSpace(requestBody.RouteID)

	if err := validate.Struct(requestBody); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "agency and route_id required",
		})
	}

	agencyKey := "buses:" + requestBody.Agency

	// The duplicate check deliberately runs before the limit check so a
	// duplicate add at the limit still answers "already favourited"
	var existing models.Favourite
	err := database.GlobalGorm.
		Where("user_id = ? AND agency_key = ? AND route_id = ?", user.ID, agencyKey, requestBody.RouteID).
		First(&existing).Error
	if err == nil {
		c.SendStatus(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"error": "already favourited",
		})
	}

	var count int64
	database.GlobalGorm.Model(&models.Favourite{}).Where("user_id = ?", user.ID).Count(&count)
	if count >= models.FavouriteLimit {
		c.SendStatus(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"error": "favourite limit reached",
		})
	}

	favourite := models.Favourite{
		UserID:    user.ID,
		AgencyKey: agencyKey,
		RouteID:   requestBody.RouteID,
		Alias:     strings.TrimSpace(requestBody.Alias),
	}
	if err := database.GlobalGorm.Create(&favourite).Error; err != nil {
		c.SendStatus(fiber.StatusConflict)
		return c.JSON(fiber.Map{
			"error": "already favourited",
		})
	}

	c.SendStatus(fiber.StatusCreated)
	return c.JSON(favouriteToItem(favourite))
}

func findOwnedFavourite(c *fiber.Ctx) *models.Favourite {
	user := currentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return nil
	}

	var favourite models.Favourite
	if err := database.GlobalGorm.First(&favourite, id).Error; err != nil {
		return nil
	}

	if favourite.UserID != user.ID {
		return nil
	}

	return &favourite
}

func patchFavourite(c *fiber.Ctx) error {
	favourite := findOwnedFavourite(c)
	if favourite == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "not found",
		})
	}

	var requestBody struct {
		Alias *string `json:"alias" validate:"required"`
	}
	c.BodyParser(&requestBody)

	if err := validate.Struct(requestBody); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "alias required",
		})
	}

	favourite.Alias = *requestBody.Alias
	database.GlobalGorm.Save(favourite)

	return c.JSON(favouriteToItem(*favourite))
}

func deleteFavourite(c *fiber.Ctx) error {
	favourite := findOwnedFavourite(c)
	if favourite == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "not found",
		})
	}

	database.GlobalGorm.Delete(favourite)

	return c.JSON(fiber.Map{
		"status": "deleted",
	})
}
