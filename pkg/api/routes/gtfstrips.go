package routes

import (
	"strconv"
	"strings"

	"github.com/buslane/buslane/pkg/database"
	"github.com/buslane/buslane/pkg/models"
	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

type tripItem struct {
	TripID       string `json:"trip_id"`
	RouteID      string `json:"route_id"`
	ServiceID    string `json:"service_id"`
	TripHeadsign string `json:"trip_headsign"`
	DirectionID  int    `json:"direction_id"`
}

func listTrips(c *fiber.Ctx) error {
	agencyKey, err := resolveAgencyKey(c)
	if err != nil {
		return respondAgencyError(c, err)
	}

	query := database.GlobalGorm.Model(&models.Trip{}).Where("agency_key = ?", agencyKey)

	if routeID := strings.TrimSpace(c.Query("route_id")); routeID != "" {
		query = query.Where("route_id = ?", routeID)
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		clause, args := substringFilter(q, []string{"trip_id", "trip_headsign"})
		query = query.Where(clause, args...)
	}

	if raw := c.Query("direction_id"); raw != "" {
		directionID, err := strconv.Atoi(raw)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "direction_id must be int",
			})
		}
		query = query.Where("direction_id = ?", directionID)
	}

	page, pageSize := getPagination(c)

	var total int64
	query.Count(&total)

	var rows []models.Trip
	query.Order("trip_id asc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows)

	items := []tripItem{}
	copier.Copy(&items, &rows)

	return c.JSON(fiber.Map{
		"agency":    agencyKey,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     items,
	})
}
