package routes

import (
	"strconv"
	"strings"

	"github.com/buslane/buslane/pkg/database"
	"github.com/buslane/buslane/pkg/models"
	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func GTFSRouter(router fiber.Router) {
	router.Get("/routes", listRoutes)
	router.Get("/stops", listStops)
	router.Get("/trips", listTrips)
}

type routeItem struct {
	RouteID        string `json:"route_id"`
	RouteShortName string `json:"route_short_name"`
	RouteLongName  string `json:"route_long_name"`
	RouteType      int    `json:"route_type"`
}

func listRoutes(c *fiber.Ctx) error {
	agencyKey, err := resolveAgencyKey(c)
	if err != nil {
		return respondAgencyError(c, err)
	}

	query := database.GlobalGorm.Model(&models.Route{}).Where("agency_key = ?", agencyKey)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		clause, args := substringFilter(q, []string{"route_id", "route_short_name", "route_long_name"})
		query = query.Where(clause, args...)
	}

	if raw := c.Query("route_type"); raw != "" {
		routeType, err := strconv.Atoi(raw)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "route_type must be int",
			})
		}
		query = query.Where("route_type = ?", routeType)
	}

	page, pageSize := getPagination(c)

	var total int64
	query.Count(&total)

	var rows []models.Route
	query.Order("route_id asc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows)

	items := []routeItem{}
	copier.Copy(&items, &rows)

	return c.JSON(fiber.Map{
		"agency":    agencyKey,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     items,
	})
}
