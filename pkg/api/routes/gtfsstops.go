package routes

import (
	"strings"

	"github.com/buslane/buslane/pkg/database"
	"github.com/buslane/buslane/pkg/models"
	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

type stopItem struct {
	StopID   string  `json:"stop_id"`
	StopName string  `json:"stop_name"`
	StopLat  float64 `json:"stop_lat"`
	StopLon  float64 `json:"stop_lon"`
}

func listStops(c *fiber.Ctx) error {
	agencyKey, err := resolveAgencyKey(c)
	if err != nil {
		return respondAgencyError(c, err)
	}

	query := database.GlobalGorm.Model(&models.Stop{}).Where("agency_key = ?", agencyKey)

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		clause, args := substringFilter(q, []string{"stop_id", "stop_name"})
		query = query.Where(clause, args...)
	}

	page, pageSize := getPagination(c)

	var total int64
	query.Count(&total)

	var rows []models.Stop
	query.Order("stop_id asc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows)

	items := []stopItem{}
	copier.Copy(&items, &rows)

	return c.JSON(fiber.Map{
		"agency":    agencyKey,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     items,
	})
}
