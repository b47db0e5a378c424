package routes

import (
	"errors"
	"strings"

	"github.com/buslane/buslane/pkg/database"
	"github.com/buslane/buslane/pkg/dataimporter"
	"github.com/buslane/buslane/pkg/models"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultPage     = 1
	defaultPageSize = 50
	maxPageSize     = 200
)

var (
	errAgencyMissing     = errors.New("query parameter 'agency' is required")
	errAgencyNotImported = errors.New("agency not imported")
)

// getPagination clamps page to at least 1 and page_size into [1, 200].
// Unparsable values fall back to the defaults, matching the reference
// behaviour.
func getPagination(c *fiber.Ctx) (int, int) {
	page := c.QueryInt("page", defaultPage)
	pageSize := c.QueryInt("page_size", defaultPageSize)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize
}

// resolveAgencyKey turns the bare agency query parameter into the
// composite key, checking the allow-list and that the agency has
// actually been imported (at least one route row exists).
func resolveAgencyKey(c *fiber.Ctx) (string, error) {
	agency := strings.TrimSpace(c.Query("agency"))
	if agency == "" {
		return "", errAgencyMissing
	}

	if !dataimporter.GetAllowList().Contains("buses", agency) {
		return "", dataimporter.ErrAgencyUnknown
	}

	agencyKey := "buses:" + agency

	var count int64
	database.GlobalGorm.Model(&models.Route{}).Where("agency_key = ?", agencyKey).Count(&count)
	if count == 0 {
		return "", errAgencyNotImported
	}

	return agencyKey, nil
}

func respondAgencyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errAgencyMissing):
		c.SendStatus(fiber.StatusBadRequest)
	case errors.Is(err, errAgencyNotImported), errors.Is(err, dataimporter.ErrAgencyUnknown):
		c.SendStatus(fiber.StatusNotFound)
	default:
		c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}

// substringFilter builds a case-insensitive substring match ORed over
// the given columns.
func substringFilter(q string, columns []string) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	pattern := "%" + strings.ToLower(q) + "%"
	for _, column := range columns {
		clauses = append(clauses, "LOWER("+column+") LIKE ?")
		args = append(args, pattern)
	}

	return strings.Join(clauses, " OR "), args
}
