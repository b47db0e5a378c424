package routes

import (
	"errors"

	"github.com/buslane/buslane/pkg/database"
	"github.com/buslane/buslane/pkg/dataimporter"
	"github.com/gofiber/fiber/v2"
)

var feedSource dataimporter.FeedSource

// SetFeedSource swaps the upstream feed client, used by tests.
func SetFeedSource(source dataimporter.FeedSource) {
	feedSource = source
}

func getFeedSource() dataimporter.FeedSource {
	if feedSource == nil {
		feedSource = dataimporter.NewTransportAPISource()
	}

	return feedSource
}

// The router group carries the admin/planner gate.
func ImportRouter(router fiber.Router) {
	router.Post("/:mode/:agencyID", importAgency)
}

func importAgency(c *fiber.Ctx) error {
	mode := c.Params("mode")
	agencyID := c.Params("agencyID")

	importer := dataimporter.NewImporter(database.GlobalGorm, getFeedSource())

	result, err := importer.Import(c.Context(), mode, agencyID)
	if err != nil {
		switch {
		case errors.Is(err, dataimporter.ErrAgencyNotAllowed):
			c.SendStatus(fiber.StatusForbidden)
		case errors.Is(err, dataimporter.ErrAgencyUnknown):
			c.SendStatus(fiber.StatusNotFound)
		case errors.Is(err, dataimporter.ErrUpstreamTimeout), errors.Is(err, dataimporter.ErrUpstreamStatus):
			c.SendStatus(fiber.StatusBadGateway)
		default:
			c.SendStatus(fiber.StatusInternalServerError)
		}

		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"agency": result.AgencyKey,
		"counts": result,
	})
}
