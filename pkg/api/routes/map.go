package routes

import (
	"bytes"
	"strings"

	"github.com/buslane/buslane/pkg/database"
	"github.com/buslane/buslane/pkg/dataimporter"
	"github.com/buslane/buslane/pkg/maprender"
	"github.com/buslane/buslane/pkg/models"
	"github.com/gofiber/fiber/v2"
)

func VizRouter(router fiber.Router) {
	router.Get("/map", renderMap)
}

func renderMap(c *fiber.Ctx) error {
	user := currentUser(c)

	format := strings.ToLower(c.Query("format", "png"))

	var pairs []maprender.RoutePair

	agency := strings.TrimSpace(c.Query("agency"))
	routeID := strings.TrimSpace(c.Query("route_id"))

	if agency != "" && routeID != "" {
		if !dataimporter.GetAllowList().Contains("buses", agency) {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": "unknown agency",
			})
		}

		pairs = []maprender.RoutePair{{AgencyKey: "buses:" + agency, RouteID: routeID}}
	} else {
		var favourites []models.Favourite
		database.GlobalGorm.Where("user_id = ?", user.ID).Order("id asc").Find(&favourites)

		if len(favourites) == 0 {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "no favourites found; add some via /favorites",
			})
		}

		for _, favourite := range favourites {
			pairs = append(pairs, maprender.RoutePair{
				AgencyKey: favourite.AgencyKey,
				RouteID:   favourite.RouteID,
			})
		}
	}

	series := maprender.Resolve(database.GlobalGorm, pairs)
	if len(series) == 0 {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "no shape data available for selected routes",
		})
	}

	if format == "csv" {
		var buffer bytes.Buffer
		if err := maprender.WriteCSV(&buffer, series); err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "could not build csv",
			})
		}

		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, "inline; filename=favourites.csv")

		return c.Send(buffer.Bytes())
	}

	image, err := maprender.RenderPNG(series, maprender.RenderOptions{
		Width:  c.QueryInt("width", maprender.DefaultWidth),
		Height: c.QueryInt("height", maprender.DefaultHeight),
		DPI:    c.QueryInt("dpi", maprender.DefaultDPI),
	})
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "could not render map",
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")

	return c.Send(image)
}
