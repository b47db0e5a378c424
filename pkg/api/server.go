package api

import (
	"github.com/buslane/buslane/pkg/api/routes"
	"github.com/buslane/buslane/pkg/models"
	"github.com/gofiber/fiber/v2"
)

// CreateApp wires up the whole HTTP surface. Split from SetupServer so
// tests can drive the app without a listener.
func CreateApp() *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	webApp.Get("version", routes.APIVersion)

	routes.AuthRouter(webApp.Group("/auth"))

	routes.UsersRouter(webApp.Group("/admin/users", RequireAuth(models.RoleAdmin)))

	routes.ImportRouter(webApp.Group("/gtfs/import", RequireAuth(models.RoleAdmin, models.RolePlanner)))
	routes.GTFSRouter(webApp.Group("/gtfs", RequireAuth()))

	routes.FavouritesRouter(webApp.Group("/favorites", RequireAuth()))

	routes.VizRouter(webApp.Group("/viz", RequireAuth()))

	return webApp
}

func SetupServer(listen string) error {
	return CreateApp().Listen(listen)
}
