package dataimporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/buslane/buslane/pkg/database"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Download & store GTFS schedule feeds",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Replace the stored feed for one agency",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Value: "buses",
						Usage: "transit mode of the agency",
					},
					&cli.StringFlag{
						Name:     "agency",
						Usage:    "provider agency id, eg. GSBC001",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := database.Migrate(database.GlobalGorm); err != nil {
						return err
					}

					importer := NewImporter(database.GlobalGorm, NewTransportAPISource())

					_, err := importer.Import(context.Background(), c.String("mode"), c.String("agency"))

					return err
				},
			},
			{
				Name:  "agencies",
				Usage: "List the agencies the importer is allowed to fetch",
				Action: func(c *cli.Context) error {
					allowList := GetAllowList()

					for _, mode := range allowList.Modes() {
						fmt.Printf("%s: %s\n", mode, strings.Join(allowList[mode], ", "))
					}

					return nil
				},
			},
		},
	}
}
