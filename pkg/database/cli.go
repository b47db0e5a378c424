package database

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "database",
		Usage: "Manage the relational database",
		Subcommands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "create or update the schema and seed the built-in accounts",
				Action: func(c *cli.Context) error {
					if err := Connect(); err != nil {
						return err
					}

					if err := Migrate(GlobalGorm); err != nil {
						return err
					}

					log.Info().Msg("Database migrated")

					return nil
				},
			},
		},
	}
}
