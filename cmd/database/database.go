package database

import (
	"context"
	"fmt"

	"boorukit/database"
	"github.com/urfave/cli/v3"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "database",
		Usage: "archive database management utility",
		Commands: []*cli.Command{
			subcmdExport(),
			subcmdMigrate(),
		},
	}
}

func subcmdExport() *cli.Command {
	var dbPath string
	var tableName string
	var csvFilePath string

	return &cli.Command{
		Name:  "export",
		Usage: "export data as CSV",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "dbpath",
				UsageText:   "<db>",
				Destination: &dbPath,
				Min:         1,
				Max:         1,
			},
			&cli.StringArg{
				Name:        "table-name",
				UsageText:   " <table>",
				Destination: &tableName,
				Min:         1,
				Max:         1,
			},
			&cli.StringArg{
				Name:        "csv-file",
				UsageText:   " <csv>",
				Destination: &csvFilePath,
				Min:         1,
				Max:         1,
			},
		},
		Action: func(_ context.Context, _ *cli.Command) error {
			model := database.GetModel(tableName)
			if model == nil {
				return fmt.Errorf("invalid table name %q", tableName)
			}

			db, err := database.Open(dbPath)
			if err != nil {
				return err
			}

			rows, err := db.Model(model).Rows()
			if err != nil {
				return fmt.Errorf("failed to make query to table %s: %s", tableName, err)
			}
			defer rows.Close()

			return database.SaveAsCSV(rows, csvFilePath)
		},
	}
}

func subcmdMigrate() *cli.Command {
	var dbPath string

	return &cli.Command{
		Name:  "migrate",
		Usage: "auto migrate database schema",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:        "dbpath",
				UsageText:   "<path>",
				Destination: &dbPath,
				Min:         1,
				Max:         1,
			},
		},
		Action: func(_ context.Context, _ *cli.Command) error {
			db, err := database.Open(dbPath)
			if err != nil {
				return err
			}

			return database.Migrate(db)
		},
	}
}
