// backend-go/cmd/ingest/main.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bayidash/backend-go/internal/config"
	"github.com/bayidash/backend-go/internal/ingest"
	"github.com/bayidash/backend-go/internal/repository/postgres"
	"github.com/bayidash/backend-go/pkg/logger"
)

func openDB() (*postgres.DB, error) {
	cfg := config.Load()
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func runIngest(c *cli.Context) error {
	path := c.String("file")
	if path == "" {
		return fmt.Errorf("a workbook file is required")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(c.Context); err != nil {
		return err
	}

	orch := ingest.NewOrchestrator(postgres.NewIngestRepository(db))
	id, err := orch.Run(c.Context, path)
	if err != nil {
		return fmt.Errorf("ingest run %d failed: %w", id, err)
	}

	logger.Log.Info().Int64("run_id", id).Msg("workbook published")
	return nil
}

func runStatus(c *cli.Context) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := postgres.NewDealerRepository(db).Run(c.Context, c.Int64("id"))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	app := &cli.App{
		Name:  "ingest",
		Usage: "Load a back-office workbook export into the dashboard database",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Ingest a workbook and publish it on success",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the .xlsx workbook",
						Required: true,
					},
				},
				Action: runIngest,
			},
			{
				Name:  "status",
				Usage: "Show the status record of an ingestion run",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Run ID returned by the upload or run command",
						Required: true,
					},
				},
				Action: runStatus,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
