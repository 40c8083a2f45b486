package main

import (
	"os"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/config"
	"github.com/andresuchdata/abc-repuestos/backend-go/pkg/logger"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "workbook",
			Aliases: []string{"w"},
			Usage:   "SAP export workbook (.xlsx) with the ZMM009, MB51 and SC sheets",
			EnvVars: []string{"ABC_WORKBOOK"},
		},
		&cli.StringFlag{
			Name:  "master",
			Usage: "Master table exported as CSV (use with --movements and --requests)",
		},
		&cli.StringFlag{
			Name:  "movements",
			Usage: "Movement log exported as CSV",
		},
		&cli.StringFlag{
			Name:  "requests",
			Usage: "Purchase requests exported as CSV",
		},
		&cli.StringFlag{
			Name:    "drive-file-id",
			Usage:   "Google Drive file ID of the workbook",
			EnvVars: []string{"ABC_DRIVE_FILE_ID"},
		},
		&cli.StringFlag{
			Name:    "drive-folder-id",
			Usage:   "Google Drive folder ID; the most recently modified workbook is used",
			EnvVars: []string{"GOOGLE_DRIVE_FOLDER_ID"},
		},
		&cli.StringFlag{
			Name:  "object-key",
			Usage: "Object storage key of the workbook",
		},
	}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "unit",
			Usage:    "Owning unit (Gerencia), exact match",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "type",
			Usage:    "Material type (Tipo Material), exact match",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "area",
			Usage:    "Requesting area (Área Solicitante), exact match",
			Required: true,
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "out",
			Usage: "Write the classified materials CSV to this path",
		},
		&cli.StringFlag{
			Name:  "summary-out",
			Usage: "Write the zone summary CSV to this path",
		},
		&cli.StringFlag{
			Name:  "html",
			Usage: "Write the HTML report to this path",
		},
		&cli.BoolFlag{
			Name:  "upload",
			Usage: "Upload the classified materials CSV to object storage",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the full result as JSON instead of the summary table",
		},
	}
}

func concat(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.App.LogLevel)

	app := &cli.App{
		Name:  "abc",
		Usage: "ABC replenishment analysis of SAP spare-part exports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   cfg.App.LogLevel,
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "analyze",
				Usage:  "Select, compute replenishment needs and classify materials into A/B/C zones",
				Flags:  concat(inputFlags(), filterFlags(), outputFlags()),
				Action: func(c *cli.Context) error { return runAnalyze(c, cfg) },
			},
			{
				Name:   "options",
				Usage:  "List the owning units, material types and requesting areas found in the input",
				Flags:  inputFlags(),
				Action: func(c *cli.Context) error { return runOptions(c, cfg) },
			},
			{
				Name:   "areas",
				Usage:  "Print the known requesting areas",
				Action: runAreas,
			},
			{
				Name:   "cache-clear",
				Usage:  "Drop every cached analysis result from redis",
				Action: func(c *cli.Context) error { return runCacheClear(c, cfg) },
			},
			{
				Name:  "exports",
				Usage: "List exports uploaded to object storage",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Key prefix to list",
						Value: cfg.Storage.Prefix,
					},
				},
				Action: func(c *cli.Context) error { return runExports(c, cfg) },
			},
			{
				Name:  "drive-files",
				Usage: "List files in a Google Drive folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "folder-id",
						Usage:   "Google Drive folder ID",
						EnvVars: []string{"GOOGLE_DRIVE_FOLDER_ID"},
					},
					&cli.StringFlag{
						Name:  "folder-path",
						Usage: "Folder path from the Drive root, e.g. SAP/Exportes",
					},
				},
				Action: func(c *cli.Context) error { return runDriveFiles(c, cfg) },
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("abc failed")
	}
}
