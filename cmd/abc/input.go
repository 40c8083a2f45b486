package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/config"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/drive"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/service"
	"github.com/urfave/cli/v2"
)

// loadTables reads the three input tables from whichever source flag is set.
func loadTables(c *cli.Context, cfg *config.Config, svc *service.AnalysisService) (*domain.Tables, error) {
	ctx := c.Context

	switch {
	case c.String("workbook") != "":
		return svc.LoadFile(ctx, c.String("workbook"))

	case c.String("master") != "" || c.String("movements") != "" || c.String("requests") != "":
		if c.String("master") == "" || c.String("movements") == "" || c.String("requests") == "" {
			return nil, fmt.Errorf("--master, --movements and --requests must be given together")
		}
		return svc.LoadCSV(ctx, c.String("master"), c.String("movements"), c.String("requests"))

	case c.String("drive-file-id") != "" || c.String("drive-folder-id") != "":
		driveService, err := drive.NewServiceFromFile(ctx, cfg.Drive.CredentialsFile)
		if err != nil {
			return nil, err
		}
		downloader := drive.NewDownloader(driveService)

		var wb *drive.Workbook
		if id := c.String("drive-file-id"); id != "" {
			wb, err = downloader.FetchWorkbook(ctx, id)
		} else {
			wb, err = downloader.LatestWorkbook(ctx, c.String("drive-folder-id"))
		}
		if err != nil {
			return nil, err
		}
		return svc.Load(ctx, wb.Name, wb.Data)

	case c.String("object-key") != "":
		store, err := service.NewObjectStorage(cfg.Storage)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, fmt.Errorf("object storage is not configured (STORAGE_ENDPOINT, STORAGE_BUCKET)")
		}
		dir, err := os.MkdirTemp("", "abc-workbook-")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer os.RemoveAll(dir)

		key := c.String("object-key")
		dest := filepath.Join(dir, filepath.Base(key))
		if err := store.DownloadObject(ctx, key, dest); err != nil {
			return nil, err
		}
		return svc.LoadFile(ctx, dest)
	}

	return nil, fmt.Errorf("no input given: use --workbook, --master/--movements/--requests, --drive-file-id, --drive-folder-id or --object-key")
}
