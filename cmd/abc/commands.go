package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/config"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/drive"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/pipeline/abc"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func runAnalyze(c *cli.Context, cfg *config.Config) error {
	svc, err := service.NewFromConfig(cfg, nil)
	if err != nil {
		return err
	}

	tables, err := loadTables(c, cfg, svc)
	if err != nil {
		return err
	}

	filter := domain.Filter{
		OwningUnit:     c.String("unit"),
		MaterialType:   c.String("type"),
		RequestingArea: c.String("area"),
	}
	result, err := svc.Analyze(c.Context, tables, filter)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printSummary(c.App.Writer, result)
	}

	if result.Empty() {
		// nothing to export past a halted stage
		return nil
	}

	if path := c.String("out"); path != "" || c.Bool("upload") {
		file, err := svc.Export(c.Context, result, c.Bool("upload"))
		if err != nil {
			return err
		}
		if path != "" {
			if err := os.WriteFile(path, file.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			log.Info().Str("path", path).Int("materials", len(result.Materials)).Msg("materials exported")
		}
		if c.Bool("upload") && file.Key == "" {
			log.Warn().Msg("object storage is not configured, upload skipped")
		}
	}

	if path := c.String("summary-out"); path != "" {
		if err := writeFile(path, func(w io.Writer) error { return svc.WriteSummary(w, result) }); err != nil {
			return err
		}
	}

	if path := c.String("html"); path != "" {
		if err := writeFile(path, func(w io.Writer) error { return svc.Report(w, result) }); err != nil {
			return err
		}
	}

	return nil
}

func runOptions(c *cli.Context, cfg *config.Config) error {
	svc, err := service.NewFromConfig(cfg, nil)
	if err != nil {
		return err
	}
	tables, err := loadTables(c, cfg, svc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(svc.Options(tables))
}

func runAreas(c *cli.Context) error {
	for _, area := range domain.KnownAreas {
		fmt.Fprintln(c.App.Writer, area)
	}
	return nil
}

func runCacheClear(c *cli.Context, cfg *config.Config) error {
	if !cfg.Cache.Enabled {
		return fmt.Errorf("result cache is disabled (CACHE_ENABLED=false)")
	}
	svc, err := service.NewFromConfig(cfg, nil)
	if err != nil {
		return err
	}
	if err := svc.ClearCache(c.Context); err != nil {
		return err
	}
	log.Info().Msg("result cache cleared")
	return nil
}

func runExports(c *cli.Context, cfg *config.Config) error {
	store, err := service.NewObjectStorage(cfg.Storage)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("object storage is not configured (STORAGE_ENDPOINT, STORAGE_BUCKET)")
	}

	objects, err := store.ListObjects(c.Context, c.String("prefix"))
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tBYTES")
	for _, obj := range objects {
		fmt.Fprintf(tw, "%s\t%d\n", obj.Key, obj.Size)
	}
	return tw.Flush()
}

func runDriveFiles(c *cli.Context, cfg *config.Config) error {
	driveService, err := drive.NewServiceFromFile(c.Context, cfg.Drive.CredentialsFile)
	if err != nil {
		return err
	}

	folderID := c.String("folder-id")
	if path := c.String("folder-path"); path != "" {
		folderID, err = driveService.FindFolderByPath(c.Context, path)
		if err != nil {
			return err
		}
	}

	files, err := driveService.ListFiles(c.Context, folderID)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMODIFIED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.ID, f.Name, f.ModifiedTime)
	}
	return tw.Flush()
}

func printSummary(w io.Writer, result *abc.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if result.Run != nil {
		fmt.Fprintln(tw, "STAGE\tBEFORE\tAFTER")
		for _, sc := range result.Run.Stages {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", sc.Stage, sc.Before, sc.After)
		}
		fmt.Fprintln(tw)
	}

	if result.Empty() {
		halted := ""
		if result.Run != nil {
			halted = string(result.Run.HaltedAt)
		}
		fmt.Fprintf(tw, "no materials left after stage %q\n", halted)
		_ = tw.Flush()
		return
	}

	fmt.Fprintln(tw, "ZONE\tMATERIALS\tMOVEMENTS\t% MATERIALS\t% MOVEMENTS\tCUM % MOVEMENTS")
	for _, z := range result.Summary {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
			z.Tier, z.MaterialCount, z.Movements, z.MaterialPct, z.MovementPct, z.CumulativeMovementPct)
	}
	_ = tw.Flush()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("file written")
	return nil
}
