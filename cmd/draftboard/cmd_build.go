package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/draftboard/internal/adapters/export"
	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/pkg/logger"
	"github.com/spf13/cobra"
)

const (
	enrichedFile = "enriched.csv"
	tiersFile    = "tiers.xlsx"
)

func buildCmd(c *cli) *cobra.Command {
	var (
		outDir  string
		noStore bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the pipeline, persist a snapshot and write enriched.csv and tiers.xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if outDir == "" {
				outDir = c.cfg.OutputDir
			}

			var svc *service.Service
			if noStore {
				svc = c.newService(nil)
			} else {
				store, err := c.openStore(ctx)
				if err != nil {
					return err
				}
				defer closeStore(ctx, c.log, store)
				svc = c.newService(store)
			}

			run, err := svc.Build(ctx)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}
			if err := writeOutputs(ctx, svc, outDir); err != nil {
				return err
			}
			c.log.Info(ctx, "outputs written", logger.String("dir", outDir))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s: %d records over %d seasons (target %s)\n", run.ID, len(run.Table), len(run.Seasons), run.Target)
			fmt.Fprintf(out, "%d source issues, %d records dropped for unknown position\n", run.IssueCount, run.Dropped)
			for _, is := range run.Issues {
				fmt.Fprintf(out, "  %s\n", is.Error())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (defaults to output_dir)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip persisting the snapshot")
	return cmd
}

func writeOutputs(ctx context.Context, svc *service.Service, dir string) error {
	run, err := svc.Current()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, enrichedFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", enrichedFile, err)
	}
	if err := export.WriteCSV(f, run.Table); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	p, err := svc.Tiers(ctx, "")
	if err != nil {
		return fmt.Errorf("tiers: %w", err)
	}
	x, err := os.Create(filepath.Join(dir, tiersFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", tiersFile, err)
	}
	if err := export.WriteWorkbook(x, p); err != nil {
		_ = x.Close()
		return err
	}
	return x.Close()
}
