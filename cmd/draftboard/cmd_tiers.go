package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/okian/draftboard/internal/adapters/export"
	"github.com/spf13/cobra"
)

func tiersCmd(c *cli) *cobra.Command {
	var (
		seasonLabel  string
		xlsxPath     string
		fromSnapshot bool
	)
	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Partition a season into draft tiers with the configured rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, done, err := c.loadRun(ctx, fromSnapshot)
			if err != nil {
				return err
			}
			defer done()

			p, err := svc.Tiers(ctx, seasonLabel)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range p.Tiers {
				fmt.Fprintf(tw, "%s (%d)\n", t.Name, len(t.Records))
				for _, r := range t.Records {
					ppg := "-"
					if r.PointsPerGame != nil {
						ppg = fmt.Sprintf("%.2f", *r.PointsPerGame)
					}
					fmt.Fprintf(tw, "\t%d\t%s\t%s\t%s\n", r.EntityID.Int64, r.Name, r.Role, ppg)
				}
			}
			fmt.Fprintf(tw, "unassigned (%d)\n", len(p.Unassigned))
			if err := tw.Flush(); err != nil {
				return err
			}

			if xlsxPath != "" {
				f, err := os.Create(xlsxPath)
				if err != nil {
					return err
				}
				if err := export.WriteWorkbook(f, p); err != nil {
					_ = f.Close()
					return err
				}
				return f.Close()
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&seasonLabel, "season", "s", "", "season to tier (defaults to the target season)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the tiers workbook to this path")
	cmd.Flags().BoolVar(&fromSnapshot, "from-snapshot", false, "read the latest stored snapshot instead of rebuilding")
	return cmd
}
