package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/ranking"
	"github.com/spf13/cobra"
)

// loadRun makes a run current: the latest snapshot when fromSnapshot is set,
// otherwise a fresh in-memory build.
func (c *cli) loadRun(ctx context.Context, fromSnapshot bool) (*service.Service, func(), error) {
	if !fromSnapshot {
		svc := c.newService(nil)
		if _, err := svc.Build(ctx); err != nil {
			return nil, nil, fmt.Errorf("build: %w", err)
		}
		return svc, func() {}, nil
	}
	store, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	done := func() { closeStore(ctx, c.log, store) }
	svc := c.newService(store)
	if _, err := svc.Restore(ctx); err != nil {
		done()
		return nil, nil, err
	}
	return svc, done, nil
}

func parsePosition(s string) (model.Role, error) {
	if s == "" {
		return model.RoleUnknown, nil
	}
	r := model.ParseRole(s)
	if !r.Known() {
		return model.RoleUnknown, fmt.Errorf("unknown position %q", s)
	}
	return r, nil
}

func rankCmd(c *cli) *cobra.Command {
	var (
		seasonLabel  string
		metric       string
		position     string
		limit        int
		nth          int
		seasons      []string
		fromSnapshot bool
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank players of one season by a column, or average the nth best value over seasons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			role, err := parsePosition(position)
			if err != nil {
				return err
			}
			svc, done, err := c.loadRun(ctx, fromSnapshot)
			if err != nil {
				return err
			}
			defer done()
			out := cmd.OutOrStdout()

			if nth > 0 {
				v, ok, err := svc.NthValue(ctx, seasons, metric, role, nth)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(out, "no season has %d ranked players\n", nth)
					return nil
				}
				fmt.Fprintf(out, "%.4f\n", v)
				return nil
			}

			entries, err := svc.Leaderboard(ctx, ranking.Query{Season: seasonLabel, Metric: metric, Role: role, Limit: limit})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tID\tNAME\tPOS\tSEASON\t"+strings.ToUpper(metricOrDefault(metric)))
			for _, e := range entries {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%.3f\n", e.Rank, e.EntityID, e.Name, e.Role, e.Season, e.Score)
			}
			return tw.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVarP(&seasonLabel, "season", "s", "", "season to rank (defaults to the target season)")
	f.StringVarP(&metric, "metric", "m", service.DefaultMetric, "column to rank by")
	f.StringVarP(&position, "position", "p", "", "restrict to GK, DEF, MID or FWD")
	f.IntVarP(&limit, "limit", "n", 20, "number of players")
	f.IntVar(&nth, "nth", 0, "print the metric of the nth ranked player averaged over --seasons")
	f.StringSliceVar(&seasons, "seasons", nil, "seasons for --nth (defaults to all)")
	f.BoolVar(&fromSnapshot, "from-snapshot", false, "read the latest stored snapshot instead of rebuilding")
	f.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func metricOrDefault(m string) string {
	if m == "" {
		return service.DefaultMetric
	}
	return m
}
