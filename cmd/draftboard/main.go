// Command draftboard builds multi-season player features and serves draft boards.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/internal/adapters/source"
	service "github.com/okian/draftboard/internal/app"
	"github.com/okian/draftboard/internal/config"
	"github.com/okian/draftboard/pkg/logger"
	"github.com/spf13/cobra"
)

// cli carries state shared by subcommands once the root pre-run has loaded it.
type cli struct {
	configPath string
	cfg        *config.Config
	log        logger.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	root := newRootCmd()
	root.SetContext(ctx)

	err := root.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "draftboard",
		Short:        "Multi-season fantasy football feature pipeline",
		Long:         "draftboard unifies per-season player snapshots, derives continuity, history and cohort features, and ranks and tiers players for the draft.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context(), cmd)
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file (defaults to $DRAFTBOARD_CONFIG)")

	root.AddCommand(
		buildCmd(c),
		rankCmd(c),
		tiersCmd(c),
		serveCmd(c),
	)
	return root
}

func (c *cli) setup(ctx context.Context, cmd *cobra.Command) error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFile(ctx, c.configPath)
	} else {
		c.cfg, err = config.Load(ctx)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(logger.WithFormat(c.cfg.LogFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	c.log = logger.Get()
	if err := logger.SetLevelString(c.cfg.LogLevel); err != nil {
		c.log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", c.cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// openStore opens the snapshot store, or returns a nil Store when disabled.
func (c *cli) openStore(ctx context.Context) (repository.Store, error) {
	if c.cfg.SnapshotDSN == "" {
		return nil, nil
	}
	s, err := repository.Open(ctx, c.cfg.SnapshotDSN, repository.WithLogger(c.log.Named("repository")))
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (c *cli) newService(store repository.Store) *service.Service {
	src := source.NewDir(c.cfg.SourceDir,
		source.WithPattern(c.cfg.SourcePattern),
		source.WithLogger(c.log.Named("source")),
	)
	opts := []service.Option{
		service.WithLogger(c.log.Named("service")),
		service.WithSource(src),
		service.WithThresholds(c.cfg.CohortThresholds()),
		service.WithTierRules(c.cfg.Tiers),
		service.WithColumnAliases(c.cfg.ColumnAliases),
		service.WithTargetSeason(c.cfg.TargetSeason),
		service.WithMaxLimit(c.cfg.MaxLeaderboardLimit),
	}
	if store != nil {
		opts = append(opts, service.WithStore(store))
	}
	return service.New(opts...)
}

func closeStore(ctx context.Context, log logger.Logger, s repository.Store) {
	if s == nil {
		return
	}
	if err := s.Close(); err != nil {
		log.Error(ctx, "closing snapshot store failed", logger.Error(err))
	}
}
