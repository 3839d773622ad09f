package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastn-ai/fastn-community-sub000/pkg/cache"
	"github.com/fastn-ai/fastn-community-sub000/pkg/client"
	"github.com/fastn-ai/fastn-community-sub000/pkg/config"
	"github.com/fastn-ai/fastn-community-sub000/pkg/credentials"
	"github.com/fastn-ai/fastn-community-sub000/pkg/dedup"
	apperrors "github.com/fastn-ai/fastn-community-sub000/pkg/errors"
	"github.com/fastn-ai/fastn-community-sub000/pkg/fallback"
	"github.com/fastn-ai/fastn-community-sub000/pkg/logger"
	"github.com/fastn-ai/fastn-community-sub000/pkg/metrics"
	"github.com/fastn-ai/fastn-community-sub000/pkg/normalize"
	"github.com/fastn-ai/fastn-community-sub000/pkg/output"
	"github.com/fastn-ai/fastn-community-sub000/pkg/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
	refresh    bool
	offline    bool
	showStats  bool
)

// app is built once per invocation in PersistentPreRunE
var app struct {
	svc       *service.Services
	settings  config.Settings
	registry  *prometheus.Registry
	snapshots *cache.RedisSnapshots
}

var rootCmd = &cobra.Command{
	Use:   "forumctl",
	Short: "forumctl - fastn community forum client",
	Long: `forumctl reads and writes the fastn community forum from the terminal.
Reads are cached and fall back to sample data when the backend is
unreachable, so browsing keeps working offline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		logger.Init(verbose)

		if cmd.Flags().Changed("output") {
			if !output.ValidateOutputFormat(outputFmt) {
				return fmt.Errorf("invalid output format %q (use text, json or table)", outputFmt)
			}
			config.Set("output.format", outputFmt)
		}
		if offline {
			config.Set("fallback.offline", true)
		}

		return wire(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.svc != nil {
			app.svc.Wait()
		}
		if showStats && app.registry != nil {
			printStats(cmd)
		}
		if app.snapshots != nil {
			app.snapshots.Close()
		}
	},
}

func wire(ctx context.Context) error {
	settings := config.Load()
	app.settings = settings

	app.registry = prometheus.NewRegistry()
	rec := metrics.NewCollector(app.registry)

	deps := service.Deps{
		Transport: client.New(client.Options{
			SpaceID: settings.SpaceID,
			Timeout: settings.Timeout,
			Metrics: rec,
		}),
		Dedup:      dedup.New(dedup.WithMetrics(rec)),
		Normalizer: normalize.New(nil),
		Fallback:   fallback.NewProvider(),
		Session:    credentials.FileStore{},
		Cookies:    credentials.FileStore{},
		Settings:   settings,
		Metrics:    rec,
	}

	deps.Snapshots, app.snapshots = snapshotStore(ctx, settings)

	app.svc = service.New(deps)
	logger.Debug("Client wired", "base_url", settings.BaseURL, "offline", settings.Offline, "redis_snapshots", app.snapshots != nil)
	return nil
}

// snapshotStore picks Redis when configured and reachable, else an
// in-process store
func snapshotStore(ctx context.Context, settings config.Settings) (cache.SnapshotStore, *cache.RedisSnapshots) {
	if settings.RedisURL != "" {
		rc, err := cache.Connect(ctx, settings.RedisURL)
		if err == nil {
			rs := cache.NewRedisSnapshots(rc, settings.SnapshotTTL)
			return rs, rs
		}
		logger.Warn("Snapshot cache unavailable, keeping snapshots in memory", "error", err)
	}
	return cache.NewMemorySnapshots(), nil
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprint(os.Stderr, apperrors.FormatError(err))
		stop()
		os.Exit(1)
	}
}

func printer(cmd *cobra.Command) *output.Printer {
	return output.New(cmd.OutOrStdout(), output.GetOutputFormat())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/forumctl/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json, table")
	rootCmd.PersistentFlags().BoolVar(&refresh, "refresh", false, "Bypass the read cache and ask the backend again")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Serve reads and writes from local sample data only")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "Print request and cache counters after the command")

	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(replyCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}
