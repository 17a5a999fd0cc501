// Package main provides the ytpanel CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/ytpanel/internal/config"
	"github.com/gauthierbraillon/ytpanel/internal/host"
	"github.com/gauthierbraillon/ytpanel/internal/logger"
	"github.com/gauthierbraillon/ytpanel/internal/metrics"
	"github.com/gauthierbraillon/ytpanel/internal/panel"
	"github.com/gauthierbraillon/ytpanel/internal/youtube"
)

// version is set via ldflags at build time.
var version = "dev"

const credentialsPage = "https://console.cloud.google.com/apis/credentials"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configDir string
	logLevel  string
}

// newRootCmd creates the root command for ytpanel CLI.
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "ytpanel",
		Short:         "Browse YouTube search, videos, shorts and playlists",
		Long:          "ytpanel loads YouTube URLs, searches and trending videos through the YouTube Data API, from the terminal or for a panel over HTTP, stdio or MCP.",
		Version:       resolveVersion(version, readBuildInfo()),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv()
		},
	}

	rootCmd.SetVersionTemplate("ytpanel version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "Configuration directory (default $YTPANEL_CONFIG_DIR or ~/.config/ytpanel)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newLoadCmd(flags))
	rootCmd.AddCommand(newSearchCmd(flags))
	rootCmd.AddCommand(newTrendingCmd(flags))
	rootCmd.AddCommand(newPlayCmd(flags))
	rootCmd.AddCommand(newServeCmd(flags))
	rootCmd.AddCommand(newStdioCmd(flags))
	rootCmd.AddCommand(newMCPCmd(flags))
	rootCmd.AddCommand(newConfigCmd(flags))

	return rootCmd
}

func (f *globalFlags) dir() string {
	if f.configDir != "" {
		return f.configDir
	}
	return config.Dir()
}

// app is the wiring shared by the commands that talk to YouTube.
type app struct {
	dir      string
	cfg      *config.Config
	log      logger.Logger
	metrics  *metrics.Metrics
	registry *host.Registry
	orch     *panel.Orchestrator
}

// newApp loads configuration and builds the orchestrator. A nil prompter
// sends the API key prompt to the open panels instead.
func newApp(flags *globalFlags, prompter panel.Prompter) (*app, error) {
	dir := flags.dir()
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	log, err := logger.New(logger.Config{Level: level})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	m := metrics.New()
	registry := host.NewRegistry(host.WithMetrics(m))
	if prompter == nil {
		prompter = registry
	}

	client := youtube.NewClient(
		youtube.WithBaseURL(cfg.BaseURL),
		youtube.WithObserver(m.ObserveUpstream),
	)
	orch := panel.New(client, config.NewKeySource(dir),
		panel.WithLogger(log),
		panel.WithMetrics(m),
		panel.WithRegionCode(cfg.RegionCode),
		panel.WithPrompter(prompter),
	)

	return &app{
		dir:      dir,
		cfg:      cfg,
		log:      log,
		metrics:  m,
		registry: registry,
		orch:     orch,
	}, nil
}

// newHost connects the registry to the orchestrator. The default URL is
// re-read on every use so `config` edits apply to a running bridge.
func (a *app) newHost() *host.Host {
	return host.New(a.registry, a.orch,
		host.WithLogger(a.log),
		host.WithDefaultURL(func() (string, error) {
			cfg, err := config.Load(a.dir)
			if err != nil {
				return "", err
			}
			return cfg.DefaultURLOrError()
		}),
	)
}

// cliPrompter points the user at the key setup steps on stderr.
type cliPrompter struct {
	w io.Writer
}

func (p cliPrompter) RequestAPIKey(context.Context) {
	fmt.Fprintf(p.w, "Create a YouTube Data API key at %s\nthen run: ytpanel config set-key <key>\n", credentialsPage)
}
