package main

import (
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/ytpanel/internal/bridge"
	"github.com/gauthierbraillon/ytpanel/internal/host"
	"github.com/gauthierbraillon/ytpanel/internal/logger"
	"github.com/gauthierbraillon/ytpanel/internal/mcptools"
	"github.com/gauthierbraillon/ytpanel/internal/server"
)

// newServeCmd creates the serve subcommand.
func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve panels over HTTP",
		Long:  "Run the HTTP bridge: panels open themselves, post messages and stream host-initiated messages as server-sent events. Also serves /healthz and /metrics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, nil)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			if addr == "" {
				addr = a.cfg.Addr
			}
			srv := server.New(a.newHost(), server.WithLogger(a.log), server.WithMetrics(a.metrics))
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", addr)
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8765)")
	return cmd
}

// newStdioCmd creates the stdio subcommand.
func newStdioCmd(flags *globalFlags) *cobra.Command {
	var view string
	var playDefault bool

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve one panel over JSON lines on stdin and stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, nil)
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			h := a.newHost()
			if playDefault {
				if _, err := h.OpenAndPlayDefault(host.View(view)); err != nil {
					return err
				}
			}
			b := bridge.New(h, bridge.WithLogger(a.log), bridge.WithView(host.View(view)))
			return b.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&view, "view", string(host.ViewEditor), "Panel view: editor, sidebar or explorer")
	cmd.Flags().BoolVar(&playDefault, "play-default", false, "Load the default URL as soon as the panel opens")
	return cmd
}

// newMCPCmd creates the mcp subcommand.
func newMCPCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the YouTube tools over the Model Context Protocol on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cliPrompter{w: os.Stderr})
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			a.log.Info("MCP server starting", logger.String("version", cmd.Root().Version))
			return mcptools.NewServer(cmd.Root().Version, a.orch).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
