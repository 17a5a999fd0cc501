package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/ytpanel/internal/config"
	"github.com/gauthierbraillon/ytpanel/internal/display"
	"github.com/gauthierbraillon/ytpanel/internal/intent"
	"github.com/gauthierbraillon/ytpanel/internal/message"
	"github.com/gauthierbraillon/ytpanel/pkg/browser"
)

// newClassifyCmd creates the classify subcommand.
func newClassifyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <url>",
		Short: "Show what a YouTube URL points at",
		Long:  "Classify a YouTube URL as search, video, short, playlist, channel or unknown without calling the API.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := intent.Classify(args[0])
			if asJSON {
				return printJSON(cmd, in)
			}
			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatIntent(in))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the intent as JSON")
	return cmd
}

// requestFlags are shared by the commands that send one inbound message.
type requestFlags struct {
	pageToken string
	asJSON    bool
}

func (r *requestFlags) bind(cmd *cobra.Command, paged bool) {
	if paged {
		cmd.Flags().StringVar(&r.pageToken, "page-token", "", "Cursor of the page to fetch (nextPageToken of the previous page)")
	}
	cmd.Flags().BoolVar(&r.asJSON, "json", false, "Print the panel message as JSON")
}

// newLoadCmd creates the load subcommand.
func newLoadCmd(flags *globalFlags) *cobra.Command {
	req := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "load <url>",
		Short: "Load a YouTube search, video, shorts or playlist URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, flags, req, message.LoadFromURL{URL: args[0], PageToken: req.pageToken})
		},
	}

	req.bind(cmd, true)
	return cmd
}

// newSearchCmd creates the search subcommand.
func newSearchCmd(flags *globalFlags) *cobra.Command {
	req := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search YouTube videos",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, flags, req, message.Search{Query: strings.Join(args, " "), PageToken: req.pageToken})
		},
	}

	req.bind(cmd, true)
	return cmd
}

// newTrendingCmd creates the trending subcommand.
func newTrendingCmd(flags *globalFlags) *cobra.Command {
	req := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List the most popular videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, flags, req, message.GetTrending{})
		},
	}

	req.bind(cmd, false)
	return cmd
}

func send(cmd *cobra.Command, flags *globalFlags, req *requestFlags, in message.Inbound) error {
	out, err := request(cmd, flags, in)
	if err != nil {
		return err
	}
	return render(cmd, req.asJSON, out)
}

func request(cmd *cobra.Command, flags *globalFlags, in message.Inbound) (message.Outbound, error) {
	a, err := newApp(flags, cliPrompter{w: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.log.Sync() }()

	return a.orch.Handle(cmd.Context(), in)
}

func render(cmd *cobra.Command, asJSON bool, out message.Outbound) error {
	if asJSON {
		data, err := message.Encode(out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatOutbound(out))
	return nil
}

// newPlayCmd creates the play subcommand.
func newPlayCmd(flags *globalFlags) *cobra.Command {
	var list, noBrowser bool

	cmd := &cobra.Command{
		Use:   "play [saved-name|url]",
		Short: "Play the default URL, a saved URL or any YouTube URL",
		Long:  "Resolve the default URL, a saved URL by name, or a custom URL, load it, and open the video or shorts player in the browser.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cliPrompter{w: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			if list {
				printSavedURLs(cmd, a.cfg.DefaultURL, a.cfg.SavedURLs)
				return nil
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			target, err := a.cfg.ResolveURL(name)
			if err != nil {
				return err
			}

			out, err := a.orch.Handle(cmd.Context(), message.LoadFromURL{URL: target})
			if err != nil {
				return err
			}
			if err := render(cmd, false, out); err != nil {
				return err
			}
			if noBrowser {
				return nil
			}
			if link := playerURL(out); link != "" {
				if err := browser.Open(link); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser. Please visit:\n%s\n", link)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List the default and saved URLs")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Print the result without opening the browser")
	return cmd
}

// playerURL is the page to open for a playable result.
func playerURL(out message.Outbound) string {
	switch m := out.(type) {
	case message.PlayVideo:
		return display.WatchURL(m.VideoID)
	case message.LoadShorts:
		if len(m.Shorts) > 0 {
			return display.ShortsURL(m.Shorts[m.CurrentIndex].ID)
		}
	}
	return ""
}

func printSavedURLs(cmd *cobra.Command, defaultURL string, saved []config.SavedURL) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "URL"})
	if defaultURL != "" {
		t.AppendRow(table.Row{"(default)", defaultURL})
	}
	for _, s := range saved {
		t.AppendRow(table.Row{s.Name, s.URL})
	}
	t.Render()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
