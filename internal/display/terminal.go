// Package display provides terminal output formatting for ytpanel.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gauthierbraillon/ytpanel/internal/intent"
	"github.com/gauthierbraillon/ytpanel/internal/message"
)

const (
	separator     = " • "
	maxTitleWidth = 60
	watchURLBase  = "https://www.youtube.com/watch?v="
	shortsURLBase = "https://www.youtube.com/shorts/"
)

// TerminalFormatter formats panel messages for terminal display.
type TerminalFormatter struct {
	now func() time.Time
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{now: time.Now}
}

// WatchURL returns the watch page of a video.
func WatchURL(videoID string) string {
	return watchURLBase + videoID
}

// ShortsURL returns the shorts player page of a video.
func ShortsURL(videoID string) string {
	return shortsURLBase + videoID
}

// FormatOutbound renders any outbound message.
func (f *TerminalFormatter) FormatOutbound(m message.Outbound) string {
	switch m := m.(type) {
	case message.APIKeyRequired:
		return "No YouTube API key configured. Run `ytpanel config set-key <key>`.\n"
	case message.PlayVideo:
		return fmt.Sprintf("Play: %s\n", WatchURL(m.VideoID))
	case message.LoadShorts:
		return f.formatShorts(m)
	case message.SearchResults:
		return f.FormatPage(m.PagedResult)
	case message.TrendingResults:
		return f.FormatPage(m.PagedResult)
	case message.NotFound:
		return fmt.Sprintf("No %s found with id %q.\n", m.Kind, m.ID)
	case message.LoadFromURL:
		return fmt.Sprintf("Load: %s\n", m.URL)
	default:
		return fmt.Sprintf("%s\n", m.Command())
	}
}

// FormatPage renders one page of results as a table, followed by the cursor
// for the next page when there is one.
func (f *TerminalFormatter) FormatPage(page message.PagedResult) string {
	if len(page.Results) == 0 {
		return "No videos to display.\n"
	}

	var b strings.Builder
	b.WriteString(f.table(page.Results, WatchURL))
	b.WriteString("\n")

	var footer []string
	if page.TotalResults != nil {
		footer = append(footer, fmt.Sprintf("about %d results", *page.TotalResults))
	}
	if page.NextPageToken != "" {
		footer = append(footer, "next page: --page-token "+page.NextPageToken)
	}
	if len(footer) > 0 {
		b.WriteString(strings.Join(footer, separator))
		b.WriteString("\n")
	}
	return b.String()
}

func (f *TerminalFormatter) formatShorts(m message.LoadShorts) string {
	if len(m.Shorts) == 0 {
		return "No shorts to display.\n"
	}
	return f.table(m.Shorts, ShortsURL) + "\n"
}

func (f *TerminalFormatter) table(videos []message.VideoSummary, link func(string) string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Title", "Channel", "Published", "Views", "URL"})
	for i, v := range videos {
		t.AppendRow(table.Row{
			i + 1,
			f.TruncateText(v.Title, maxTitleWidth),
			v.ChannelTitle,
			f.FormatTimestamp(v.PublishedAt),
			FormatViews(v.ViewCount),
			link(v.ID),
		})
	}
	return t.Render()
}

// FormatIntent renders a classified URL.
func (f *TerminalFormatter) FormatIntent(in intent.Intent) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendRow(table.Row{"kind", in.Kind.String()})

	fields := []struct{ name, value string }{
		{"query", in.Query},
		{"filters", in.Filters},
		{"video id", in.VideoID},
		{"playlist id", in.PlaylistID},
		{"channel id", in.ChannelID},
		{"channel name", in.ChannelName},
	}
	for _, field := range fields {
		if field.value != "" {
			t.AppendRow(table.Row{field.name, field.value})
		}
	}
	return t.Render() + "\n"
}

// FormatTimestamp formats a timestamp as relative time.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	diff := f.now().Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// pluralize returns "N unit ago" or "N units ago" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// FormatViews abbreviates a view count: 950, 1.2K, 3.4M, 1.1B.
func FormatViews(n *int64) string {
	if n == nil {
		return "-"
	}
	v := float64(*n)
	switch {
	case *n >= 1_000_000_000:
		return trimZero(fmt.Sprintf("%.1f", v/1e9)) + "B"
	case *n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case *n >= 1_000:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "K"
	default:
		return fmt.Sprintf("%d", *n)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}
