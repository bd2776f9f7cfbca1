package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/porch/internal/dashboard"
)

func addStatus(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Fetch every domain once and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				tbl := newTable("DOMAIN", "STATE", "SUMMARY")
				for _, row := range statusRows(ctx, c) {
					tbl.AddRow(row.domain, row.state, row.summary)
				}
				printTable(cmd.OutOrStdout(), tbl)
				return nil
			})
		},
	}
	topLevel.AddCommand(cmd)
}

type statusRow struct {
	domain, state, summary string
}

func statusRows(ctx context.Context, c *dashboard.Client) []statusRow {
	row := func(domain string, err error, summary string) statusRow {
		if err != nil {
			return statusRow{domain, bad("error"), dashboard.StatusText(err)}
		}
		return statusRow{domain, good("ok"), summary}
	}

	var rows []statusRow

	w, err := c.FetchWeather(ctx)
	rows = append(rows, row("weather", err, fmt.Sprintf("%s%s %s", w.Temp.Format(0), w.Unit, w.Description)))

	cal, err := c.FetchCalendar(ctx)
	rows = append(rows, row("calendar", err, fmt.Sprintf("%d today, %d upcoming", len(cal.Today), len(cal.Upcoming))))

	notes, err := c.FetchNotes(ctx)
	rows = append(rows, row("notes", err, fmt.Sprintf("%d lines", len(notes.Lines()))))

	b, err := c.FetchBriefing(ctx, false)
	rows = append(rows, row("jarvis", err, truncate(b.Message, 60)))

	photos, err := c.FetchPhotos(ctx)
	rows = append(rows, row("photos", err, fmt.Sprintf("%d photos", len(photos.Photos))))

	rows = append(rows, nestRow(ctx, c), spotifyRow(ctx, c))
	return rows
}

func nestRow(ctx context.Context, c *dashboard.Client) statusRow {
	st, err := c.FetchNestStatus(ctx)
	if err != nil {
		return statusRow{"nest", bad("error"), dashboard.StatusText(err)}
	}
	if !st.Connected {
		return statusRow{"nest", warn("idle"), "not connected"}
	}
	t, err := c.FetchThermostat(ctx)
	if err != nil {
		return statusRow{"nest", bad("error"), dashboard.StatusText(err)}
	}
	return statusRow{"nest", good("ok"), fmt.Sprintf("%s°F → %s %s", t.AmbientF.Format(1), t.SetpointText(), strings.ToLower(t.HVACStatus))}
}

func spotifyRow(ctx context.Context, c *dashboard.Client) statusRow {
	st, err := c.FetchSpotifyStatus(ctx)
	switch {
	case err != nil:
		return statusRow{"spotify", bad("error"), dashboard.StatusText(err)}
	case !st.Connected:
		msg := st.Message
		if msg == "" {
			msg = "Spotify not connected"
		}
		return statusRow{"spotify", warn("idle"), msg}
	}
	np, err := c.FetchNowPlaying(ctx)
	switch code := dashboard.Code(err); {
	case code == dashboard.CodeNoDevice:
		return statusRow{"spotify", warn("idle"), dashboard.StatusText(err)}
	case err != nil:
		return statusRow{"spotify", bad("error"), dashboard.StatusText(err)}
	}
	sp := dashboard.Spotify{Status: st, NowPlaying: &np}
	if !sp.PlayerVisible() {
		return statusRow{"spotify", good("ok"), "paused"}
	}
	return statusRow{"spotify", good("ok"), fmt.Sprintf("%s · %s", np.Track.Name, np.Track.Artist)}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
