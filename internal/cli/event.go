package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/porch/internal/dashboard"
)

func addEvent(topLevel *cobra.Command, ro *rootOptions) {
	ev := dashboard.NewEvent{}

	cmd := &cobra.Command{
		Use:   "add-event TITLE...",
		Short: "Add a calendar event",
		Example: `
porch add-event dentist --date 2026-11-03 --time 14:30
porch add-event school holiday --date 2026-12-21 --all-day
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires an event title")
			}
			ev.Title = strings.Join(args, " ")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if ev.Date == "" {
				ev.Date = time.Now().Format("2006-01-02")
			}
			if _, err := time.Parse("2006-01-02", ev.Date); err != nil {
				return errors.New("--date must be YYYY-MM-DD")
			}
			if ev.Time != "" {
				if ev.AllDay {
					return errors.New("--time and --all-day are exclusive")
				}
				if _, err := time.Parse("15:04", ev.Time); err != nil {
					return errors.New("--time must be HH:MM")
				}
			}
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				created, err := c.AddEvent(ctx, ev)
				if err != nil {
					return err
				}
				done(cmd.OutOrStdout(), "added %q on %s", ev.Title, ev.Date)
				if created.ID != "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), subtle("id "+created.ID))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&ev.Date, "date", "", "event date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&ev.Time, "time", "", "start time HH:MM")
	cmd.Flags().BoolVar(&ev.AllDay, "all-day", false, "all-day event")
	cmd.Flags().StringVar(&ev.Notes, "notes", "", "free-form notes")

	topLevel.AddCommand(cmd)
}

func addEvents(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List events added from the kiosk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				events, err := c.FetchLocalEvents(ctx)
				if err != nil {
					return err
				}
				if len(events) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), subtle("no local events"))
					return nil
				}
				tbl := newTable("ID", "DATE", "TIME", "TITLE", "NOTES")
				for _, ev := range events {
					tbl.AddRow(ev.ID, ev.DisplayDate(), ev.DisplayTime(), ev.Title, ev.Notes)
				}
				printTable(cmd.OutOrStdout(), tbl)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete EVENT_ID",
		Short: "Delete an event added from the kiosk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				if err := c.DeleteLocalEvent(ctx, args[0]); err != nil {
					return err
				}
				done(cmd.OutOrStdout(), "deleted %s", args[0])
				return nil
			})
		},
	})

	topLevel.AddCommand(cmd)
}
