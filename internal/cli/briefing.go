package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/porch/internal/dashboard"
)

func addBriefing(topLevel *cobra.Command, ro *rootOptions) {
	var force bool

	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Print the Jarvis briefing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				b, err := c.FetchBriefing(ctx, force)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if b.Message == "" {
					_, _ = fmt.Fprintln(w, subtle("no briefing ("+b.Source+")"))
					return nil
				}
				_, _ = fmt.Fprintln(w, b.Message)
				if b.GeneratedAt != "" {
					note := "generated " + b.GeneratedAt
					if b.Cached() {
						note += " (cached)"
					}
					_, _ = fmt.Fprintln(w, subtle(note))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "regenerate instead of using the cached briefing")

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether Jarvis is enabled and its model host reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				st, err := c.FetchJarvisStatus(ctx)
				if err != nil {
					return err
				}
				tbl := newTable()
				tbl.AddRow(bold("enabled"), yesNo(st.Enabled))
				tbl.AddRow(bold("host online"), yesNo(st.FerretBox.Online))
				if st.FerretBox.Error != "" {
					tbl.AddRow(bold("host error"), bad(st.FerretBox.Error))
				}
				last := st.LastBriefingTime
				if last == "" {
					last = subtle("never")
				}
				tbl.AddRow(bold("last briefing"), last)
				printTable(cmd.OutOrStdout(), tbl)
				return nil
			})
		},
	})

	topLevel.AddCommand(cmd)
}
