package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/porch/internal/dashboard"
)

func addSpotify(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "spotify",
		Short: "Spotify playback and linking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	transport := func(use, short, verb string, call func(dashboard.SpotifyController, context.Context) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
					if err := call(c, ctx); err != nil {
						return fmt.Errorf("%s: %s", verb, dashboard.StatusText(err))
					}
					done(cmd.OutOrStdout(), "%s", verb)
					return nil
				})
			},
		}
	}
	cmd.AddCommand(
		transport("play", "Resume playback", "playing", dashboard.SpotifyController.SpotifyPlay),
		transport("pause", "Pause playback", "paused", dashboard.SpotifyController.SpotifyPause),
		transport("next", "Skip to the next track", "skipped", dashboard.SpotifyController.SpotifyNext),
		transport("previous", "Go back one track", "went back", dashboard.SpotifyController.SpotifyPrevious),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "devices",
		Short: "List Spotify Connect devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				devices, err := c.FetchSpotifyDevices(ctx)
				if err != nil {
					return err
				}
				tbl := newTable("ID", "NAME", "TYPE", "ACTIVE", "VOLUME")
				for _, d := range devices {
					active := ""
					if d.IsActive {
						active = checked
					}
					tbl.AddRow(d.ID, d.Name, d.Type, active, strconv.Itoa(d.Volume)+"%")
				}
				printTable(cmd.OutOrStdout(), tbl)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "transfer DEVICE_ID",
		Short: "Move playback to another device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				if err := c.SpotifyTransfer(ctx, args[0]); err != nil {
					return err
				}
				done(cmd.OutOrStdout(), "playback moved to %s", args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "connect",
		Short: "Print the authorization URL to open in a browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				u, err := c.SpotifyConnectURL(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), u)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "callback REDIRECT_URL",
		Short: "Finish linking with the URL the browser was redirected to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				if err := c.SpotifyManualCallback(ctx, args[0]); err != nil {
					return err
				}
				done(cmd.OutOrStdout(), "Spotify linked")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disconnect",
		Short: "Unlink Spotify",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				if err := c.SpotifyDisconnect(ctx); err != nil {
					return err
				}
				done(cmd.OutOrStdout(), "Spotify unlinked")
				return nil
			})
		},
	})

	topLevel.AddCommand(cmd)
}
