package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/porch/internal/dashboard"
)

func addNest(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "nest",
		Short: "Nest thermostat integration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the connection and thermostat reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				st, err := c.FetchNestStatus(ctx)
				if err != nil {
					return err
				}
				tbl := newTable()
				tbl.AddRow(bold("connected"), yesNo(st.Connected))
				tbl.AddRow(bold("configured"), yesNo(st.Configured))
				if st.Connected {
					t, err := c.FetchThermostat(ctx)
					if err != nil {
						return err
					}
					tbl.AddRow(bold("thermostat"), t.DisplayName)
					tbl.AddRow(bold("current"), t.AmbientF.Format(1)+"°F")
					tbl.AddRow(bold("setpoint"), t.SetpointText())
					tbl.AddRow(bold("humidity"), t.Humidity.Format(0)+"%")
					tbl.AddRow(bold("mode"), t.HVACMode)
					tbl.AddRow(bold("hvac"), t.HVACStatus)
					if !t.IsOnline {
						tbl.AddRow(bold("connectivity"), warn(t.Connectivity))
					}
				}
				if st.LastSuccessfulSync != "" {
					tbl.AddRow(bold("last sync"), st.LastSuccessfulSync)
				}
				if !st.Error.Empty() {
					msg := st.Error.Message
					if msg == "" {
						msg = st.Error.Code
					}
					tbl.AddRow(bold("error"), bad(msg))
				}
				printTable(cmd.OutOrStdout(), tbl)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "devices",
		Short: "List devices visible to the integration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				devices, err := c.FetchNestDevices(ctx)
				if err != nil {
					return err
				}
				tbl := newTable("ID", "NAME", "TYPE")
				for _, d := range devices {
					tbl.AddRow(d.ID(), d.Label(), d.Kind())
				}
				printTable(cmd.OutOrStdout(), tbl)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "connect",
		Short: "Print the Nest authorization URL to open in a browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				u, err := c.NestConnect(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), u)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the Nest integration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				if err := c.NestDisconnect(ctx); err != nil {
					return err
				}
				done(cmd.OutOrStdout(), "Nest disconnected")
				return nil
			})
		},
	})

	topLevel.AddCommand(cmd)
}

func yesNo(b bool) string {
	if b {
		return good("yes")
	}
	return warn("no")
}
