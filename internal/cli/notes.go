package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/porch/internal/dashboard"
)

func addNotes(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Print the shared notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				n, err := c.FetchNotes(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if strings.TrimSpace(n.Content) == "" {
					_, _ = fmt.Fprintln(w, subtle("no notes"))
					return nil
				}
				_, _ = fmt.Fprintln(w, strings.TrimRight(n.Content, "\n"))
				if n.LastModified != "" {
					_, _ = fmt.Fprintln(w, subtle("modified "+n.LastModified))
				}
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [TEXT...]",
		Short: "Replace the shared notes",
		Long:  "Replace the shared notes with TEXT, or with standard input when TEXT is \"-\".",
		Example: `
porch notes set "milk, eggs"
printf 'milk\neggs\n' | porch notes set -
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			if content == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read notes: %w", err)
				}
				content = string(raw)
			}
			if strings.TrimSpace(content) == "" {
				return errors.New("notes are empty; use 'notes clear' to erase them")
			}
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				if err := c.SaveNotes(ctx, content); err != nil {
					return err
				}
				done(cmd.OutOrStdout(), "notes saved")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Erase the shared notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				if err := c.SaveNotes(ctx, ""); err != nil {
					return err
				}
				done(cmd.OutOrStdout(), "notes cleared")
				return nil
			})
		},
	})

	topLevel.AddCommand(cmd)
}
