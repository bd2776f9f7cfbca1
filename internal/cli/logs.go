package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/porch/internal/logtail"
)

const followInterval = 500 * time.Millisecond

func addLogs(topLevel *cobra.Command, ro *rootOptions) {
	var (
		lines  int
		level  string
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the porch log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.loadConfig()
			if err != nil {
				return err
			}
			level = strings.ToUpper(level)
			w := cmd.OutOrStdout()
			emit := func(line string) {
				e := logtail.Parse(line)
				if !e.AtLeast(level) {
					return
				}
				_, _ = fmt.Fprintln(w, logtail.Colorize(e))
			}

			offset, err := logtail.Size(cfg.LogPath)
			if err != nil {
				return err
			}
			recent, err := logtail.Read(cfg.LogPath, lines)
			if err != nil {
				return err
			}
			if len(recent) == 0 && !follow {
				_, _ = fmt.Fprintln(w, subtle("no log lines at "+cfg.LogPath))
				return nil
			}
			for _, line := range recent {
				emit(line)
			}
			if !follow {
				return nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				return nil
			}
			_, err = logtail.Follow(cfg.LogPath, offset, followInterval, ctx.Done(), emit)
			return err
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to show")
	cmd.Flags().StringVar(&level, "level", "", "minimum level: DEBUG, INFO or ERROR")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing new lines")

	topLevel.AddCommand(cmd)
}
