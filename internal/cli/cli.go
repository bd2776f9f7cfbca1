// Package cli builds the porch command tree. The root command runs the
// kiosk; subcommands are one-shot calls against the backend and the local
// preference and log files.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/porch/internal/app"
	"github.com/five82/porch/internal/config"
	"github.com/five82/porch/internal/dashboard"
)

const requestTimeout = 15 * time.Second

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	ConfigPath string
	PrefsPath  string
	APIBind    string
}

// New returns the porch root command.
func New() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "porch",
		Short:         "Terminal kiosk for the home dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: ro.ConfigPath,
				PrefsPath:  ro.PrefsPath,
				APIBind:    ro.APIBind,
			})
		},
	}

	ro.bind(cmd.PersistentFlags())

	addStatus(cmd, ro)
	addEvent(cmd, ro)
	addEvents(cmd, ro)
	addNotes(cmd, ro)
	addSpotify(cmd, ro)
	addNest(cmd, ro)
	addBriefing(cmd, ro)
	addConfig(cmd, ro)
	addPrefs(cmd, ro)
	addLogs(cmd, ro)
	return cmd
}

func (ro *rootOptions) bind(flags *pflag.FlagSet) {
	flags.StringVar(&ro.ConfigPath, "config", "", "porch config path (default ~/.config/porch/config.toml)")
	flags.StringVar(&ro.PrefsPath, "prefs", "", "display prefs path (default ~/.config/porch/prefs.toml)")
	flags.StringVar(&ro.APIBind, "api", "", "backend address, overrides api_bind")
}

// loadConfig reads the config file and applies the --api override.
func (ro *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(ro.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load porch config: %w", err)
	}
	if ro.APIBind != "" {
		cfg.APIBind = ro.APIBind
	}
	return cfg, nil
}

func (ro *rootOptions) client() (*dashboard.Client, error) {
	cfg, err := ro.loadConfig()
	if err != nil {
		return nil, err
	}
	return dashboard.NewClient(cfg.APIBind)
}

// withClient runs fn with a client and a bounded context.
func (ro *rootOptions) withClient(cmd *cobra.Command, fn func(ctx context.Context, c *dashboard.Client) error) error {
	c, err := ro.client()
	if err != nil {
		return err
	}
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, requestTimeout)
	defer cancel()
	return fn(ctx, c)
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	good    = color.New(color.FgGreen).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
	bad     = color.New(color.FgRed).SprintFunc()
	subtle  = color.New(color.FgHiBlack).SprintFunc()
	checked = good("✓")
)

func newTable(headers ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 80
	tbl.Wrap = true
	if len(headers) > 0 {
		for i, h := range headers {
			headers[i] = bold(h)
		}
		tbl.AddRow(headers...)
	}
	return tbl
}

func printTable(w io.Writer, tbl *uitable.Table) {
	_, _ = fmt.Fprintln(w, tbl)
}

func done(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", checked, fmt.Sprintf(format, args...))
}
