package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/porch/internal/prefs"
)

func addPrefs(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change local display preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPrefs(cmd, ro, "")
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:       "get [KEY]",
		Short:     "Print one preference, or all of them",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: prefs.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			return printPrefs(cmd, ro, key)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set KEY VALUE",
		Short:     "Change one preference",
		Args:      cobra.ExactArgs(2),
		ValidArgs: prefs.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prefs.Load(ro.PrefsPath)
			if err != nil {
				return err
			}
			if err := p.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := prefs.Save(ro.PrefsPath, p); err != nil {
				return err
			}
			v, _ := p.Get(args[0])
			done(cmd.OutOrStdout(), "%s = %s", args[0], v)
			return nil
		},
	})

	topLevel.AddCommand(cmd)
}

func printPrefs(cmd *cobra.Command, ro *rootOptions, key string) error {
	p, err := prefs.Load(ro.PrefsPath)
	if err != nil {
		return err
	}
	if key != "" {
		v, err := p.Get(key)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	}
	tbl := newTable("KEY", "VALUE")
	for _, k := range prefs.Keys() {
		v, _ := p.Get(k)
		tbl.AddRow(k, v)
	}
	printTable(cmd.OutOrStdout(), tbl)
	return nil
}
