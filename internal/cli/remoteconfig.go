package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/porch/internal/dashboard"
)

func addConfig(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the backend configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				cfg, err := c.FetchConfig(ctx)
				if err != nil {
					return err
				}
				flat := flatten("", cfg, dashboard.RemoteConfig{})
				tbl := newTable("KEY", "VALUE")
				for _, k := range sortedKeys(flat) {
					tbl.AddRow(k, formatValue(flat[k]))
				}
				printTable(cmd.OutOrStdout(), tbl)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Update backend config keys",
		Long: `Update backend config keys. Dotted keys address nested sections;
the backend only changes the fields that are sent.`,
		Example: `
porch config set weather.city="Portland" weather.units=imperial
porch config set calendar.max_events=8
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update := dashboard.RemoteConfig{}
			keys := make([]string, 0, len(args))
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok || key == "" {
					return fmt.Errorf("expected KEY=VALUE, got %q", arg)
				}
				if err := setPath(update, key, parseValue(value)); err != nil {
					return err
				}
				keys = append(keys, key)
			}
			sort.Strings(keys)
			return ro.withClient(cmd, func(ctx context.Context, c *dashboard.Client) error {
				if err := c.SaveConfig(ctx, update); err != nil {
					return err
				}
				done(cmd.OutOrStdout(), "updated %s", strings.Join(keys, ", "))
				return nil
			})
		},
	})

	topLevel.AddCommand(cmd)
}

// parseValue reads numbers, booleans and JSON literals as such; anything
// else is sent as a string.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return subtle("null")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func sortedKeys(cfg dashboard.RemoteConfig) []string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// setPath stores v under a dotted key, creating nested sections.
func setPath(doc map[string]any, key string, v any) error {
	parts := strings.Split(key, ".")
	for i, part := range parts {
		if part == "" {
			return fmt.Errorf("invalid key %q", key)
		}
		if i == len(parts)-1 {
			if _, ok := doc[part].(map[string]any); ok {
				return fmt.Errorf("key %q is a section", key)
			}
			doc[part] = v
			return nil
		}
		next, ok := doc[part].(map[string]any)
		if !ok {
			if _, taken := doc[part]; taken {
				return fmt.Errorf("key %q conflicts with %q", key, strings.Join(parts[:i+1], "."))
			}
			next = map[string]any{}
			doc[part] = next
		}
		doc = next
	}
	return nil
}

// flatten turns nested sections into dotted keys for display.
func flatten(prefix string, doc map[string]any, out dashboard.RemoteConfig) dashboard.RemoteConfig {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if section, ok := v.(map[string]any); ok && len(section) > 0 {
			flatten(key, section, out)
			continue
		}
		out[key] = v
	}
	return out
}
