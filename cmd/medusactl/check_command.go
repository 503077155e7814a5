package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/phanxgames/medusa"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <config.toml>",
		Short: "Validate a target configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := medusa.LoadConfigFile(args[0])
			if err != nil {
				problems := multierr.Errors(errors.Cause(err))
				if len(problems) <= 1 {
					return err
				}
				stderr := cmd.ErrOrStderr()
				for _, p := range problems {
					fmt.Fprintf(stderr, "  - %v\n", p)
				}
				return errors.Errorf("%s: %d problems", args[0], len(problems))
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(cfg.Targets))
			for _, t := range cfg.Targets {
				rows = append(rows, []string{
					t.ID,
					valueOr(t.Container, "<root>"),
					t.Nodes,
					t.Mode.String(),
					formatThreshold(t.Threshold),
					valueOr(t.Offsets, "0px"),
					fmt.Sprintf("%t", t.EmitGlobal),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Container", "Nodes", "Mode", "Threshold", "Offsets", "Global"},
				rows,
			))
			fmt.Fprintf(out, "Configuration valid: %d targets, %d script steps\n", len(cfg.Targets), len(cfg.Steps))
			return nil
		},
	}
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func formatThreshold(v any) string {
	switch t := v.(type) {
	case nil:
		return "default"
	case []any:
		parts := make([]string, len(t))
		for i, x := range t {
			parts[i] = fmt.Sprint(x)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(t)
	}
}
