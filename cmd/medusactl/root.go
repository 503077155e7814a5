package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type commandContext struct {
	verbose *bool
	log     *zap.Logger
}

func newCommandContext(verbose *bool) *commandContext {
	return &commandContext{verbose: verbose}
}

// logger builds the CLI logger on first use: a development logger with
// --verbose, otherwise a no-op.
func (c *commandContext) logger() (*zap.Logger, error) {
	if c.log != nil {
		return c.log, nil
	}
	if c.verbose == nil || !*c.verbose {
		c.log = zap.NewNop()
		return c.log, nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	c.log = l
	return c.log, nil
}

func (c *commandContext) sync() {
	if c.log != nil {
		_ = c.log.Sync()
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool
	ctx := newCommandContext(&verbose)

	rootCmd := &cobra.Command{
		Use:           "medusactl",
		Short:         "Inspect and simulate medusa visibility targets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log detector lifecycle and diagnostics")

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newThresholdsCommand())
	rootCmd.AddCommand(newSimulateCommand(ctx))

	return rootCmd
}
