package main

import (
	"fmt"

	"timeTracker/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd(opts *options) *cobra.Command {
	var owner int64

	seedCmd := &cobra.Command{
		Use:   "seed FILE",
		Short: "Load items, tags, lists and timers from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("owner") {
				fx.Owner = owner
			}

			_, repo, closeFn, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := seed.Apply(cmd.Context(), repo, fx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d items, %d timers, %d tags, %d lists\n",
				res.Items, res.Timers, res.Tags, res.Lists)
			return nil
		},
	}
	seedCmd.Flags().Int64Var(&owner, "owner", 0, "override the fixture owner")
	return seedCmd
}
