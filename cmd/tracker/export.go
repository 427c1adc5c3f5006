package main

import (
	"fmt"
	"time"

	"timeTracker/internal/export"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the aggregated item list to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, closeFn, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			views, err := svc.ListItems(cmd.Context(), opts.userID)
			if err != nil {
				return err
			}
			if err := export.WriteFile(args[0], opts.userID, views, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d items to %s\n", len(views), args[0])
			return nil
		},
	}
}
