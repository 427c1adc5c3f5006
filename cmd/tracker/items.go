package main

import (
	"fmt"
	"strconv"
	"time"

	"timeTracker/internal/render"

	"github.com/spf13/cobra"
)

func newItemsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List items with their accumulated time",
		Args:  cobra.NoArgs,
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
			fmt.Fprint(cmd.OutOrStdout(), render.Items(views, time.Now(), opts.color))
			return nil
		},
	}
}

func newStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start ITEM",
		Short: "Start a timer on an item, stopping its running timer first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}

			svc, _, closeFn, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := svc.StartTimer(cmd.Context(), opts.userID, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "started timer %d on item %d\n", t.ID, id)
			return nil
		},
	}
}

func newStopCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stop ITEM",
		Short: "Stop the running timer of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}

			svc, _, closeFn, err := opts.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			t, err := svc.StopTimer(cmd.Context(), opts.userID, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stopped timer %d on item %d after %s\n",
				t.ID, id, render.FormatElapsed(t.Stop.Sub(t.Start)))
			return nil
		},
	}
}

func parseItemID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("неверный id задачи %q", raw)
	}
	return id, nil
}
