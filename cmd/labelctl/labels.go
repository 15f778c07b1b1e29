package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"labelkit/internal/core/apperror"
	"labelkit/internal/domain/labels"
)

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <identifier> <prefix>",
		Short: "Add a device identifier and assign it a serial",
		Example: `  labelctl add 356938035643809 12
  labelctl add "IMEI:35-693803-564380-9" 123`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := c.app.Labels.Add(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printRecordAdded(cmd, rec)
			return nil
		},
	}
}

func printRecordAdded(cmd *cobra.Command, rec labels.Record) {
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s  Serial: %s\n", rec.Identifier, rec.Serial)
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List records in print order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := c.app.Labels.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No devices yet.")
				return nil
			}
			for i, rec := range records {
				fmt.Fprintf(out, "%d) Serial: %s  %s\n", i+1, rec.Serial, rec.Identifier)
			}
			return nil
		},
	}
}

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <index>",
		Aliases: []string{"rm"},
		Short:   "Remove the record at the position shown by list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return apperror.NewValidation("index must be a number").WithDetail("index", args[0])
			}
			// list numbers from 1
			if err := c.app.Labels.RemoveAt(cmd.Context(), n-1); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d\n", n)
			return nil
		},
	}
}

func (c *cli) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Labels.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared")
			return nil
		},
	}
}
