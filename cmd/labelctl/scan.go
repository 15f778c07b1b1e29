package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"labelkit/internal/core/apperror"
	"labelkit/internal/domain/scan"
	"labelkit/internal/infrastructure/scanner"
)

func (c *cli) scanCmd() *cobra.Command {
	var (
		prefix  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Read one identifier from the scanner and optionally add it",
		Long: `Reads from the configured scanner device, then the image drop directory,
then standard input, whichever is available first. The first payload that
normalizes to a 15-digit identifier ends the scan.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backends := append(c.app.ScanBackends(), scanner.NewWedgeReader(io.NopCloser(cmd.InOrStdin())))
			backend, err := scan.Select(backends...)
			if err != nil {
				return err
			}

			opts := c.app.ScanOptions()
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = timeout
			}

			ctx := cmd.Context()
			session, err := scan.Start(ctx, backend, opts)
			if err != nil {
				return err
			}
			defer session.Stop()

			if backend.Name() == scanner.WedgeName {
				fmt.Fprintln(cmd.ErrOrStderr(), "Waiting for scan...")
			}
			identifier, err := session.Wait(ctx)
			if err != nil {
				if errors.Is(err, scan.ErrStopped) {
					return apperror.NewCaptureFailure(backend.Name(), fmt.Errorf("no identifier read within %s", opts.Timeout))
				}
				return err
			}

			if prefix == "" {
				fmt.Fprintln(cmd.OutOrStdout(), identifier)
				return nil
			}
			rec, err := c.app.Labels.Add(ctx, identifier, prefix)
			if err != nil {
				return err
			}
			printRecordAdded(cmd, rec)
			return nil
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "add the scanned identifier with this prefix code")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "give up after this long (default from config)")
	return cmd
}
