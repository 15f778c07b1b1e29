package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"labelkit/internal/domain/labels"
	"labelkit/internal/domain/layout"
	"labelkit/internal/infrastructure/pdf"
	"labelkit/internal/infrastructure/storage/file"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		output string
		filter string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the records as a printable PDF",
		Example: `  labelctl export -o batch.pdf
  labelctl export --filter 'prefix == "12"'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := labels.CompileFilter(filter)
			if err != nil {
				return err
			}
			records, err := c.app.Labels.Select(ctx, f)
			if err != nil {
				return err
			}

			geometry := c.cfg.Geometry()
			var buf bytes.Buffer
			writer, err := pdf.NewWriter(&buf, geometry, pdf.WithTitle("Labels"))
			if err != nil {
				return err
			}
			summary, err := c.app.Renderer.Render(ctx, records, geometry, writer, c.app.Barcodes)
			if err != nil {
				return err
			}

			if err := file.WriteAtomic(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d labels on %d page(s)\n", output, summary.Records, summary.Pages)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "labels.pdf", "destination file")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "CEL expression selecting records")
	return cmd
}

func (c *cli) layoutCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Preview how records fill the configured sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			geometry := c.cfg.Geometry()
			grid, err := geometry.Grid()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("count") {
				records, err := c.app.Labels.List(cmd.Context())
				if err != nil {
					return err
				}
				count = len(records)
			} else if err := layout.ValidatePreviewCount(count, geometry); err != nil {
				return err
			}
			placements, err := layout.Layout(count, geometry)
			if err != nil {
				return err
			}
			pages, err := layout.Pages(count, geometry)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sheet %s x %s mm, cell %s x %s mm\n",
				geometry.PageWidth, geometry.PageHeight, geometry.CellWidth, geometry.CellHeight)
			fmt.Fprintf(out, "Grid %d x %d (%d per page), margins %s x %s mm\n",
				grid.Columns, grid.Rows, grid.CellsPerPage(), grid.MarginX, grid.MarginY)
			fmt.Fprintf(out, "%d label(s) on %d page(s)\n", count, pages)
			if c.verbose {
				for _, p := range placements {
					fmt.Fprintf(out, "  %d: page %d row %d col %d at (%s, %s)\n",
						p.Index+1, p.PageIndex+1, p.Row+1, p.Col+1, p.X, p.Y)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of labels (default: stored records)")
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Serve(cmd.Context())
		},
	}
}
