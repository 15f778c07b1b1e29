// Command labelctl manages the device label list from a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"labelkit/internal/app"
	"labelkit/internal/config"
	appctx "labelkit/internal/core/context"
	"labelkit/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs one command line and releases storage whatever the outcome.
func execute(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	root, c := newRootCmd()
	defer c.close()

	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	return root.ExecuteContext(ctx)
}

// cli carries global flags and the services built from them.
type cli struct {
	configPath string
	verbose    bool

	cfg *config.Config
	log *logger.Logger
	app *app.App
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:          "labelctl",
		Short:        "Collect device identifiers and print serial barcode labels",
		Version:      app.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", defaultConfigPath(), "path to YAML config")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.addCmd(),
		c.listCmd(),
		c.removeCmd(),
		c.clearCmd(),
		c.scanCmd(),
		c.exportCmd(),
		c.layoutCmd(),
		c.serveCmd(),
	)
	return root, c
}

func defaultConfigPath() string {
	if p := os.Getenv("LABELKIT_CONFIG"); p != "" {
		return p
	}
	return "labelkit.yaml"
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	if cmd.Name() == "serve" && !c.verbose {
		level = cfg.Log.Level
	}
	c.log, err = logger.New(logger.Config{
		Level:       level,
		Development: true,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := appctx.WithTrace(cmd.Context(), appctx.NewTraceContext())
	ctx = logger.WithLogger(ctx, c.log)
	cmd.SetContext(ctx)

	c.app, err = app.New(ctx, cfg, c.log)
	return err
}

func (c *cli) close() {
	if c.app != nil {
		if err := c.app.Close(); err != nil {
			c.log.Warnw("failed to close storage", "error", err)
		}
	}
	if c.log != nil {
		_ = c.log.Sync()
	}
}
