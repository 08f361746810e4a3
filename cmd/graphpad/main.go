// graphpad — terminal node-and-edge diagram editor.
//
// Run: go run ./cmd/graphpad/ [diagram.yaml]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/graphpad/graphpad/internal/config"
	"github.com/graphpad/graphpad/internal/demoui"
	"github.com/graphpad/graphpad/internal/document"
)

// Version is set at build time.
var Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "graphpad [diagram.yaml]",
		Short: "Terminal node-and-edge diagram editor",
		Long: `graphpad is a terminal diagram editor: drag nodes, draw edges between
them, pan and zoom, and save the result as YAML. Without a file argument
it opens a demo diagram.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	fs := root.Flags()
	fs.String("config", "", "Config file (default: graphpad.yaml in the working directory)")
	fs.Bool("readonly", false, "Open the diagram read-only")
	fs.Bool("watch", false, "Reload the diagram when the file changes on disk")
	fs.Int("fps", 30, "Frame rate of the render loop")
	fs.Int("chunk_size", 50, "Entities reconciled per frame")
	fs.Float64("zoom.min", 0.15, "Minimum zoom factor")
	fs.Float64("zoom.max", 1.5, "Maximum zoom factor")
	fs.Float64("zoom.step", 0.1, "Zoom increment per wheel notch")
	fs.String("log.file", "", "Write logs to this file (stderr is the UI)")
	fs.String("log.level", "info", "Log level (debug|info|warn|error)")

	return root
}

func run(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, closeLog, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	path := cfg.Document
	if len(args) > 0 {
		path = args[0]
	}

	doc, err := openDocument(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reload <-chan struct{}
	if cfg.Watch && path != "" {
		reload, err = demoui.WatchFile(ctx, path, logger)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		logger.Info("watching document", "path", path)
	}

	m := demoui.New(demoui.Options{
		Config:   cfg,
		Logger:   logger,
		Document: doc,
		Path:     path,
		Reload:   reload,
	})

	p := tea.NewProgram(m, tea.WithContext(ctx))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer stop() // program exit tears down the watcher
		_, err := p.Run()
		return err
	})
	return eg.Wait()
}

// openDocument loads the given file, falls back to an empty document
// for a path that does not exist yet, and to the demo diagram when no
// path was given at all.
func openDocument(path string) (*document.Document, error) {
	if path == "" {
		return document.Demo(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &document.Document{}, nil
	}
	return document.Load(path)
}

// buildLogger opens the configured log sink. The terminal belongs to
// the UI, so without a log file everything is discarded.
func buildLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}
