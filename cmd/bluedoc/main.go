// Command bluedoc is a minimal rich text editor. It opens the file named on
// the command line, or an empty document.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"bluedoc/internal/app"
	"bluedoc/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bluedoc [file]",
		Short: "Minimal rich text editor",
		Long: `Bluedoc edits rich text documents saved as HTML or plain text.

Images can be pasted or dropped into the document and resized by dragging.
Links open in the system browser when clicked.`,
		Example: `  # Start with an empty document
  bluedoc

  # Open a file, creating it on first save if it does not exist
  bluedoc notes.txt`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args)
		},
	}
}

func run(args []string) error {
	cfg, cfgPath, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(log)
	if cfgPath != "" {
		log.Info("config loaded", slog.String("path", cfgPath))
	}

	a := app.New(app.Options{Config: cfg, Log: log})
	if len(args) == 1 {
		if err := a.OpenStartupFile(args[0]); err != nil {
			return err
		}
	}
	return a.Run()
}
