package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"sticky-notes/notes"
	"sticky-notes/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the sticky notes desktop app (default)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runApp() error {
	log := slog.Default()
	paths := resolvePaths()
	if err := paths.Ensure(); err != nil {
		return fmt.Errorf("prepare data directory: %w", err)
	}

	store := notes.NewStore(paths, log)
	store.Load()
	log.Info("notes loaded", "dir", paths.Dir, "count", store.Len())

	geom := notes.NewGeometryTracker(paths, log)
	open := notes.NewOpenSetTracker(paths, log)

	app := ui.New(store, geom, open, paths, log)
	return app.Run()
}
