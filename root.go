package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sticky-notes/notes"
)

var (
	dataDir string
	devMode bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sticky-notes",
	Short: "Desktop sticky notes with a tray indicator",
	Long: `Sticky notes for the Linux desktop: rich-text note windows, a
manager with search, a tray indicator and a global Ctrl+Alt+N hotkey.
Notes are plain JSON files, so they can be synced, inspected and
edited with ordinary tools.`,
	// Execute prints the error itself; without this cobra prints it too.
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ~/"+notes.DataDirName+")")
	rootCmd.PersistentFlags().BoolVarP(&devMode, "dev", "d", false, "Use the development data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// resolvePaths turns the flags into the data directory layout.
func resolvePaths() notes.Paths {
	dir := dataDir
	if dir == "" {
		dir = notes.DefaultDataDir(devMode)
	}
	return notes.NewPaths(dir)
}

// openStore loads the note store for CLI subcommands.
func openStore() *notes.Store {
	store := notes.NewStore(resolvePaths(), slog.Default())
	store.Load()
	return store
}
