package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Merge notes from an exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}

		paths := resolvePaths()
		if err := paths.Ensure(); err != nil {
			return fmt.Errorf("prepare data directory: %w", err)
		}
		store := openStore()
		added, updated, err := store.Merge(data)
		if err != nil {
			return fmt.Errorf("merge notes: %w", err)
		}
		if err := store.Save(); err != nil {
			return fmt.Errorf("save notes: %w", err)
		}
		fmt.Printf("Imported %d new and %d updated notes\n", added, updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
