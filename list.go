package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listSearch string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes on stdout, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		for _, id := range store.Search(listSearch) {
			note, ok := store.Get(id)
			if !ok {
				continue
			}
			snippet := strings.SplitN(note.Content.PlainText(), "\n", 2)[0]
			fmt.Printf("%s\t%s\t%s\n", id, note.Title, snippet)
		}
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by a case-insensitive substring of title or text")
	rootCmd.AddCommand(listCmd)
}
