package main

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/folio-arcade/internal/registry"
	"github.com/vovakirdan/folio-arcade/internal/session"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the modal's games",
	Long:  `Shows the games on the modal's selection screen, in display order.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List(loadConfig())

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxTitleLen = max(maxTitleLen, runewidth.StringWidth(g.Title))
	}

	// Print header
	fmt.Printf("     %-*s  %s  %s\n", maxIDLen, "ID", runewidth.FillRight("Title", maxTitleLen), "Subtitle")
	fmt.Printf("     %-*s  %s  %s\n", maxIDLen, "--", runewidth.FillRight("-----", maxTitleLen), "--------")

	// Print games
	for _, g := range games {
		fmt.Printf("  %s  %-*s  %s  %s\n",
			runewidth.FillRight(session.Icon(g.ID), 2),
			maxIDLen, g.ID,
			runewidth.FillRight(g.Title, maxTitleLen),
			g.Subtitle)
	}

	fmt.Println()
	fmt.Println("Run 'folio play' to open the modal.")
}
