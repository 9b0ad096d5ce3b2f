package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/platform/tui"
	"github.com/vovakirdan/folio-arcade/internal/registry"
	"github.com/vovakirdan/folio-arcade/internal/storage"
)

var (
	flagStatsTUI   bool
	flagStatsLimit int
	flagStatsClear bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [game]",
	Short: "Show round statistics",
	Long: `Display win, loss and draw counts per game, or the most recent
rounds of one game.

Examples:
  folio stats
  folio stats trivia
  folio stats memory --limit 20
  folio stats --tui
  folio stats tic-tac-toe --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsTUI, "tui", false, "Browse statistics interactively")
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of recent rounds to show for a game")
	statsCmd.Flags().BoolVar(&flagStatsClear, "clear", false, "Delete the recorded rounds of a game")
}

func runStats(cmd *cobra.Command, args []string) {
	var gameID core.GameID
	if len(args) == 1 {
		gameID = core.GameID(args[0])
		if !registry.Exists(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Run 'folio list' to see available games.")
			os.Exit(1)
		}
	}
	if flagStatsClear && gameID == "" {
		fmt.Fprintln(os.Stderr, "Error: --clear needs a game")
		os.Exit(1)
	}

	cfg := loadConfig()

	// Open storage
	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagStatsClear:
		if err := store.ClearResults(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing results: %v\n", err)
			return
		}
		fmt.Printf("Cleared the recorded rounds of %s.\n", gameID)
	case flagStatsTUI:
		if err := tui.RunStats(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error running stats: %v\n", err)
		}
	case gameID != "":
		printRecent(store, gameID)
	default:
		printSummary(store)
	}
}

func printSummary(store *storage.Store) {
	all, err := store.GetAllGamesStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}

	fmt.Println("Round statistics")
	fmt.Println()
	fmt.Printf("  %-12s  %6s  %4s  %6s  %5s  %6s  %s\n", "Game", "Rounds", "Wins", "Losses", "Draws", "Points", "Win rate")
	fmt.Printf("  %-12s  %6s  %4s  %6s  %5s  %6s  %s\n", "----", "------", "----", "------", "-----", "------", "--------")

	for _, id := range core.AllGames {
		st, ok := all[id]
		if !ok {
			st = &storage.GameStats{GameID: id}
		}
		fmt.Printf("  %-12s  %6d  %4d  %6d  %5d  %6d  %5.1f%%\n",
			id, st.Rounds, st.Wins, st.Losses, st.Draws, st.TotalPoints, st.WinRate()*100)
	}
}

func printRecent(store *storage.Store, gameID core.GameID) {
	results, err := store.RecentResults(gameID, flagStatsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		return
	}

	fmt.Printf("Recent rounds - %s\n", gameID)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Println("Run 'folio play' and pick the game to record the first round!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-7s  %-6s  %s\n", "#", "Outcome", "Points", "Date")
	fmt.Printf("  %-4s  %-7s  %-6s  %s\n", "-", "-------", "------", "----")

	for i, r := range results {
		fmt.Printf("  %-4d  %-7s  %-6d  %s\n", i+1, r.Outcome, r.Points, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
