// folio runs the portfolio game modal: three mini-games, a visitor profile
// and the chat and booking relays behind it.
//
// Usage:
//
//	folio list                - List the modal's games
//	folio play                - Open the modal in this terminal
//	folio serve               - Serve the modal over SSH and the JSON API over HTTP
//	folio stats [game]        - Show round statistics
//	folio profile             - Show the local visitor profile
//	folio chat <message...>   - Ask the portfolio assistant a question
//
// Global flags:
//
//	--config <path>      - Modal config YAML (default: search order, then embedded)
//	--seed <value>       - Set RNG seed for reproducible shuffles and bot moves
//	--db <path>          - Set database path (default: server.db_path from config)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/folio-arcade/internal/config"

	// Import games to register them
	_ "github.com/vovakirdan/folio-arcade/internal/games/memory"
	_ "github.com/vovakirdan/folio-arcade/internal/games/tictactoe"
	_ "github.com/vovakirdan/folio-arcade/internal/games/trivia"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio Arcade - the portfolio game modal",
	Long: `Folio Arcade is the game modal of a developer portfolio: tic-tac-toe,
a tech trivia quiz and a memory match, with a visitor profile that
remembers scores and favourite games between visits.

Available commands:
  list     - Show the modal's games
  play     - Open the modal in this terminal
  serve    - Serve the modal over SSH and the site API over HTTP
  stats    - View round statistics
  profile  - Show or reset the local visitor profile
  chat     - Ask the portfolio assistant a question

Examples:
  folio list
  folio play
  folio serve --ssh :2222 --http :8080
  folio stats trivia
  folio chat "what services do you offer?"`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom modal config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (default: server.db_path)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(chatCmd)
}

// loadConfig loads the modal config or exits.
func loadConfig() config.ModalConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// dbPath returns --db, or the configured database path.
func dbPath(cfg config.ModalConfig) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return cfg.Server.DBPath
}

func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
