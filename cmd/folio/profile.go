package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/folio-arcade/internal/profile"
	"github.com/vovakirdan/folio-arcade/internal/session"
	"github.com/vovakirdan/folio-arcade/internal/storage"
)

var flagProfileReset bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the local visitor profile",
	Long: `Display the profile 'folio play' keeps for this terminal: score,
games played, visits, and the greeting and recommendation the modal
shows.

Examples:
  folio profile
  folio profile --reset`,
	Args: cobra.NoArgs,
	Run:  runProfile,
}

func init() {
	profileCmd.Flags().BoolVar(&flagProfileReset, "reset", false, "Forget the local profile")
}

func runProfile(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	profiles := profile.NewStore(store, cfg.Modal.ProfileKey+":"+localVisitor, cfg.Points,
		profile.WithLogger(newLogger("folio")))

	if flagProfileReset {
		if err := profiles.Reset(); err != nil {
			fmt.Fprintf(os.Stderr, "Error resetting profile: %v\n", err)
			return
		}
		fmt.Println("Profile reset.")
		return
	}

	p := profiles.Load()
	now := time.Now()

	fmt.Println(profile.Greeting(now))
	fmt.Println()
	fmt.Printf("  Score:       %d\n", p.TotalScore)
	fmt.Printf("  Visits:      %d\n", p.VisitCount)
	if !p.LastVisit.IsZero() {
		fmt.Printf("  Last visit:  %s\n", p.LastVisit.Local().Format("2006-01-02 15:04"))
	}

	played := make([]string, 0, len(p.GamesPlayed))
	for _, id := range p.GamesPlayed {
		played = append(played, fmt.Sprintf("%s %s (%d)", session.Icon(id), id, p.PlayCounts[id]))
	}
	if len(played) == 0 {
		played = append(played, "none yet")
	}
	fmt.Printf("  Played:      %s\n", strings.Join(played, ", "))
	if p.PreferredGameType != "" {
		fmt.Printf("  Favourite:   %s\n", p.PreferredGameType)
	}

	fmt.Println()
	fmt.Println(profile.PersonalizedMessage(p))
	fmt.Println(profile.Recommendation(p))
}
