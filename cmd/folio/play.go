package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/folio-arcade/internal/core"
	"github.com/vovakirdan/folio-arcade/internal/platform/tui"
	"github.com/vovakirdan/folio-arcade/internal/profile"
	"github.com/vovakirdan/folio-arcade/internal/session"
	"github.com/vovakirdan/folio-arcade/internal/storage"
)

// localVisitor keys the profile of whoever plays in this terminal.
const localVisitor = "local"

// Smallest terminal the modal frame fits in.
const (
	minTermW = 60
	minTermH = 22
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the game modal",
	Long: `Open the game modal in this terminal, as a visitor would on the site.

The modal opens by itself after a few seconds; press 'o' to open it
right away.

Controls:
  Arrows/hjkl  - Move the cursor
  Enter/Space  - Pick a game, cell, answer or card
  O            - Open the modal
  X            - Dismiss the reminder button
  B/Backspace  - Back to the game list
  R            - Reset the current game
  C            - Work with me
  T            - Round statistics
  Esc          - Close the modal
  Q/Ctrl+C     - Quit

Examples:
  folio play
  folio play --seed 42
  folio play --config ./my-folio.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger("folio")

	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil && (w < minTermW || h < minTermH) {
		fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the modal needs at least %dx%d\n", w, h, minTermW, minTermH)
	}

	// Open storage for the profile and the results log
	var (
		kv    profile.KV
		stats tui.StatsSource
	)
	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - the profile lives for this run only
		kv = profile.NewMemoryKV()
	} else {
		kv = store
		stats = store
	}

	profiles := profile.NewStore(kv, cfg.Modal.ProfileKey+":"+localVisitor, cfg.Points,
		profile.WithLogger(logger))

	opts := []session.Option{
		session.WithVisitor(localVisitor),
		session.WithLogger(logger),
		session.WithRuntime(core.RuntimeConfig{Seed: flagSeed, Now: time.Now}),
	}
	if store != nil {
		opts = append(opts, session.WithResultLog(store))
	}
	ctrl := session.NewController(cfg, profiles, opts...)

	// The "already shown" flag lasts for one run, like a browser tab
	shell := session.NewShell(ctrl, profiles, profile.NewMemoryKV(), cfg.Modal, logger)

	runErr := tui.Run(shell, stats)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running modal: %v\n", runErr)
		os.Exit(1)
	}
}
