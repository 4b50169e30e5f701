package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rewarded-arcade/internal/core"
	"github.com/vovakirdan/rewarded-arcade/internal/logging"
	"github.com/vovakirdan/rewarded-arcade/internal/platform/tui"
	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start the coin game in the terminal.

A run costs coins and pays out when its 10 second countdown reaches zero.
Without enough coins, watch a rewarded ad to earn more. Switching away
from the terminal pauses the countdown.

Controls:
  Space/Enter  - Play
  A            - Watch an ad
  X            - Close the ad early (no reward)
  M            - Options (privacy settings, ad inspector, history)
  H            - History
  ?            - Toggle key help
  Q/Ctrl+C     - Quit

Examples:
  rewarded play
  rewarded play --player alice
  rewarded play --provider offline
  rewarded play --config ./my-rewarded.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runtime := core.RuntimeConfig{
		ScreenW:   width,
		ScreenH:   height,
		FrameRate: flagFPS,
		Seed:      flagSeed,
		Player:    playerName(),
	}

	// The alt screen owns stdout, so the log goes to a file
	logger, logFile, err := logging.OpenFile(cfg.Log, "rewarded")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Open wallet storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open wallet database: %v\n", err)
		// Continue without storage - coins last for this session only
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Config:  cfg,
		Runtime: runtime,
		Store:   store,
		Logger:  logger,
	})

	// Close store and log before potential exit
	if store != nil {
		store.Close()
	}
	logFile.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
