package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rewarded-arcade/internal/app"
	"github.com/vovakirdan/rewarded-arcade/internal/consent"
	"github.com/vovakirdan/rewarded-arcade/internal/logging"
	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

var (
	flagRounds   int
	flagDecision string
	flagTimeout  time.Duration
	flagPersist  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play headless and print what happened",
	Long: `Run a session without a terminal. The autopilot starts a run whenever
the wallet allows it and watches ads otherwise, until the requested number
of runs paid out.

The consent form, if the configured geography needs one, is answered with
--consent:
  grant  - Personalized ads
  limit  - Non-personalized ads only
  deny   - Close the form without choosing

Examples:
  rewarded simulate
  rewarded simulate --rounds 5 --seed 42
  rewarded simulate --consent deny
  rewarded simulate --persist --player robot`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagRounds, "rounds", 3, "Runs to complete")
	simulateCmd.Flags().StringVar(&flagDecision, "consent", "grant", "Consent answer: grant, limit, deny")
	simulateCmd.Flags().DurationVar(&flagTimeout, "timeout", 5*time.Minute, "Give up after this long")
	simulateCmd.Flags().BoolVar(&flagPersist, "persist", false, "Save the wallet and history to the database")
}

func runSimulate(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	decision, err := parseDecision(flagDecision)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stderr, cfg.Log, "rewarded-sim")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var store *storage.Store
	if flagPersist {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening wallet database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	player := playerName()
	pilot := &app.Autopilot{Rounds: flagRounds}
	sess, err := app.NewSession(app.Deps{
		Config:   cfg,
		Player:   player,
		Store:    store,
		Seed:     flagSeed,
		Form:     consent.AutoForm{Decision: decision},
		Listener: pilot,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}
	defer sess.Close()

	ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
	defer cancel()

	start := time.Now()
	res, runErr := pilot.Run(ctx, sess)

	fmt.Printf("Simulation - %s (%s)\n", player, sess.Provider.Name())
	fmt.Println()
	fmt.Printf("  %-14s  %d of %d\n", "Runs paid out", res.Completed, flagRounds)
	fmt.Printf("  %-14s  %d\n", "Ads shown", res.AdsShown)
	fmt.Printf("  %-14s  %d\n", "Empty loads", res.LoadFailures)
	fmt.Printf("  %-14s  %d\n", "Coins", res.Coins)
	fmt.Printf("  %-14s  %s\n", "Consent", res.Consent)
	fmt.Printf("  %-14s  %s\n", "Elapsed", time.Since(start).Round(time.Millisecond))
	for _, note := range res.Notes {
		fmt.Printf("  note: %s\n", note)
	}

	if runErr != nil {
		fmt.Println()
		if errors.Is(runErr, app.ErrStalled) {
			fmt.Println("Stopped: out of coins and no ad available.")
		} else {
			fmt.Printf("Stopped: %v\n", runErr)
		}
	}
}

// parseDecision maps the --consent flag to a form answer.
func parseDecision(s string) (consent.Decision, error) {
	switch s {
	case "grant":
		return consent.DecisionPersonalized, nil
	case "limit":
		return consent.DecisionNonPersonalized, nil
	case "deny":
		return consent.DecisionDismissed, nil
	default:
		return consent.DecisionDismissed, fmt.Errorf("unknown consent answer %q (want grant, limit or deny)", s)
	}
}
