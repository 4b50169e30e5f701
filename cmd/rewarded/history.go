package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rewarded-arcade/internal/platform/tui"
)

var (
	flagHistoryTUI   bool
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a player's games and ads",
	Long: `Display the most recent runs and ad events of a player, with totals.

Examples:
  rewarded history
  rewarded history --player alice --limit 20
  rewarded history --tui`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse the history interactively")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of entries to show per list")
}

func runHistory(_ *cobra.Command, _ []string) {
	store := openStoreOrExit()
	defer store.Close()

	player := playerName()

	if flagHistoryTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunHistory(store, player, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	games, err := store.RecentGames(player, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving games: %v\n", err)
		return
	}
	events, err := store.RecentAdEvents(player, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving ad events: %v\n", err)
		return
	}

	fmt.Printf("History - %s\n", player)
	fmt.Println()

	if len(games) == 0 {
		fmt.Println("No games recorded yet.")
	} else {
		fmt.Printf("  %-16s  %-9s  %-4s  %-6s  %s\n", "Date", "Outcome", "Cost", "Reward", "Played")
		fmt.Printf("  %-16s  %-9s  %-4s  %-6s  %s\n", "----", "-------", "----", "------", "------")
		for _, g := range games {
			fmt.Printf("  %-16s  %-9s  %-4d  %-6d  %.1fs\n",
				g.CreatedAt.Format("2006-01-02 15:04"), g.Outcome, g.Cost, g.Reward, g.Duration.Seconds())
		}
	}
	fmt.Println()

	if len(events) == 0 {
		fmt.Println("No ads watched yet.")
	} else {
		fmt.Printf("  %-16s  %-14s  %s\n", "Date", "Event", "Detail")
		fmt.Printf("  %-16s  %-14s  %s\n", "----", "-----", "------")
		for _, e := range events {
			detail := e.Detail
			if e.Amount > 0 {
				detail = fmt.Sprintf("+%d %s", e.Amount, e.RewardType)
			}
			fmt.Printf("  %-16s  %-14s  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Event, detail)
		}
	}

	if stats, err := store.GetPlayerStats(player); err == nil {
		fmt.Println()
		fmt.Println(tui.StatsLine(stats))
	}
}
