package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "List stored wallets",
	Long: `Display every wallet in the database with its balance.

Examples:
  rewarded wallet
  rewarded wallet --db ./rewarded.db`,
	Args: cobra.NoArgs,
	Run:  runWallet,
}

func runWallet(_ *cobra.Command, _ []string) {
	store := openStoreOrExit()
	defer store.Close()

	wallets, err := store.Wallets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving wallets: %v\n", err)
		return
	}

	if len(wallets) == 0 {
		fmt.Println("No wallets yet.")
		fmt.Println()
		fmt.Println("Run 'rewarded play' to open one.")
		return
	}

	// Calculate column widths
	maxNameLen := 6 // "Player" header
	for _, w := range wallets {
		if len(w.Player) > maxNameLen {
			maxNameLen = len(w.Player)
		}
	}

	fmt.Printf("  %-*s  %-6s  %s\n", maxNameLen, "Player", "Coins", "Updated")
	fmt.Printf("  %-*s  %-6s  %s\n", maxNameLen, "------", "-----", "-------")

	for _, w := range wallets {
		fmt.Printf("  %-*s  %-6d  %s\n", maxNameLen, w.Player, w.Coins, w.UpdatedAt.Format("2006-01-02 15:04"))
	}
}
