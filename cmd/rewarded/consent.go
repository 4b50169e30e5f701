package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

var consentCmd = &cobra.Command{
	Use:   "consent",
	Short: "Manage stored consent decisions",
}

var consentShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored consent of a player",
	Args:  cobra.NoArgs,
	Run:   runConsentShow,
}

var consentResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the consent decision of a player",
	Long: `Delete the stored consent of a player, so the next session asks again.

Examples:
  rewarded consent reset
  rewarded consent reset --player alice`,
	Args: cobra.NoArgs,
	Run:  runConsentReset,
}

func init() {
	consentCmd.AddCommand(consentShowCmd)
	consentCmd.AddCommand(consentResetCmd)
}

func openStoreOrExit() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening wallet database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runConsentShow(_ *cobra.Command, _ []string) {
	store := openStoreOrExit()
	defer store.Close()

	player := playerName()
	rec, ok, err := store.LoadConsent(player)
	switch {
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error retrieving consent: %v\n", err)
	case !ok:
		fmt.Printf("No consent stored for %s.\n", player)
	default:
		ads := "personalized"
		if !rec.Personalized {
			ads = "non-personalized"
		}
		fmt.Printf("%s: %s, %s ads (updated %s)\n", player, rec.Status, ads, rec.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func runConsentReset(_ *cobra.Command, _ []string) {
	store := openStoreOrExit()
	defer store.Close()

	player := playerName()
	if err := store.ClearConsent(player); err != nil {
		fmt.Fprintf(os.Stderr, "Error resetting consent: %v\n", err)
		return
	}
	fmt.Printf("Consent for %s reset. The next session will ask again.\n", player)
}
