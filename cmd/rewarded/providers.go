package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rewarded-arcade/internal/registry"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List all available ad providers",
	Long:  `Shows a list of all ad providers registered in the arcade.`,
	Run:   runProviders,
}

func runProviders(_ *cobra.Command, _ []string) {
	providers := registry.List()

	if len(providers) == 0 {
		fmt.Println("No ad providers available.")
		return
	}

	fmt.Println("Available ad providers:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range providers {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Name")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "----")

	for _, p := range providers {
		fmt.Printf("  %-*s  %s\n", maxIDLen, p.ID, p.Title)
	}

	fmt.Println()
	fmt.Println("Run 'rewarded play --provider <id>' to use one.")
}
