// rewarded is a terminal coin game funded by rewarded video ads.
//
// Usage:
//
//	rewarded play              - Play in the terminal
//	rewarded serve             - Start SSH server for remote play
//	rewarded simulate          - Play headless and print what happened
//	rewarded wallet            - List stored wallets
//	rewarded history           - Show a player's games and ads
//	rewarded consent reset     - Forget a player's consent decision
//	rewarded providers         - List available ad providers
//
// Global flags:
//
//	--config <path>    - Load configuration from a YAML file
//	--provider <id>    - Override the ad provider
//	--player <name>    - Wallet owner (default: current user)
//	--fps <rate>       - Set redraw rate (default: 20)
//	--seed <value>     - Set RNG seed for the simulated ad network
//	--db <path>        - Set database path (default: ~/.rewarded/rewarded.db)
package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	// Import ad providers to register them
	_ "github.com/vovakirdan/rewarded-arcade/internal/ads/offline"
	_ "github.com/vovakirdan/rewarded-arcade/internal/ads/sim"
	"github.com/vovakirdan/rewarded-arcade/internal/config"
	"github.com/vovakirdan/rewarded-arcade/internal/registry"
)

var (
	// Global flags
	flagConfig   string
	flagProvider string
	flagPlayer   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rewarded",
	Short: "Rewarded Arcade - earn coins by watching ads, spend them to play",
	Long: `Rewarded Arcade is a terminal coin game. A run costs coins and pays a
coin back when its countdown reaches zero; rewarded video ads top up the
wallet when it runs dry.

Available commands:
  play       - Play in the terminal
  serve      - Start SSH server for remote play
  simulate   - Play headless and print what happened
  wallet     - List stored wallets
  history    - Show a player's games and ads
  consent    - Manage stored consent decisions
  providers  - List available ad providers

Examples:
  rewarded play
  rewarded play --provider offline
  rewarded serve --ssh :2222
  rewarded simulate --rounds 3 --consent grant
  rewarded history --tui`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "Ad provider (see 'rewarded providers')")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Wallet owner (default: current user)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 20, "Redraw rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.rewarded/rewarded.db", "Path to wallet database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(consentCmd)
	rootCmd.AddCommand(providersCmd)
}

// loadConfig reads .env, the configuration file and the command line
// overrides, in that order of precedence from lowest to highest.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagProvider != "" {
		if !registry.Exists(flagProvider) {
			return cfg, fmt.Errorf("unknown provider %q (run 'rewarded providers')", flagProvider)
		}
		cfg.Ads.Provider = flagProvider
	}
	return cfg, cfg.Validate()
}

// mustLoadConfig is loadConfig for commands that cannot continue without one.
func mustLoadConfig() config.Config {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// playerName returns the --player flag or the current user name.
func playerName() string {
	if flagPlayer != "" {
		return flagPlayer
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}
