package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rewarded-arcade/internal/logging"
	"github.com/vovakirdan/rewarded-arcade/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own game session. The wallet, consent and
history belong to the SSH user name and are kept in the server's database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.rewarded/host_key

Examples:
  rewarded serve                           # Listen on :23234 with auto-generated key
  rewarded serve --ssh :2222               # Listen on port 2222
  rewarded serve --host-key ./my_host_key  # Use specific host key
  rewarded serve --db ./rewarded.db        # Use specific database

Users can connect with:
  ssh alice@localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	game := mustLoadConfig()

	logger, err := logging.New(os.Stderr, game.Log, "rewarded-ssh")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Game:        game,
	}

	server, err := tui.NewSSHServer(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting rewarded SSH server on %s\n", cfg.Address)
	if _, port, splitErr := net.SplitHostPort(cfg.Address); splitErr == nil {
		fmt.Printf("Connect with: ssh <name>@localhost -p %s\n", port)
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
