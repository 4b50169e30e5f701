package core

// RuntimeConfig describes the terminal a session renders into.
type RuntimeConfig struct {
	ScreenW   int    // Screen width in characters
	ScreenH   int    // Screen height in characters
	FrameRate int    // Redraw ticks per second
	Seed      int64  // RNG seed for the simulated ad network (0 = time based)
	Player    string // Wallet owner, the local user or the SSH user
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:   80,
		ScreenH:   24,
		FrameRate: 20,
		Player:    "local",
	}
}
