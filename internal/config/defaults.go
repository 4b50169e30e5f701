package config

import (
	_ "embed"
)

//go:embed defaults/rewarded.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It mirrors defaults/rewarded.yaml
// and is used when the embedded file cannot be parsed.
func Default() Config {
	return Config{
		Game: GameConfig{
			Cost:            5,
			Reward:          1,
			DurationSeconds: 10,
			TickMillis:      50,
			StartingCoins:   0,
		},
		Ads: AdsConfig{
			Provider:      "sim",
			UnitID:        "sim-rewarded/5224354917",
			TestDeviceIDs: []string{"ABCDEF012345"},
			Sim: SimConfig{
				InitDelayMillis:   300,
				LoadLatencyMillis: 1200,
				FillRate:          0.9,
				ShowFailureRate:   0.05,
				VideoSeconds:      5,
				RewardAmount:      10,
				RewardType:        "coins",
			},
		},
		Consent: ConsentConfig{
			Geography: GeographyEEA,
			Mode:      ConsentModeAsk,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.rewarded/rewarded.log",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
