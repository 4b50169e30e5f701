// Package config provides YAML-based configuration loading for the rewarded
// arcade: game rules, ad provider tuning, consent simulation and logging.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Ads     AdsConfig     `yaml:"ads"`
	Consent ConsentConfig `yaml:"consent"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig defines the coin game rules.
type GameConfig struct {
	Cost            int `yaml:"cost"`             // Coins deducted to start a run
	Reward          int `yaml:"reward"`           // Coins credited for finishing a run
	DurationSeconds int `yaml:"duration_seconds"` // Countdown length
	TickMillis      int `yaml:"tick_millis"`      // Countdown tick granularity
	StartingCoins   int `yaml:"starting_coins"`   // Balance of a brand new wallet
}

// Duration returns the countdown length.
func (g GameConfig) Duration() time.Duration {
	return time.Duration(g.DurationSeconds) * time.Second
}

// TickInterval returns the countdown tick granularity.
func (g GameConfig) TickInterval() time.Duration {
	return time.Duration(g.TickMillis) * time.Millisecond
}

// AdsConfig selects and tunes the rewarded ad provider.
type AdsConfig struct {
	Provider      string    `yaml:"provider"` // Registered provider name ("sim", "offline")
	UnitID        string    `yaml:"unit_id"`
	TestDeviceIDs []string  `yaml:"test_device_ids"`
	Sim           SimConfig `yaml:"sim"`
}

// SimConfig tunes the simulated ad network.
type SimConfig struct {
	InitDelayMillis   int     `yaml:"init_delay_millis"`
	LoadLatencyMillis int     `yaml:"load_latency_millis"`
	FillRate          float64 `yaml:"fill_rate"`         // Probability a load returns an ad
	ShowFailureRate   float64 `yaml:"show_failure_rate"` // Probability Show fails
	VideoSeconds      int     `yaml:"video_seconds"`
	RewardAmount      int     `yaml:"reward_amount"`
	RewardType        string  `yaml:"reward_type"`
}

// InitDelay returns the simulated SDK bootstrap time.
func (s SimConfig) InitDelay() time.Duration {
	return time.Duration(s.InitDelayMillis) * time.Millisecond
}

// LoadLatency returns the simulated ad request round trip.
func (s SimConfig) LoadLatency() time.Duration {
	return time.Duration(s.LoadLatencyMillis) * time.Millisecond
}

// VideoLength returns how long a simulated ad plays.
func (s SimConfig) VideoLength() time.Duration {
	return time.Duration(s.VideoSeconds) * time.Second
}

// ConsentConfig drives the simulated consent gate.
type ConsentConfig struct {
	Geography string `yaml:"geography"` // "eea" requires consent, "other" does not
	Mode      string `yaml:"mode"`      // "ask" prompts, "grant"/"deny" answer automatically
}

// Consent modes.
const (
	ConsentModeAsk   = "ask"
	ConsentModeGrant = "grant"
	ConsentModeDeny  = "deny"
)

// Geographies.
const (
	GeographyEEA   = "eea"
	GeographyOther = "other"
)

// LogConfig configures the application logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log destination for interactive play
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.Game.Cost < 0:
		return fmt.Errorf("%w: game.cost must not be negative", ErrInvalidConfig)
	case c.Game.Reward < 0:
		return fmt.Errorf("%w: game.reward must not be negative", ErrInvalidConfig)
	case c.Game.StartingCoins < 0:
		return fmt.Errorf("%w: game.starting_coins must not be negative", ErrInvalidConfig)
	case c.Game.DurationSeconds <= 0:
		return fmt.Errorf("%w: game.duration_seconds must be positive", ErrInvalidConfig)
	case c.Game.TickMillis <= 0:
		return fmt.Errorf("%w: game.tick_millis must be positive", ErrInvalidConfig)
	case c.Game.TickInterval() > c.Game.Duration():
		return fmt.Errorf("%w: game.tick_millis exceeds the countdown", ErrInvalidConfig)
	case c.Ads.Provider == "":
		return fmt.Errorf("%w: ads.provider is required", ErrInvalidConfig)
	case c.Ads.UnitID == "":
		return fmt.Errorf("%w: ads.unit_id is required", ErrInvalidConfig)
	case c.Ads.Sim.FillRate < 0 || c.Ads.Sim.FillRate > 1:
		return fmt.Errorf("%w: ads.sim.fill_rate must be within [0, 1]", ErrInvalidConfig)
	case c.Ads.Sim.ShowFailureRate < 0 || c.Ads.Sim.ShowFailureRate > 1:
		return fmt.Errorf("%w: ads.sim.show_failure_rate must be within [0, 1]", ErrInvalidConfig)
	case c.Ads.Sim.RewardAmount < 0:
		return fmt.Errorf("%w: ads.sim.reward_amount must not be negative", ErrInvalidConfig)
	case c.Ads.Sim.VideoSeconds < 0:
		return fmt.Errorf("%w: ads.sim.video_seconds must not be negative", ErrInvalidConfig)
	}

	switch c.Consent.Geography {
	case GeographyEEA, GeographyOther:
	default:
		return fmt.Errorf("%w: consent.geography %q (want eea or other)", ErrInvalidConfig, c.Consent.Geography)
	}

	switch c.Consent.Mode {
	case ConsentModeAsk, ConsentModeGrant, ConsentModeDeny:
	default:
		return fmt.Errorf("%w: consent.mode %q (want ask, grant or deny)", ErrInvalidConfig, c.Consent.Mode)
	}

	return nil
}
