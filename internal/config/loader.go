package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const fileName = "rewarded.yaml"

// Load loads the configuration, validates it and applies REWARDED_*
// environment overrides.
// Search order: customPath -> ~/.rewarded/configs/rewarded.yaml -> ./configs/rewarded.yaml -> embedded default
func Load(customPath string) (Config, error) {
	cfg, err := loadFile(customPath)
	if err != nil {
		return cfg, err
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(fileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", fileName)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rewarded", "configs", filename)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides selected keys from REWARDED_* variables.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	strs := map[string]*string{
		"REWARDED_PROVIDER":     &cfg.Ads.Provider,
		"REWARDED_AD_UNIT_ID":   &cfg.Ads.UnitID,
		"REWARDED_GEOGRAPHY":    &cfg.Consent.Geography,
		"REWARDED_CONSENT_MODE": &cfg.Consent.Mode,
		"REWARDED_LOG_LEVEL":    &cfg.Log.Level,
		"REWARDED_LOG_FILE":     &cfg.Log.File,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REWARDED_STARTING_COINS": &cfg.Game.StartingCoins,
		"REWARDED_REWARD_AMOUNT":  &cfg.Ads.Sim.RewardAmount,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
		}
		*dst = n
	}

	if v, ok := lookup("REWARDED_FILL_RATE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: REWARDED_FILL_RATE=%q is not a number", ErrInvalidConfig, v)
		}
		cfg.Ads.Sim.FillRate = f
	}

	return nil
}
