package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestEmbeddedYAMLMatchesDefault(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded YAML = %+v\nDefault() = %+v", cfg, Default())
	}
}

func TestGameRuleDefaults(t *testing.T) {
	g := Default().Game
	if g.Cost != 5 || g.Reward != 1 {
		t.Errorf("cost/reward = %d/%d, expected 5/1", g.Cost, g.Reward)
	}
	if g.Duration() != 10*time.Second {
		t.Errorf("Duration() = %v, expected 10s", g.Duration())
	}
	if g.TickInterval() != 50*time.Millisecond {
		t.Errorf("TickInterval() = %v, expected 50ms", g.TickInterval())
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("game:\n  cost: 3\nads:\n  sim:\n    fill_rate: 1\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Game.Cost != 3 {
		t.Errorf("Cost = %d, expected 3", cfg.Game.Cost)
	}
	if cfg.Game.Reward != 1 {
		t.Errorf("unset keys should keep defaults, Reward = %d", cfg.Game.Reward)
	}
	if cfg.Ads.Sim.FillRate != 1 {
		t.Errorf("FillRate = %v, expected 1", cfg.Ads.Sim.FillRate)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() should fail for a missing custom path")
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("game:\n  tick_millis: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, expected ErrInvalidConfig", err)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load(\"\") = %+v, expected the embedded default", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative cost", func(c *Config) { c.Game.Cost = -1 }},
		{"zero duration", func(c *Config) { c.Game.DurationSeconds = 0 }},
		{"tick longer than countdown", func(c *Config) { c.Game.TickMillis = 60_000 }},
		{"no provider", func(c *Config) { c.Ads.Provider = "" }},
		{"no unit", func(c *Config) { c.Ads.UnitID = "" }},
		{"fill rate above one", func(c *Config) { c.Ads.Sim.FillRate = 1.5 }},
		{"unknown geography", func(c *Config) { c.Consent.Geography = "mars" }},
		{"unknown consent mode", func(c *Config) { c.Consent.Mode = "maybe" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"REWARDED_PROVIDER":       "offline",
		"REWARDED_GEOGRAPHY":      "other",
		"REWARDED_STARTING_COINS": "25",
		"REWARDED_FILL_RATE":      "0.25",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}
	if cfg.Ads.Provider != "offline" || cfg.Consent.Geography != "other" {
		t.Errorf("string overrides not applied: %+v", cfg)
	}
	if cfg.Game.StartingCoins != 25 {
		t.Errorf("StartingCoins = %d, expected 25", cfg.Game.StartingCoins)
	}
	if cfg.Ads.Sim.FillRate != 0.25 {
		t.Errorf("FillRate = %v, expected 0.25", cfg.Ads.Sim.FillRate)
	}
}

func TestApplyEnvBadInteger(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "REWARDED_STARTING_COINS" {
			return "lots", true
		}
		return "", false
	}
	cfg := Default()
	if err := ApplyEnv(&cfg, lookup); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ApplyEnv() = %v, expected ErrInvalidConfig", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("REWARDED_TEST_DOTENV=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("REWARDED_TEST_DOTENV") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() failed: %v", err)
	}
	if got := os.Getenv("REWARDED_TEST_DOTENV"); got != "loaded" {
		t.Errorf("REWARDED_TEST_DOTENV = %q, expected loaded", got)
	}
}
