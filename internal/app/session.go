// Package app assembles one player session: the loop queue, the ad provider,
// the consent gate and the screen controller, backed by optional storage.
// Every front end (local TUI, SSH, headless simulation) builds its session here.
package app

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/config"
	"github.com/vovakirdan/rewarded-arcade/internal/consent"
	"github.com/vovakirdan/rewarded-arcade/internal/loop"
	"github.com/vovakirdan/rewarded-arcade/internal/registry"
	"github.com/vovakirdan/rewarded-arcade/internal/screen"
	"github.com/vovakirdan/rewarded-arcade/internal/session"
	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

// queueSize bounds how many callbacks may wait for the loop thread.
const queueSize = 256

// Deps are the inputs of a session.
type Deps struct {
	Config   config.Config
	Player   string
	Store    *storage.Store // Optional
	Queue    *loop.Queue    // Created when nil
	Clock    clockwork.Clock
	Seed     int64
	Form     consent.Form // Overrides the configured consent mode when set
	Listener screen.Listener
	Logger   *log.Logger
}

// Session is a wired player session.
type Session struct {
	Player     string
	Queue      *loop.Queue
	Provider   ads.Provider
	Consent    *consent.Manager
	Controller *screen.Controller

	release   func()
	closeOnce sync.Once
}

// NewSession wires a session. Call Controller.Start on the loop thread to
// begin gathering consent.
func NewSession(d Deps) (*Session, error) {
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Queue == nil {
		d.Queue = loop.NewQueue(queueSize)
	}

	release := func() {}
	if d.Store != nil {
		var err error
		if release, err = d.Store.Claim(d.Player); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	provider, err := registry.Create(d.Config.Ads.Provider, registry.Options{
		Clock:  d.Clock,
		Sim:    d.Config.Ads.Sim,
		Seed:   d.Seed,
		Logger: logger,
	})
	if err != nil {
		release()
		return nil, fmt.Errorf("app: %w", err)
	}

	coins := d.Config.Game.StartingCoins
	var (
		consentStore consent.Store
		recorder     screen.Recorder
	)
	if d.Store != nil {
		coins, err = d.Store.Wallet(d.Player, d.Config.Game.StartingCoins)
		if err != nil {
			logger.Warn("could not load wallet, using starting balance", "player", d.Player, "error", err)
			coins = d.Config.Game.StartingCoins
		}
		consentStore = d.Store
		recorder = d.Store
	}

	form := d.Form
	if form == nil {
		form = consent.FormForMode(d.Config.Consent.Mode)
	}

	gate := consent.NewManager(consent.Options{
		Player:    d.Player,
		Geography: d.Config.Consent.Geography,
		Store:     consentStore,
		Form:      form,
		Post:      d.Queue.Post,
		Logger:    logger,
	})

	ctrl := screen.New(screen.Options{
		Player:        d.Player,
		Rules:         session.RulesFromConfig(d.Config.Game),
		Coins:         coins,
		Provider:      provider,
		UnitID:        d.Config.Ads.UnitID,
		TestDeviceIDs: d.Config.Ads.TestDeviceIDs,
		Consent:       gate,
		Recorder:      recorder,
		Clock:         d.Clock,
		Post:          d.Queue.Post,
		Listener:      d.Listener,
		Logger:        logger,
	})

	logger.Info("session ready", "player", d.Player, "provider", provider.Name(), "coins", coins)

	return &Session{
		Player:     d.Player,
		Queue:      d.Queue,
		Provider:   provider,
		Consent:    gate,
		Controller: ctrl,
		release:    release,
	}, nil
}

// Close stops the loop and the controller, then frees the player for a new
// session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.Queue.Close()
		s.Controller.Close()
		s.release()
	})
}
