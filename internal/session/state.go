// Package session holds the coin game's screen state and its transitions.
//
// Transitions are pure: each takes the current State and returns the next
// one together with the side effects the controller must perform (refresh the
// UI, start the countdown, request an ad, ...). Nothing in this package talks
// to the clock, the ad network or the terminal.
package session

import (
	"time"

	"github.com/vovakirdan/rewarded-arcade/internal/config"
)

// Rules are the fixed economy and timing of a run.
type Rules struct {
	Cost     int           // Coins deducted to start a run
	Reward   int           // Coins credited when the countdown reaches zero
	Duration time.Duration // Countdown length
	Tick     time.Duration // Countdown granularity
}

// DefaultRules returns cost 5, reward 1, a 10 second countdown ticking every 50ms.
func DefaultRules() Rules {
	return Rules{
		Cost:     5,
		Reward:   1,
		Duration: 10 * time.Second,
		Tick:     50 * time.Millisecond,
	}
}

// RulesFromConfig builds Rules from the game section of the config.
func RulesFromConfig(g config.GameConfig) Rules {
	return Rules{
		Cost:     g.Cost,
		Reward:   g.Reward,
		Duration: g.Duration(),
		Tick:     g.TickInterval(),
	}
}

// State is everything the screen knows about the current session.
//
// At most one of Playing and GameOver is true while not paused. Remaining is
// only meaningful while Playing.
type State struct {
	Coins     int
	Playing   bool
	GameOver  bool
	Paused    bool
	Ended     bool // A run finished; the timer label says so until the next run
	Remaining time.Duration

	AdLoading bool
	AdReady   bool
	AdShowing bool

	CanRequestAds          bool
	PrivacyOptionsRequired bool

	resumeAfterAd bool // The showing ad paused the run and resumes it on close
}

// New returns the state of a fresh screen holding the given balance.
func New(coins int) State {
	return State{
		Coins:    coins,
		GameOver: true,
	}
}

// CanPlay reports whether the balance covers a run.
func (s State) CanPlay(r Rules) bool {
	return s.Coins >= r.Cost
}

// EffectKind identifies a side effect requested by a transition.
type EffectKind int

const (
	EffectRefresh EffectKind = iota
	EffectStartCountdown
	EffectCancelCountdown
	EffectLoadAd
	EffectShowAd
	EffectInitializeAds
	EffectNotify
	EffectSaveWallet
	EffectRecordGame
)

// String returns the effect name used in logs.
func (k EffectKind) String() string {
	switch k {
	case EffectRefresh:
		return "refresh"
	case EffectStartCountdown:
		return "start_countdown"
	case EffectCancelCountdown:
		return "cancel_countdown"
	case EffectLoadAd:
		return "load_ad"
	case EffectShowAd:
		return "show_ad"
	case EffectInitializeAds:
		return "initialize_ads"
	case EffectNotify:
		return "notify"
	case EffectSaveWallet:
		return "save_wallet"
	case EffectRecordGame:
		return "record_game"
	default:
		return "unknown"
	}
}

// Outcome describes how a run ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed" // Countdown reached zero, reward credited
	OutcomeAbandoned Outcome = "abandoned" // Replaced by a new run before finishing
)

// Effect is a side effect the controller performs after applying a transition.
type Effect struct {
	Kind     EffectKind
	Duration time.Duration // EffectStartCountdown
	Message  string        // EffectNotify
	Coins    int           // EffectSaveWallet: the new balance; EffectRecordGame: coins credited
	Outcome  Outcome       // EffectRecordGame
	Played   time.Duration // EffectRecordGame: countdown time consumed
}

func refresh() Effect {
	return Effect{Kind: EffectRefresh}
}
