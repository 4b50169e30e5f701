package ads

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rewarded-arcade/internal/loop"
)

// State is the lifecycle position of the coordinator's ad handle.
type State int

const (
	StateAbsent State = iota
	StateLoading
	StateReady
	StateShowing
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateShowing:
		return "showing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Events are delivered on the loop thread. Any field may be nil.
type Events struct {
	Loaded       func(ad Ad)
	FailedToLoad func(err error)
	Showed       func(ad Ad)
	Dismissed    func(ad Ad)
	FailedToShow func(ad Ad, err error)
	Rewarded     func(ad Ad, r Reward)
}

// CoordinatorConfig wires a Coordinator.
type CoordinatorConfig struct {
	Provider Provider
	UnitID   string
	Post     loop.PostFunc
	Logger   *log.Logger
	Events   Events
}

// Coordinator holds at most one ad handle and drives it through
// Absent -> Loading -> Ready -> Showing -> Absent. It must only be used from
// the loop thread.
type Coordinator struct {
	provider Provider
	unitID   string
	post     loop.PostFunc
	logger   *log.Logger
	events   Events

	state    State
	ad       Ad
	attempt  uint64 // Identifies the load or show whose callbacks are current
	rewarded bool
	cancel   context.CancelFunc
}

// NewCoordinator creates a coordinator with no ad held.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		provider: cfg.Provider,
		unitID:   cfg.UnitID,
		post:     cfg.Post,
		logger:   logger,
		events:   cfg.Events,
	}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State { return c.state }

// Ad returns the held ad, or nil when none is loaded or showing.
func (c *Coordinator) Ad() Ad { return c.ad }

// Load requests an ad unless one is held or already in flight. It reports
// whether a request was issued.
func (c *Coordinator) Load(ctx context.Context, req Request) bool {
	if c.state != StateAbsent {
		c.logger.Debug("ad load skipped", "state", c.state)
		return false
	}

	c.attempt++
	attempt := c.attempt
	c.state = StateLoading

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.logger.Info("loading ad", "unit", c.unitID, "non_personalized", req.NonPersonalized)

	go func() {
		ad, err := c.provider.Load(ctx, c.unitID, req)
		c.post(func() { c.loadDone(attempt, ad, err) })
	}()
	return true
}

func (c *Coordinator) loadDone(attempt uint64, ad Ad, err error) {
	if attempt != c.attempt || c.state != StateLoading {
		return
	}
	c.cancel = nil

	if err != nil {
		c.state = StateAbsent
		c.ad = nil
		c.logger.Warn("ad failed to load", "unit", c.unitID, "error", err)
		if c.events.FailedToLoad != nil {
			c.events.FailedToLoad(err)
		}
		return
	}

	c.state = StateReady
	c.ad = ad
	c.logger.Info("ad loaded", "unit", c.unitID, "ad", ad.ID())
	if c.events.Loaded != nil {
		c.events.Loaded(ad)
	}
}

// Show presents the ready ad. The reward is credited at most once for this
// presentation, and the handle is discarded when it is dismissed or fails.
func (c *Coordinator) Show(ctx context.Context) error {
	if c.state != StateReady || c.ad == nil {
		return ErrNotReady
	}

	c.attempt++
	attempt := c.attempt
	c.state = StateShowing
	c.rewarded = false
	ad := c.ad

	ad.SetFullScreenContentCallback(FullScreenContentCallback{
		OnShowed: func() {
			c.post(func() { c.showed(attempt, ad) })
		},
		OnDismissed: func() {
			c.post(func() { c.closed(attempt, ad, nil) })
		},
		OnFailedToShow: func(err error) {
			if err == nil {
				err = ErrAlreadyShown
			}
			c.post(func() { c.closed(attempt, ad, err) })
		},
	})

	c.logger.Info("showing ad", "ad", ad.ID())
	ad.Show(ctx, func(r Reward) {
		c.post(func() { c.reward(attempt, ad, r) })
	})
	return nil
}

// Close ends the showing ad early when the ad supports it. No reward is
// granted unless the ad already reported one.
func (c *Coordinator) Close() bool {
	if c.state != StateShowing {
		return false
	}
	closer, ok := c.ad.(Closer)
	if !ok {
		return false
	}
	closer.Close()
	return true
}

// Reset abandons any in-flight load and drops the held ad.
func (c *Coordinator) Reset() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.attempt++
	c.state = StateAbsent
	c.ad = nil
}

func (c *Coordinator) showed(attempt uint64, ad Ad) {
	if attempt != c.attempt || c.state != StateShowing {
		return
	}
	c.logger.Debug("ad showed", "ad", ad.ID())
	if c.events.Showed != nil {
		c.events.Showed(ad)
	}
}

func (c *Coordinator) reward(attempt uint64, ad Ad, r Reward) {
	if attempt != c.attempt || c.state != StateShowing || c.rewarded {
		return
	}
	c.rewarded = true
	c.logger.Info("user earned reward", "ad", ad.ID(), "amount", r.Amount, "type", r.Type)
	if c.events.Rewarded != nil {
		c.events.Rewarded(ad, r)
	}
}

func (c *Coordinator) closed(attempt uint64, ad Ad, err error) {
	if attempt != c.attempt || c.state != StateShowing {
		return
	}
	c.state = StateAbsent
	c.ad = nil

	if err != nil {
		c.logger.Warn("ad failed to show", "ad", ad.ID(), "error", err)
		if c.events.FailedToShow != nil {
			c.events.FailedToShow(ad, err)
		}
		return
	}

	c.logger.Info("ad dismissed", "ad", ad.ID())
	if c.events.Dismissed != nil {
		c.events.Dismissed(ad)
	}
}
