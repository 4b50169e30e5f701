// Package screen is the coin game's screen controller. It owns the session
// state, feeds every input and asynchronous completion through the pure
// transitions in package session, and carries out the resulting effects
// against the countdown, the ad coordinator, the consent gate and storage.
//
// A Controller is not safe for concurrent use. All of its methods, and all
// callbacks it receives, run on the loop thread.
package screen

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/consent"
	"github.com/vovakirdan/rewarded-arcade/internal/countdown"
	"github.com/vovakirdan/rewarded-arcade/internal/loop"
	"github.com/vovakirdan/rewarded-arcade/internal/session"
	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

// Listener receives UI updates.
type Listener interface {
	Refresh(d session.Display)
	Notify(msg string)
	ShowInspector(r ads.Report)
}

// Recorder persists wallet changes and history. Failures are logged and
// never interrupt the game.
type Recorder interface {
	SaveWallet(player string, coins int) error
	SaveGame(g storage.GameRecord) (string, error)
	SaveAdEvent(e storage.AdEvent) (string, error)
}

// Options wire a Controller.
type Options struct {
	Player        string
	Rules         session.Rules
	Coins         int // Starting balance
	Provider      ads.Provider
	UnitID        string
	TestDeviceIDs []string
	Consent       *consent.Manager
	Recorder      Recorder // Optional
	Clock         clockwork.Clock
	Post          loop.PostFunc
	Listener      Listener
	Logger        *log.Logger
}

// Controller coordinates one player's screen.
type Controller struct {
	player   string
	rules    session.Rules
	provider ads.Provider
	unitID   string
	devices  []string
	consent  *consent.Manager
	recorder Recorder
	post     loop.PostFunc
	listener Listener
	logger   *log.Logger

	state     session.State
	countdown *countdown.Countdown
	ads       *ads.Coordinator
	initer    *ads.Initializer

	ctx    context.Context
	cancel context.CancelFunc
	dirty  bool
	depth  int
}

// New creates a controller. Call Start on the loop thread to begin.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		player:   opts.Player,
		rules:    opts.Rules,
		provider: opts.Provider,
		unitID:   opts.UnitID,
		devices:  opts.TestDeviceIDs,
		consent:  opts.Consent,
		recorder: opts.Recorder,
		post:     opts.Post,
		listener: opts.Listener,
		logger:   logger,
		state:    session.New(opts.Coins),
		ctx:      ctx,
		cancel:   cancel,
	}

	c.countdown = countdown.New(opts.Clock, opts.Rules.Tick, opts.Post)
	c.initer = ads.NewInitializer(opts.Provider, opts.Post, logger)
	c.ads = ads.NewCoordinator(ads.CoordinatorConfig{
		Provider: opts.Provider,
		UnitID:   opts.UnitID,
		Post:     opts.Post,
		Logger:   logger,
		Events: ads.Events{
			Loaded:       c.adLoaded,
			FailedToLoad: c.adFailedToLoad,
			Showed:       c.adShowed,
			Dismissed:    c.adDismissed,
			FailedToShow: c.adFailedToShow,
			Rewarded:     c.adRewarded,
		},
	})
	return c
}

// Start gathers consent and, when consent from an earlier session already
// allows it, initializes ads right away.
func (c *Controller) Start() {
	if c.consent.CanRequestAds() {
		c.apply(session.ConsentChanged(c.state, true, c.consent.PrivacyOptionsRequired()))
	}

	c.consent.Gather(c.ctx, func(err error) {
		if err != nil {
			c.logger.Warn("consent gathering failed", "player", c.player, "error", err)
		}
		c.apply(session.ConsentChanged(c.state, c.consent.CanRequestAds(), c.consent.PrivacyOptionsRequired()))
	})

	c.dirty = true
	c.flush()
}

// TapPlay handles the play button.
func (c *Controller) TapPlay() { c.apply(session.Play(c.state, c.rules)) }

// TapShowAd handles the show-ad button.
func (c *Controller) TapShowAd() { c.apply(session.ShowAd(c.state)) }

// CloseAd closes the showing ad early, forfeiting its reward.
func (c *Controller) CloseAd() bool { return c.ads.Close() }

// Pause handles the screen losing focus.
func (c *Controller) Pause() { c.apply(session.Pause(c.state)) }

// Resume handles the screen regaining focus.
func (c *Controller) Resume() { c.apply(session.Resume(c.state)) }

// OpenPrivacyOptions pauses the game and shows the privacy options form.
func (c *Controller) OpenPrivacyOptions() {
	c.apply(session.OpenPrivacyOptions(c.state))
	c.consent.ShowPrivacyOptionsForm(c.ctx, func(err error) {
		if err != nil {
			c.logger.Warn("privacy options form failed", "player", c.player, "error", err)
		}
		c.apply(session.PrivacyOptionsClosed(c.state, c.consent.CanRequestAds(), c.consent.PrivacyOptionsRequired(), err))
	})
}

// OpenAdInspector fetches the provider diagnostics in the background.
func (c *Controller) OpenAdInspector() {
	go func() {
		report, err := ads.Inspect(c.ctx, c.provider)
		c.post(func() {
			if err != nil {
				c.notify(err.Error())
				return
			}
			if c.listener != nil {
				c.listener.ShowInspector(report)
			}
		})
	}()
}

// State returns the current session state.
func (c *Controller) State() session.State { return c.state }

// Display returns the UI for the current state.
func (c *Controller) Display() session.Display { return session.Render(c.state, c.rules) }

// Rules returns the game rules.
func (c *Controller) Rules() session.Rules { return c.rules }

// Playback returns the showing ad when it reports progress.
func (c *Controller) Playback() (ads.Playback, bool) {
	if c.ads.State() != ads.StateShowing {
		return nil, false
	}
	p, ok := c.ads.Ad().(ads.Playback)
	return p, ok
}

// Close records an unfinished run as abandoned, stops the countdown,
// abandons ad work and cancels pending forms.
func (c *Controller) Close() {
	c.apply(session.Quit(c.state, c.rules))
	c.countdown.Cancel()
	c.ads.Reset()
	c.cancel()
}

// apply installs the next state and runs its effects. Refreshes requested by
// nested transitions are coalesced into one listener call.
func (c *Controller) apply(next session.State, effects []session.Effect) {
	c.state = next
	c.depth++
	for _, e := range effects {
		c.execute(e)
	}
	c.depth--
	c.flush()
}

func (c *Controller) flush() {
	if c.depth > 0 || !c.dirty {
		return
	}
	c.dirty = false
	if c.listener != nil {
		c.listener.Refresh(c.Display())
	}
}

func (c *Controller) execute(e session.Effect) {
	c.logger.Debug("effect", "kind", e.Kind, "player", c.player)

	switch e.Kind {
	case session.EffectRefresh:
		c.dirty = true

	case session.EffectStartCountdown:
		c.countdown.Start(e.Duration, c.tick, c.finish)

	case session.EffectCancelCountdown:
		c.countdown.Cancel()

	case session.EffectLoadAd:
		req := ads.Request{
			NonPersonalized: c.consent.NonPersonalized(),
			TestDeviceIDs:   c.devices,
		}
		if !c.ads.Load(c.ctx, req) && c.ads.State() == ads.StateReady {
			c.apply(session.AdLoaded(c.state))
		}

	case session.EffectShowAd:
		if err := c.ads.Show(c.ctx); err != nil {
			c.logger.Warn("cannot show ad", "error", err)
			c.apply(session.AdFailedToShow(c.state))
		}

	case session.EffectInitializeAds:
		started := c.initer.Initialize(c.ctx, func(err error) {
			if err != nil {
				c.notify("Ads are unavailable right now")
				return
			}
			c.apply(session.RequestAd(c.state))
		})
		if !started && c.initer.Ready() {
			c.apply(session.RequestAd(c.state))
		}

	case session.EffectNotify:
		c.notify(e.Message)

	case session.EffectSaveWallet:
		if c.recorder == nil {
			return
		}
		if err := c.recorder.SaveWallet(c.player, e.Coins); err != nil {
			c.logger.Warn("could not save wallet", "player", c.player, "error", err)
		}

	case session.EffectRecordGame:
		if c.recorder == nil {
			return
		}
		g := storage.GameRecord{
			Player:   c.player,
			Outcome:  string(e.Outcome),
			Cost:     c.rules.Cost,
			Reward:   e.Coins,
			Duration: e.Played,
		}
		if _, err := c.recorder.SaveGame(g); err != nil {
			c.logger.Warn("could not save game", "player", c.player, "error", err)
		}
	}
}

func (c *Controller) tick(remaining time.Duration) {
	c.apply(session.Tick(c.state, remaining))
}

func (c *Controller) finish() {
	c.logger.Info("game finished", "player", c.player, "reward", c.rules.Reward)
	c.apply(session.Finish(c.state, c.rules))
}

func (c *Controller) notify(msg string) {
	if c.listener != nil {
		c.listener.Notify(msg)
	}
}

func (c *Controller) adLoaded(ad ads.Ad) {
	c.record(storage.AdEvent{AdID: ad.ID(), Event: "loaded"})
	c.apply(session.AdLoaded(c.state))
}

func (c *Controller) adFailedToLoad(err error) {
	c.record(storage.AdEvent{Event: "failed_to_load", Detail: err.Error()})
	c.apply(session.AdFailedToLoad(c.state))
}

func (c *Controller) adShowed(ad ads.Ad) {
	c.record(storage.AdEvent{AdID: ad.ID(), Event: "showed"})
	c.dirty = true
	c.flush()
}

func (c *Controller) adDismissed(ad ads.Ad) {
	c.record(storage.AdEvent{AdID: ad.ID(), Event: "dismissed"})
	c.apply(session.AdDismissed(c.state))
}

func (c *Controller) adFailedToShow(ad ads.Ad, err error) {
	c.record(storage.AdEvent{AdID: ad.ID(), Event: "failed_to_show", Detail: err.Error()})
	c.apply(session.AdFailedToShow(c.state))
}

func (c *Controller) adRewarded(ad ads.Ad, r ads.Reward) {
	c.record(storage.AdEvent{AdID: ad.ID(), Event: "rewarded", Amount: r.Amount, RewardType: r.Type})
	c.apply(session.Rewarded(c.state, r.Amount))
}

func (c *Controller) record(e storage.AdEvent) {
	if c.recorder == nil {
		return
	}
	e.Player = c.player
	e.UnitID = c.unitID
	if _, err := c.recorder.SaveAdEvent(e); err != nil {
		c.logger.Warn("could not save ad event", "player", c.player, "error", err)
	}
}
