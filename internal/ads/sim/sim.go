// Package sim implements a simulated rewarded ad network.
//
// Latency, fill and presentation are driven by a clockwork clock and a seeded
// random source, so a fake clock and a fixed seed make it fully
// deterministic.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/config"
	"github.com/vovakirdan/rewarded-arcade/internal/registry"
)

// ID is the registry name of the simulated network.
const ID = "sim"

// ErrShowFailed is reported when a simulated presentation fails.
var ErrShowFailed = errors.New("sim: presentation failed")

var headlines = []string{
	"Coin Rush Deluxe",
	"Dragon Gem Saga",
	"Turbo Kart Legends",
	"Castle Merge Quest",
	"Pocket Farm Tycoon",
}

func init() {
	registry.Register(ID, func(o registry.Options) ads.Provider {
		return New(o.Clock, o.Sim, o.Seed, o.Logger)
	})
}

// Provider is the simulated network.
type Provider struct {
	clock  clockwork.Clock
	cfg    config.SimConfig
	logger *log.Logger

	mu          sync.Mutex
	rng         *rand.Rand
	initialized bool
	stats       ads.Report
}

// New creates a simulated network. A zero cfg uses the defaults.
func New(clock clockwork.Clock, cfg config.SimConfig, seed int64, logger *log.Logger) *Provider {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg == (config.SimConfig{}) {
		cfg = config.Default().Ads.Sim
	}
	if logger == nil {
		logger = log.Default()
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Provider{
		clock:  clock,
		cfg:    cfg,
		logger: logger.WithPrefix("sim-ads"),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Name implements ads.Provider.
func (p *Provider) Name() string { return "Simulated network" }

// Initialize waits out the configured bootstrap delay.
func (p *Provider) Initialize(ctx context.Context) error {
	if err := p.wait(ctx, p.cfg.InitDelay()); err != nil {
		return fmt.Errorf("sim: initialize: %w", err)
	}
	p.mu.Lock()
	p.initialized = true
	p.mu.Unlock()
	return nil
}

// Load simulates a request round trip and a fill decision.
func (p *Provider) Load(ctx context.Context, unitID string, req ads.Request) (ads.Ad, error) {
	if unitID == "" {
		return nil, errors.New("sim: empty ad unit id")
	}
	if err := p.wait(ctx, p.cfg.LoadLatency()); err != nil {
		return nil, fmt.Errorf("sim: load: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Requests++
	if p.rng.Float64() >= p.cfg.FillRate {
		p.stats.NoFills++
		p.logger.Debug("no fill", "unit", unitID)
		return nil, ads.ErrNoFill
	}
	p.stats.Fills++
	if len(req.TestDeviceIDs) > 0 {
		p.stats.TestDevices = append([]string(nil), req.TestDeviceIDs...)
	}

	headline := headlines[p.rng.Intn(len(headlines))]
	if len(req.TestDeviceIDs) > 0 {
		headline = "Test Ad: " + headline
	}
	if req.NonPersonalized {
		headline += " (non-personalized)"
	}

	return &Ad{
		provider: p,
		id:       uuid.NewString(),
		headline: headline,
		video:    p.cfg.VideoLength(),
		reward:   ads.Reward{Amount: p.cfg.RewardAmount, Type: p.cfg.RewardType},
		fail:     p.rng.Float64() < p.cfg.ShowFailureRate,
		closed:   make(chan struct{}),
	}, nil
}

// Inspect implements ads.Inspector.
func (p *Provider) Inspect(context.Context) (ads.Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := p.stats
	r.Provider = p.Name()
	r.Initialized = p.initialized
	r.TestDevices = append([]string(nil), p.stats.TestDevices...)
	return r, nil
}

func (p *Provider) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := p.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Provider) count(f func(r *ads.Report)) {
	p.mu.Lock()
	f(&p.stats)
	p.mu.Unlock()
}

// Ad is a simulated rewarded video.
type Ad struct {
	provider *Provider
	id       string
	headline string
	video    time.Duration
	reward   ads.Reward
	fail     bool

	mu        sync.Mutex
	cb        ads.FullScreenContentCallback
	shown     bool
	startedAt time.Time
	closeOnce sync.Once
	closed    chan struct{}
}

// ID implements ads.Ad.
func (a *Ad) ID() string { return a.id }

// Headline implements ads.Playback.
func (a *Ad) Headline() string { return a.headline }

// Progress implements ads.Playback.
func (a *Ad) Progress() (elapsed, total time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.shown {
		return 0, a.video
	}
	elapsed = a.provider.clock.Since(a.startedAt)
	if elapsed > a.video {
		elapsed = a.video
	}
	return elapsed, a.video
}

// SetFullScreenContentCallback implements ads.Ad.
func (a *Ad) SetFullScreenContentCallback(cb ads.FullScreenContentCallback) {
	a.mu.Lock()
	a.cb = cb
	a.mu.Unlock()
}

// Show plays the video in the background. The reward is granted when the
// video runs to the end; closing it earlier dismisses without a reward.
func (a *Ad) Show(ctx context.Context, onReward func(ads.Reward)) {
	a.mu.Lock()
	cb := a.cb
	if a.shown {
		a.mu.Unlock()
		go failed(cb, ads.ErrAlreadyShown)
		return
	}
	a.shown = true
	a.startedAt = a.provider.clock.Now()
	a.mu.Unlock()

	if a.fail {
		a.provider.count(func(r *ads.Report) { r.ShowFailures++ })
		go failed(cb, ErrShowFailed)
		return
	}

	// The timer is armed before Show returns so callers driving a fake clock
	// can advance it right away.
	timer := a.provider.clock.NewTimer(a.video)
	a.provider.count(func(r *ads.Report) { r.Shows++ })
	go a.play(ctx, timer, cb, onReward)
}

// Close dismisses the ad before the video ends.
func (a *Ad) Close() {
	a.closeOnce.Do(func() { close(a.closed) })
}

func (a *Ad) play(ctx context.Context, timer clockwork.Timer, cb ads.FullScreenContentCallback, onReward func(ads.Reward)) {
	defer timer.Stop()

	if cb.OnShowed != nil {
		cb.OnShowed()
	}

	select {
	case <-timer.Chan():
		a.provider.count(func(r *ads.Report) { r.Rewards++ })
		if onReward != nil {
			onReward(a.reward)
		}
	case <-a.closed:
	case <-ctx.Done():
	}

	if cb.OnDismissed != nil {
		cb.OnDismissed()
	}
}

func failed(cb ads.FullScreenContentCallback, err error) {
	if cb.OnFailedToShow != nil {
		cb.OnFailedToShow(err)
	}
}
