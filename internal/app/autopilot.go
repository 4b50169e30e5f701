package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/consent"
	"github.com/vovakirdan/rewarded-arcade/internal/loop"
	"github.com/vovakirdan/rewarded-arcade/internal/session"
)

// defaultMaxLoadFailures bounds how many empty ad loads in a row the
// autopilot tolerates before giving up.
const defaultMaxLoadFailures = 3

// ErrStalled is returned when the wallet cannot pay for a run and no ad can
// earn the missing coins.
var ErrStalled = errors.New("app: out of coins and no ad available")

// Result summarizes an autopilot run.
type Result struct {
	Completed    int // Runs that reached zero and paid out
	AdsShown     int // Ads that left the screen, rewarded or not
	LoadFailures int
	Coins        int // Final balance
	Consent      consent.Status
	Notes        []string // Messages the controller surfaced
}

// Autopilot plays a session without a terminal. It starts a run whenever the
// wallet allows it and watches ads otherwise, until Rounds runs completed.
// Pass it as the session's Listener, then call Run.
type Autopilot struct {
	Rounds          int
	MaxLoadFailures int // Consecutive failures; defaultMaxLoadFailures when zero

	sess    *Session
	cancel  context.CancelFunc
	busy    bool // An action is queued and has not run yet
	inRun   bool
	showing bool
	loading bool
	done    bool
	err     error
	res     Result
}

// Run drives sess on the calling goroutine until the rounds are played, the
// session stalls or ctx ends.
func (p *Autopilot) Run(ctx context.Context, sess *Session) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.sess = sess
	p.cancel = cancel
	if p.MaxLoadFailures <= 0 {
		p.MaxLoadFailures = defaultMaxLoadFailures
	}

	if !sess.Queue.Post(sess.Controller.Start) {
		return p.result(), loop.ErrClosed
	}
	err := sess.Queue.Run(ctx)
	if p.done {
		return p.result(), p.err
	}
	if err == nil {
		err = loop.ErrClosed
	}
	return p.result(), fmt.Errorf("app: autopilot stopped after %d runs: %w", p.res.Completed, err)
}

// Refresh implements screen.Listener.
func (p *Autopilot) Refresh(session.Display) {
	if p.sess == nil || p.done {
		return
	}
	s := p.sess.Controller.State()
	p.observe(s)
	if p.busy {
		return
	}

	ctrl := p.sess.Controller
	switch {
	case p.res.Completed >= p.Rounds:
		p.finish(nil)
	case p.inRun || s.AdShowing || s.AdLoading:
	case s.CanPlay(ctrl.Rules()):
		p.act(ctrl.TapPlay)
	case s.CanRequestAds && p.res.LoadFailures < p.MaxLoadFailures:
		p.act(ctrl.TapShowAd)
	case p.sess.Consent.Record().Status == consent.StatusUnknown,
		p.sess.Consent.CanRequestAds() != s.CanRequestAds:
		// Consent is still being gathered or not yet applied
	default:
		p.finish(ErrStalled)
	}
}

// Notify implements screen.Listener.
func (p *Autopilot) Notify(msg string) {
	p.res.Notes = append(p.res.Notes, msg)
}

// ShowInspector implements screen.Listener.
func (p *Autopilot) ShowInspector(ads.Report) {}

// observe counts finished runs, closed ads and empty loads from state edges.
func (p *Autopilot) observe(s session.State) {
	running := s.Playing && !s.GameOver
	if p.inRun && !running && s.Ended {
		p.res.Completed++
	}
	p.inRun = running

	if p.showing && !s.AdShowing {
		p.res.AdsShown++
	}
	p.showing = s.AdShowing

	switch {
	case s.AdReady:
		p.res.LoadFailures = 0
	case p.loading && !s.AdLoading:
		p.res.LoadFailures++
	}
	p.loading = s.AdLoading
}

// act queues fn so it does not run inside the controller call that
// triggered this refresh.
func (p *Autopilot) act(fn func()) {
	p.busy = p.sess.Queue.Post(func() {
		p.busy = false
		fn()
	})
}

func (p *Autopilot) finish(err error) {
	p.done = true
	p.err = err
	p.cancel()
}

func (p *Autopilot) result() Result {
	res := p.res
	if p.sess != nil {
		res.Coins = p.sess.Controller.State().Coins
		res.Consent = p.sess.Consent.Record().Status
	}
	return res
}
