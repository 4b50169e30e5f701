// Package ads models the rewarded video ad network as a capability interface
// and coordinates the lifecycle of a single ad handle on top of it.
//
// Providers are free to call back from any goroutine. The Coordinator and
// the Initializer forward every provider callback through the loop's post
// function before touching their own state.
package ads

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoFill is returned by Load when the network has no ad to serve.
	ErrNoFill = errors.New("ads: no fill")
	// ErrNotReady is returned by Show when no loaded ad is held.
	ErrNotReady = errors.New("ads: ad not ready")
	// ErrAlreadyShown is reported when a consumed ad is shown again.
	ErrAlreadyShown = errors.New("ads: ad already shown")
	// ErrInspectorUnavailable is returned when the provider has no inspector.
	ErrInspectorUnavailable = errors.New("ads: ad inspector unavailable")
)

// Reward is what the network grants for watching an ad to the end.
type Reward struct {
	Amount int
	Type   string
}

// Request carries targeting options for a load.
type Request struct {
	NonPersonalized bool
	TestDeviceIDs   []string
}

// FullScreenContentCallback receives presentation events for a shown ad.
// Any field may be nil.
type FullScreenContentCallback struct {
	OnShowed       func()
	OnDismissed    func()
	OnFailedToShow func(error)
}

// Ad is a loaded rewarded ad. It can be shown once.
type Ad interface {
	ID() string
	SetFullScreenContentCallback(cb FullScreenContentCallback)
	// Show presents the ad. It returns immediately; progress is reported
	// through the content callback and onReward.
	Show(ctx context.Context, onReward func(Reward))
}

// Closer is implemented by ads the viewer can close before they finish.
type Closer interface {
	Close()
}

// Playback is implemented by ads that expose presentation progress.
type Playback interface {
	Headline() string
	Progress() (elapsed, total time.Duration)
}

// Provider is an ad network.
type Provider interface {
	Name() string
	Initialize(ctx context.Context) error
	Load(ctx context.Context, unitID string, req Request) (Ad, error)
}

// Report is the diagnostic summary shown by the ad inspector.
type Report struct {
	Provider     string
	Initialized  bool
	Requests     int
	Fills        int
	NoFills      int
	Shows        int
	ShowFailures int
	Rewards      int
	TestDevices  []string
}

// FillRate is the fraction of requests that returned an ad.
func (r Report) FillRate() float64 {
	if r.Requests == 0 {
		return 0
	}
	return float64(r.Fills) / float64(r.Requests)
}

// Inspector is implemented by providers offering diagnostics.
type Inspector interface {
	Inspect(ctx context.Context) (Report, error)
}

// Inspect returns the provider's diagnostics or ErrInspectorUnavailable.
func Inspect(ctx context.Context, p Provider) (Report, error) {
	in, ok := p.(Inspector)
	if !ok {
		return Report{}, ErrInspectorUnavailable
	}
	return in.Inspect(ctx)
}
