package ads

import (
	"context"

	"github.com/charmbracelet/log"
	"go.uber.org/atomic"

	"github.com/vovakirdan/rewarded-arcade/internal/loop"
)

// Initializer bootstraps a provider at most once, off the loop thread.
type Initializer struct {
	provider Provider
	post     loop.PostFunc
	logger   *log.Logger

	started *atomic.Bool
	ready   *atomic.Bool
}

// NewInitializer creates an initializer for p.
func NewInitializer(p Provider, post loop.PostFunc, logger *log.Logger) *Initializer {
	if logger == nil {
		logger = log.Default()
	}
	return &Initializer{
		provider: p,
		post:     post,
		logger:   logger,
		started:  atomic.NewBool(false),
		ready:    atomic.NewBool(false),
	}
}

// Initialize starts initialization in the background and reports whether
// this call was the one that started it. Concurrent and repeated calls after
// the first are no-ops. done, when non-nil, runs on the loop once the
// provider finishes.
func (i *Initializer) Initialize(ctx context.Context, done func(error)) bool {
	if !i.started.CompareAndSwap(false, true) {
		return false
	}

	go func() {
		err := i.provider.Initialize(ctx)
		if err != nil {
			i.logger.Error("ads initialization failed", "provider", i.provider.Name(), "error", err)
		} else {
			i.ready.Store(true)
			i.logger.Info("ads initialized", "provider", i.provider.Name())
		}
		if done != nil {
			i.post(func() { done(err) })
		}
	}()
	return true
}

// Started reports whether initialization has been attempted.
func (i *Initializer) Started() bool {
	return i.started.Load()
}

// Ready reports whether initialization completed successfully.
func (i *Initializer) Ready() bool {
	return i.ready.Load()
}
