// Package consent implements the privacy consent gate that decides whether
// ads may be requested.
//
// Status follows the usual consent-management lifecycle: unknown until the
// first update, then required (a decision is needed), not required (outside
// regulated regions) or obtained. Decisions are persisted per player so a
// later session can request ads before the form is shown again.
package consent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/atomic"

	"github.com/vovakirdan/rewarded-arcade/internal/config"
	"github.com/vovakirdan/rewarded-arcade/internal/loop"
)

// Status is the consent state of a player.
type Status string

const (
	StatusUnknown     Status = "unknown"
	StatusRequired    Status = "required"
	StatusNotRequired Status = "not_required"
	StatusObtained    Status = "obtained"
)

var (
	// ErrFormUnavailable is reported when a decision is needed but no form
	// is attached.
	ErrFormUnavailable = errors.New("consent: form unavailable")
	// ErrPrivacyOptionsNotRequired is reported when the privacy options form
	// is requested outside a regulated region.
	ErrPrivacyOptionsNotRequired = errors.New("consent: privacy options not required")
)

// Record is the persisted consent of one player.
type Record struct {
	Status       Status
	Personalized bool
	UpdatedAt    time.Time
}

// Store persists consent records.
type Store interface {
	LoadConsent(player string) (Record, bool, error)
	SaveConsent(player string, rec Record) error
	ClearConsent(player string) error
}

// Decision is the player's answer on a consent form.
type Decision int

const (
	DecisionDismissed       Decision = iota // Closed without choosing
	DecisionPersonalized                    // Consent to personalized ads
	DecisionNonPersonalized                 // Limited, non-personalized ads only
)

func (d Decision) String() string {
	switch d {
	case DecisionPersonalized:
		return "personalized"
	case DecisionNonPersonalized:
		return "non_personalized"
	default:
		return "dismissed"
	}
}

// Form asks the player for a decision. privacyOptions is true when the player
// opened the form from the menu rather than at start-up.
type Form interface {
	Ask(ctx context.Context, privacyOptions bool) (Decision, error)
}

// FormFunc adapts a function to Form.
type FormFunc func(ctx context.Context, privacyOptions bool) (Decision, error)

// Ask implements Form.
func (f FormFunc) Ask(ctx context.Context, privacyOptions bool) (Decision, error) {
	return f(ctx, privacyOptions)
}

// AutoForm answers every form with a fixed decision.
type AutoForm struct {
	Decision Decision
}

// Ask implements Form.
func (f AutoForm) Ask(ctx context.Context, _ bool) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return DecisionDismissed, err
	}
	return f.Decision, nil
}

// FormForMode returns the automatic form for the "grant" and "deny" consent
// modes and nil for "ask".
func FormForMode(mode string) Form {
	switch mode {
	case config.ConsentModeGrant:
		return AutoForm{Decision: DecisionPersonalized}
	case config.ConsentModeDeny:
		return AutoForm{Decision: DecisionDismissed}
	default:
		return nil
	}
}

// Options configure a Manager.
type Options struct {
	Player    string
	Geography string // config.GeographyEEA or config.GeographyOther
	Store     Store  // Optional
	Form      Form
	Post      loop.PostFunc
	Logger    *log.Logger
}

// Manager is the consent gate of one player session.
type Manager struct {
	player    string
	geography string
	store     Store
	form      Form
	post      loop.PostFunc
	logger    *log.Logger
	gathering *atomic.Bool

	mu  sync.Mutex
	rec Record
}

// NewManager creates a gate seeded with the player's stored consent.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	m := &Manager{
		player:    opts.Player,
		geography: opts.Geography,
		store:     opts.Store,
		form:      opts.Form,
		post:      opts.Post,
		logger:    logger,
		gathering: atomic.NewBool(false),
		rec:       Record{Status: StatusUnknown},
	}

	if m.store != nil {
		rec, ok, err := m.store.LoadConsent(m.player)
		switch {
		case err != nil:
			logger.Warn("could not load stored consent", "player", m.player, "error", err)
		case ok:
			m.rec = rec
		}
	}
	return m
}

// SetForm replaces the form used for future decisions.
func (m *Manager) SetForm(f Form) {
	m.mu.Lock()
	m.form = f
	m.mu.Unlock()
}

// Record returns the current consent.
func (m *Manager) Record() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec
}

// CanRequestAds reports whether ads may be requested with the current consent.
func (m *Manager) CanRequestAds() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec.Status == StatusObtained || m.rec.Status == StatusNotRequired
}

// PrivacyOptionsRequired reports whether the privacy options entry point must
// be offered.
func (m *Manager) PrivacyOptionsRequired() bool {
	return m.geography == config.GeographyEEA
}

// NonPersonalized reports whether ad requests must be non-personalized.
func (m *Manager) NonPersonalized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec.Status == StatusObtained && !m.rec.Personalized
}

// Gather refreshes the consent information and shows the form when a
// decision is still needed. It runs in the background and calls done on the
// loop once. Only the first call per session does anything; later calls
// return false.
func (m *Manager) Gather(ctx context.Context, done func(error)) bool {
	if !m.gathering.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		err := m.gather(ctx)
		if done != nil {
			m.post(func() { done(err) })
		}
	}()
	return true
}

func (m *Manager) gather(ctx context.Context) error {
	if m.geography != config.GeographyEEA {
		return m.update(Record{Status: StatusNotRequired, Personalized: true})
	}

	m.mu.Lock()
	current := m.rec
	form := m.form
	m.mu.Unlock()

	if current.Status == StatusObtained {
		return nil
	}
	if err := m.update(Record{Status: StatusRequired}); err != nil {
		m.logger.Warn("could not save consent", "player", m.player, "error", err)
	}
	if form == nil {
		return ErrFormUnavailable
	}

	decision, err := form.Ask(ctx, false)
	if err != nil {
		return fmt.Errorf("consent: form: %w", err)
	}
	return m.apply(decision)
}

// ShowPrivacyOptionsForm lets the player revisit their decision. done runs on
// the loop with the form's error, if any.
func (m *Manager) ShowPrivacyOptionsForm(ctx context.Context, done func(error)) {
	go func() {
		err := m.showPrivacyOptions(ctx)
		if done != nil {
			m.post(func() { done(err) })
		}
	}()
}

func (m *Manager) showPrivacyOptions(ctx context.Context) error {
	if !m.PrivacyOptionsRequired() {
		return ErrPrivacyOptionsNotRequired
	}

	m.mu.Lock()
	form := m.form
	m.mu.Unlock()
	if form == nil {
		return ErrFormUnavailable
	}

	decision, err := form.Ask(ctx, true)
	if err != nil {
		return fmt.Errorf("consent: privacy options: %w", err)
	}
	return m.apply(decision)
}

// apply records a decision. Dismissing a form keeps the previous answer.
func (m *Manager) apply(d Decision) error {
	m.logger.Info("consent decision", "player", m.player, "decision", d)
	switch d {
	case DecisionPersonalized:
		return m.update(Record{Status: StatusObtained, Personalized: true})
	case DecisionNonPersonalized:
		return m.update(Record{Status: StatusObtained, Personalized: false})
	default:
		return nil
	}
}

func (m *Manager) update(rec Record) error {
	rec.UpdatedAt = time.Now()

	m.mu.Lock()
	m.rec = rec
	m.mu.Unlock()

	if m.store == nil {
		return nil
	}
	if err := m.store.SaveConsent(m.player, rec); err != nil {
		return fmt.Errorf("consent: save: %w", err)
	}
	return nil
}

// Reset forgets the player's consent so the next Gather asks again.
func (m *Manager) Reset() error {
	m.mu.Lock()
	m.rec = Record{Status: StatusUnknown}
	m.mu.Unlock()
	m.gathering.Store(false)

	if m.store == nil {
		return nil
	}
	if err := m.store.ClearConsent(m.player); err != nil {
		return fmt.Errorf("consent: reset: %w", err)
	}
	return nil
}
