package consent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rewarded-arcade/internal/config"
	"github.com/vovakirdan/rewarded-arcade/internal/loop"
)

type memStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func newMemStore() *memStore { return &memStore{records: make(map[string]Record)} }

func (s *memStore) LoadConsent(player string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[player]
	return rec, ok, nil
}

func (s *memStore) SaveConsent(player string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[player] = rec
	return nil
}

func (s *memStore) ClearConsent(player string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, player)
	return nil
}

type countingForm struct {
	mu       sync.Mutex
	asks     []bool
	decision Decision
	err      error
}

func (f *countingForm) Ask(_ context.Context, privacyOptions bool) (Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asks = append(f.asks, privacyOptions)
	return f.decision, f.err
}

func (f *countingForm) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.asks)
}

func newManager(t *testing.T, geography string, store Store, form Form) (*Manager, *loop.Queue) {
	t.Helper()
	q := loop.NewQueue(8)
	t.Cleanup(q.Close)
	return NewManager(Options{
		Player:    "alice",
		Geography: geography,
		Store:     store,
		Form:      form,
		Post:      q.Post,
	}), q
}

func gather(t *testing.T, m *Manager, q *loop.Queue) error {
	t.Helper()
	var got error
	require.True(t, m.Gather(context.Background(), func(err error) { got = err }))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.RunNext(ctx))
	return got
}

func TestOutsideRegionNeedsNoConsent(t *testing.T) {
	form := &countingForm{}
	m, q := newManager(t, config.GeographyOther, nil, form)

	assert.False(t, m.CanRequestAds(), "unknown until gathered")
	require.NoError(t, gather(t, m, q))

	assert.True(t, m.CanRequestAds())
	assert.False(t, m.PrivacyOptionsRequired())
	assert.False(t, m.NonPersonalized())
	assert.Zero(t, form.count())
}

func TestRegulatedRegionAsksOnce(t *testing.T) {
	store := newMemStore()
	form := &countingForm{decision: DecisionNonPersonalized}
	m, q := newManager(t, config.GeographyEEA, store, form)

	require.NoError(t, gather(t, m, q))
	assert.True(t, m.CanRequestAds())
	assert.True(t, m.NonPersonalized())
	assert.True(t, m.PrivacyOptionsRequired())
	assert.Equal(t, []bool{false}, form.asks)

	assert.False(t, m.Gather(context.Background(), nil), "second gather is a no-op")

	rec, ok, _ := store.LoadConsent("alice")
	require.True(t, ok)
	assert.Equal(t, StatusObtained, rec.Status)
	assert.False(t, rec.Personalized)
}

func TestStoredConsentSkipsForm(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.SaveConsent("alice", Record{Status: StatusObtained, Personalized: true}))
	form := &countingForm{}
	m, q := newManager(t, config.GeographyEEA, store, form)

	assert.True(t, m.CanRequestAds(), "previous session's consent applies immediately")
	require.NoError(t, gather(t, m, q))
	assert.Zero(t, form.count())
}

func TestDismissedFormBlocksAds(t *testing.T) {
	form := &countingForm{decision: DecisionDismissed}
	m, q := newManager(t, config.GeographyEEA, newMemStore(), form)

	require.NoError(t, gather(t, m, q))
	assert.False(t, m.CanRequestAds())
	assert.Equal(t, StatusRequired, m.Record().Status)
}

func TestGatherWithoutForm(t *testing.T) {
	m, q := newManager(t, config.GeographyEEA, nil, nil)
	assert.ErrorIs(t, gather(t, m, q), ErrFormUnavailable)
	assert.False(t, m.CanRequestAds())
}

func TestFormErrorIsReported(t *testing.T) {
	boom := errors.New("form crashed")
	m, q := newManager(t, config.GeographyEEA, nil, &countingForm{err: boom})
	assert.ErrorIs(t, gather(t, m, q), boom)
}

func TestPrivacyOptionsUpdateDecision(t *testing.T) {
	form := &countingForm{decision: DecisionPersonalized}
	m, q := newManager(t, config.GeographyEEA, newMemStore(), form)
	require.NoError(t, gather(t, m, q))
	require.False(t, m.NonPersonalized())

	form.mu.Lock()
	form.decision = DecisionNonPersonalized
	form.mu.Unlock()

	var got error
	called := false
	m.ShowPrivacyOptionsForm(context.Background(), func(err error) { got, called = err, true })
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.RunNext(ctx))

	assert.True(t, called)
	assert.NoError(t, got)
	assert.True(t, m.NonPersonalized())
	assert.Equal(t, []bool{false, true}, form.asks)
}

func TestPrivacyOptionsOutsideRegion(t *testing.T) {
	m, q := newManager(t, config.GeographyOther, nil, &countingForm{})

	var got error
	m.ShowPrivacyOptionsForm(context.Background(), func(err error) { got = err })
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.RunNext(ctx))
	assert.ErrorIs(t, got, ErrPrivacyOptionsNotRequired)
}

func TestResetForgetsConsent(t *testing.T) {
	store := newMemStore()
	form := &countingForm{decision: DecisionPersonalized}
	m, q := newManager(t, config.GeographyEEA, store, form)
	require.NoError(t, gather(t, m, q))

	require.NoError(t, m.Reset())
	assert.False(t, m.CanRequestAds())
	_, ok, _ := store.LoadConsent("alice")
	assert.False(t, ok)

	require.NoError(t, gather(t, m, q))
	assert.Equal(t, 2, form.count())
}

func TestFormForMode(t *testing.T) {
	assert.Nil(t, FormForMode(config.ConsentModeAsk))

	d, err := FormForMode(config.ConsentModeGrant).Ask(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, DecisionPersonalized, d)

	d, err = FormForMode(config.ConsentModeDeny).Ask(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, DecisionDismissed, d)
}
