package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/vovakirdan/rewarded-arcade/internal/ads/offline"
	"github.com/vovakirdan/rewarded-arcade/internal/config"
	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Ads.Provider = "offline"
	cfg.Consent.Geography = config.GeographyOther
	cfg.Game.StartingCoins = 5
	return cfg
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewSessionUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Ads.Provider = "nope"

	_, err := NewSession(Deps{Config: cfg, Player: "alice"})
	assert.ErrorContains(t, err, `unknown provider "nope"`)
}

func TestNewSessionStartsFromStoredWallet(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.SaveWallet("bob", 12))

	sess, err := NewSession(Deps{Config: testConfig(), Player: "bob", Store: store})
	require.NoError(t, err)
	defer sess.Close()

	assert.Equal(t, 12, sess.Controller.State().Coins)
	assert.Equal(t, "Offline (no fill)", sess.Provider.Name())
}

func TestNewSessionWithoutStoreUsesStartingCoins(t *testing.T) {
	sess, err := NewSession(Deps{Config: testConfig(), Player: "carol"})
	require.NoError(t, err)
	defer sess.Close()

	assert.Equal(t, 5, sess.Controller.State().Coins)
}

func TestSessionPersistsRun(t *testing.T) {
	store := openStore(t)
	clock := clockwork.NewFakeClock()

	sess, err := NewSession(Deps{Config: testConfig(), Player: "dave", Store: store, Clock: clock})
	require.NoError(t, err)
	defer sess.Close()

	ctrl := sess.Controller
	ctrl.Start()
	ctrl.TapPlay()
	clock.Advance(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for !ctrl.State().GameOver {
		require.NoError(t, sess.Queue.RunNext(ctx))
	}

	coins, err := store.Wallet("dave", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, coins)

	games, err := store.RecentGames("dave", 10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "completed", games[0].Outcome)
	assert.Equal(t, 5, games[0].Cost)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	sess, err := NewSession(Deps{Config: testConfig(), Player: "erin"})
	require.NoError(t, err)

	sess.Close()
	sess.Close()
	assert.False(t, sess.Queue.Post(func() {}))
}

func TestSecondSessionForPlayerIsRefused(t *testing.T) {
	store := openStore(t)
	clock := clockwork.NewFakeClock()

	first, err := NewSession(Deps{Config: testConfig(), Player: "eve", Store: store, Clock: clock})
	require.NoError(t, err)
	defer first.Close()

	_, err = NewSession(Deps{Config: testConfig(), Player: "eve", Store: store, Clock: clock})
	assert.ErrorIs(t, err, storage.ErrPlayerBusy)

	other, err := NewSession(Deps{Config: testConfig(), Player: "frank", Store: store, Clock: clock})
	require.NoError(t, err)
	other.Close()

	// The first session spends the whole wallet; the next one sees it spent.
	first.Controller.Start()
	first.Controller.TapPlay()
	assert.Equal(t, 0, first.Controller.State().Coins)
	first.Close()

	second, err := NewSession(Deps{Config: testConfig(), Player: "eve", Store: store, Clock: clock})
	require.NoError(t, err)
	defer second.Close()
	assert.Equal(t, 0, second.Controller.State().Coins)

	games, err := store.RecentGames("eve", 10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "abandoned", games[0].Outcome)
}

func TestFailedSessionReleasesPlayer(t *testing.T) {
	store := openStore(t)
	cfg := testConfig()
	cfg.Ads.Provider = "nope"

	_, err := NewSession(Deps{Config: cfg, Player: "gina", Store: store})
	require.Error(t, err)

	sess, err := NewSession(Deps{Config: testConfig(), Player: "gina", Store: store})
	require.NoError(t, err)
	sess.Close()
}
