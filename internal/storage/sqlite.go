// Package storage provides SQLite-based persistence for wallets, consent,
// game history and ad events.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/rewarded-arcade/internal/consent"
)

// ErrPlayerBusy is returned by Claim while another session holds the player.
var ErrPlayerBusy = errors.New("storage: player already has a live session")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	claimed map[string]struct{}
}

// WalletEntry is a player's coin balance.
type WalletEntry struct {
	Player    string
	Coins     int
	UpdatedAt time.Time
}

// GameRecord is one finished or abandoned run.
type GameRecord struct {
	ID        string
	Player    string
	Outcome   string // "completed" or "abandoned"
	Cost      int
	Reward    int
	Duration  time.Duration // Countdown time played
	CreatedAt time.Time
}

// AdEvent is one step of an ad's lifecycle.
type AdEvent struct {
	ID         string
	Player     string
	UnitID     string
	AdID       string
	Event      string // "loaded", "failed_to_load", "showed", "rewarded", "dismissed", "failed_to_show"
	Amount     int
	RewardType string
	Detail     string
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS wallets (
			player TEXT PRIMARY KEY,
			coins INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS consent (
			player TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			personalized INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			outcome TEXT NOT NULL,
			cost INTEGER NOT NULL DEFAULT 0,
			reward INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_player ON games(player, created_at DESC);

		CREATE TABLE IF NOT EXISTS ad_events (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			unit_id TEXT NOT NULL,
			ad_id TEXT,
			event TEXT NOT NULL,
			amount INTEGER NOT NULL DEFAULT 0,
			reward_type TEXT,
			detail TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_ad_events_player ON ad_events(player, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Wallet returns the player's balance, or fallback when the player has no
// wallet yet.
func (s *Store) Wallet(player string, fallback int) (int, error) {
	var coins int
	err := s.db.QueryRow("SELECT coins FROM wallets WHERE player = ?", player).Scan(&coins)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query wallet: %w", err)
	}
	return coins, nil
}

// SaveWallet stores the player's balance.
func (s *Store) SaveWallet(player string, coins int) error {
	_, err := s.db.Exec(
		`INSERT INTO wallets (player, coins, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player) DO UPDATE SET coins = excluded.coins, updated_at = CURRENT_TIMESTAMP`,
		player, coins,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save wallet: %w", err)
	}
	return nil
}

// Wallets lists every wallet, richest first.
func (s *Store) Wallets() ([]WalletEntry, error) {
	rows, err := s.db.Query(
		`SELECT player, coins, updated_at FROM wallets ORDER BY coins DESC, player`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query wallets: %w", err)
	}
	defer rows.Close()

	var entries []WalletEntry
	for rows.Next() {
		var e WalletEntry
		var updatedAt any
		if err := rows.Scan(&e.Player, &e.Coins, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// LoadConsent implements consent.Store.
func (s *Store) LoadConsent(player string) (consent.Record, bool, error) {
	var rec consent.Record
	var status string
	var updatedAt any

	err := s.db.QueryRow(
		"SELECT status, personalized, updated_at FROM consent WHERE player = ?",
		player,
	).Scan(&status, &rec.Personalized, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return consent.Record{}, false, nil
	}
	if err != nil {
		return consent.Record{}, false, fmt.Errorf("storage: cannot query consent: %w", err)
	}

	rec.Status = consent.Status(status)
	rec.UpdatedAt = parseTime(updatedAt)
	return rec, true, nil
}

// SaveConsent implements consent.Store.
func (s *Store) SaveConsent(player string, rec consent.Record) error {
	_, err := s.db.Exec(
		`INSERT INTO consent (player, status, personalized, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player) DO UPDATE SET
		   status = excluded.status,
		   personalized = excluded.personalized,
		   updated_at = CURRENT_TIMESTAMP`,
		player, string(rec.Status), rec.Personalized,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save consent: %w", err)
	}
	return nil
}

// ClearConsent implements consent.Store.
func (s *Store) ClearConsent(player string) error {
	if _, err := s.db.Exec("DELETE FROM consent WHERE player = ?", player); err != nil {
		return fmt.Errorf("storage: cannot clear consent: %w", err)
	}
	return nil
}

// Ensure Store implements consent.Store
var _ consent.Store = (*Store)(nil)

// SaveGame records a run. An empty ID is replaced by a new UUID, which is
// returned.
func (s *Store) SaveGame(g GameRecord) (string, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO games (id, player, outcome, cost, reward, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Player, g.Outcome, g.Cost, g.Reward, g.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save game: %w", err)
	}
	return g.ID, nil
}

// RecentGames retrieves the player's most recent runs, newest first.
func (s *Store) RecentGames(player string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, player, outcome, cost, reward, duration_ms, created_at
		 FROM games
		 WHERE player = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		var durationMs int64
		var createdAt any
		if err := rows.Scan(&g.ID, &g.Player, &g.Outcome, &g.Cost, &g.Reward, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		g.Duration = time.Duration(durationMs) * time.Millisecond
		g.CreatedAt = parseTime(createdAt)
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return games, nil
}

// SaveAdEvent records an ad lifecycle event. An empty ID is replaced by a new
// UUID, which is returned.
func (s *Store) SaveAdEvent(e AdEvent) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO ad_events (id, player, unit_id, ad_id, event, amount, reward_type, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Player, e.UnitID, e.AdID, e.Event, e.Amount, e.RewardType, e.Detail,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save ad event: %w", err)
	}
	return e.ID, nil
}

// RecentAdEvents retrieves the player's most recent ad events, newest first.
func (s *Store) RecentAdEvents(player string, limit int) ([]AdEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, player, unit_id, ad_id, event, amount, reward_type, detail, created_at
		 FROM ad_events
		 WHERE player = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query ad events: %w", err)
	}
	defer rows.Close()

	var events []AdEvent
	for rows.Next() {
		var e AdEvent
		var adID, rewardType, detail sql.NullString
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.UnitID, &adID, &e.Event, &e.Amount, &rewardType, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.AdID = adID.String
		e.RewardType = rewardType.String
		e.Detail = detail.String
		e.CreatedAt = parseTime(createdAt)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return events, nil
}

// PlayerStats contains aggregated statistics for a player.
type PlayerStats struct {
	Player      string
	Games       int
	Completed   int
	Abandoned   int
	CoinsSpent  int
	CoinsEarned int // From finished runs
	AdsWatched  int // Ads that reported a reward
	AdCoins     int // Coins granted by ads
	LastPlayed  time.Time
}

// GetPlayerStats retrieves aggregated statistics for a player.
func (s *Store) GetPlayerStats(player string) (*PlayerStats, error) {
	stats := &PlayerStats{Player: player}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'completed' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome = 'abandoned' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(cost), 0),
		        COALESCE(SUM(reward), 0)
		 FROM games WHERE player = ?`,
		player,
	).Scan(&stats.Games, &stats.Completed, &stats.Abandoned, &stats.CoinsSpent, &stats.CoinsEarned)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(amount), 0)
		 FROM ad_events WHERE player = ? AND event = 'rewarded'`,
		player,
	).Scan(&stats.AdsWatched, &stats.AdCoins)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get ad stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM games WHERE player = ? ORDER BY created_at DESC LIMIT 1`,
		player,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Claim reserves player for one live session so that two sessions never spend
// from the same wallet. The returned release is safe to call more than once.
// Claims are held in memory and only exclude sessions sharing this Store.
func (s *Store) Claim(player string) (release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claimed[player]; ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerBusy, player)
	}
	if s.claimed == nil {
		s.claimed = make(map[string]struct{})
	}
	s.claimed[player] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.claimed, player)
			s.mu.Unlock()
		})
	}, nil
}
