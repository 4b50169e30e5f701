package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

type fakeHistory struct {
	games  []storage.GameRecord
	events []storage.AdEvent
	err    error
}

func (f fakeHistory) RecentGames(string, int) ([]storage.GameRecord, error) {
	return f.games, f.err
}

func (f fakeHistory) RecentAdEvents(string, int) ([]storage.AdEvent, error) {
	return f.events, nil
}

func (f fakeHistory) GetPlayerStats(player string) (*storage.PlayerStats, error) {
	return &storage.PlayerStats{Player: player, Games: len(f.games), Completed: len(f.games)}, nil
}

func sampleHistory() fakeHistory {
	now := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	return fakeHistory{
		games: []storage.GameRecord{
			{Outcome: "completed", Cost: 5, Reward: 1, Duration: 10 * time.Second, CreatedAt: now},
			{Outcome: "abandoned", Cost: 5, Duration: 3500 * time.Millisecond, CreatedAt: now},
		},
		events: []storage.AdEvent{
			{Event: "rewarded", Amount: 10, RewardType: "coins", CreatedAt: now},
		},
	}
}

func TestHistoryShowsGamesThenAds(t *testing.T) {
	m := NewHistoryModel(sampleHistory(), "alice", 100, 30)

	if rows := len(m.table.Rows()); rows != 2 {
		t.Fatalf("games tab has %d rows, expected 2", rows)
	}
	if got := m.table.Rows()[1][4]; got != "3.5s" {
		t.Errorf("played column = %q, expected 3.5s", got)
	}
	view := m.View()
	if !strings.Contains(view, "HISTORY - alice") || !strings.Contains(view, "2 games (2 completed") {
		t.Errorf("unexpected history view:\n%s", view)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(HistoryModel)
	rows := m.table.Rows()
	if len(rows) != 1 || rows[0][2] != "+10 coins" {
		t.Errorf("ads tab rows = %v", rows)
	}
}

func TestHistoryBackAndQuit(t *testing.T) {
	m := NewHistoryModel(sampleHistory(), "alice", 100, 30)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(HistoryModel)
	if !m.IsGoingBack() || cmd != nil {
		t.Error("esc should close the history without quitting")
	}

	m = NewHistoryModel(sampleHistory(), "alice", 100, 30)
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(HistoryModel)
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("quitting view should be empty")
	}
}

func TestHistoryEmptyAndFailing(t *testing.T) {
	m := NewHistoryModel(nil, "bob", 80, 24)
	if !strings.Contains(m.View(), "No games recorded yet.") {
		t.Errorf("empty history view:\n%s", m.View())
	}

	m = NewHistoryModel(fakeHistory{err: errors.New("disk on fire")}, "bob", 80, 24)
	if !strings.Contains(m.View(), "disk on fire") {
		t.Errorf("failing history view:\n%s", m.View())
	}
}
