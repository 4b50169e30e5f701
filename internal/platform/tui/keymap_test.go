package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rewarded-arcade/internal/core"
)

func TestKeyMapActions(t *testing.T) {
	k := DefaultKeyMap()

	tests := []struct {
		ctx  Context
		key  tea.KeyMsg
		want core.Action
	}{
		{ContextGame, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionPlay},
		{ContextGame, tea.KeyMsg{Type: tea.KeyEnter}, core.ActionPlay},
		{ContextGame, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, core.ActionShowAd},
		{ContextGame, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, core.ActionCloseAd},
		{ContextGame, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")}, core.ActionMenu},
		{ContextGame, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")}, core.ActionHistory},
		{ContextGame, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")}, core.ActionHelp},
		{ContextGame, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, core.ActionQuit},
		{ContextGame, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, core.ActionNone},
		{ContextOverlay, tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{ContextOverlay, tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{ContextOverlay, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, core.ActionDown},
		{ContextOverlay, tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{ContextOverlay, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")}, core.ActionBack},
		{ContextConsent, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}, core.ActionAccept},
		{ContextConsent, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")}, core.ActionLimit},
		{ContextConsent, tea.KeyMsg{Type: tea.KeyEsc}, core.ActionDecline},
		{ContextConsent, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, core.ActionNone},
		{ContextConsent, tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
	}

	for _, tt := range tests {
		if got := k.Action(tt.ctx, tt.key); got != tt.want {
			t.Errorf("Action(%d, %q) = %v, expected %v", tt.ctx, tt.key.String(), got, tt.want)
		}
	}
}

func TestKeyMapDisabledBindingIsIgnored(t *testing.T) {
	k := DefaultKeyMap()
	k.Play.SetEnabled(false)

	if got := k.Action(ContextGame, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}); got != core.ActionNone {
		t.Errorf("disabled play binding produced %v", got)
	}
}

func TestMenuModel(t *testing.T) {
	m := NewMenuModel(false)
	if len(m.Items()) != 3 {
		t.Fatalf("menu without privacy entry has %d items, expected 3", len(m.Items()))
	}

	m = NewMenuModel(true)
	if m.Selected().ID != MenuPrivacy {
		t.Errorf("first entry = %v, expected privacy settings", m.Selected().Title)
	}

	m.Up()
	if m.Selected().ID != MenuPrivacy {
		t.Error("cursor should not move above the first entry")
	}
	for i := 0; i < 10; i++ {
		m.Down()
	}
	if m.Selected().ID != MenuClose {
		t.Errorf("cursor should stop at the last entry, got %v", m.Selected().Title)
	}
}
