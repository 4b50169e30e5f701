package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rewarded-arcade/internal/core"
)

// KeyMap defines the key bindings of the game screen and its overlays.
type KeyMap struct {
	Play    key.Binding
	ShowAd  key.Binding
	CloseAd key.Binding
	Menu    key.Binding
	History key.Binding
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Back    key.Binding
	Accept  key.Binding
	Limit   key.Binding
	Decline key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.ShowAd, k.CloseAd, k.Menu, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.ShowAd, k.CloseAd},
		{k.Menu, k.History, k.Back},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Play: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "play"),
		),
		ShowAd: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "watch ad"),
		),
		CloseAd: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close ad"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "menu"),
		),
		History: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "history"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Accept: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "consent"),
		),
		Limit: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "limited ads"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "decline"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Context selects which bindings a key press is matched against.
type Context int

const (
	ContextGame    Context = iota // Main screen
	ContextOverlay                // Menu, inspector or history
	ContextConsent                // Consent prompt
)

// Action translates a key message to an action in the given context.
// Ctrl+C always quits; other keys mean different things per context.
func (k KeyMap) Action(ctx Context, msg tea.KeyMsg) core.Action {
	if msg.String() == "ctrl+c" {
		return core.ActionQuit
	}

	switch ctx {
	case ContextConsent:
		switch {
		case key.Matches(msg, k.Accept):
			return core.ActionAccept
		case key.Matches(msg, k.Limit):
			return core.ActionLimit
		case key.Matches(msg, k.Decline):
			return core.ActionDecline
		}

	case ContextOverlay:
		switch {
		case key.Matches(msg, k.Quit):
			return core.ActionQuit
		case key.Matches(msg, k.Up):
			return core.ActionUp
		case key.Matches(msg, k.Down):
			return core.ActionDown
		case key.Matches(msg, k.Confirm):
			return core.ActionConfirm
		case key.Matches(msg, k.Back), key.Matches(msg, k.Menu):
			return core.ActionBack
		}

	default:
		switch {
		case key.Matches(msg, k.Quit):
			return core.ActionQuit
		case key.Matches(msg, k.Play):
			return core.ActionPlay
		case key.Matches(msg, k.ShowAd):
			return core.ActionShowAd
		case key.Matches(msg, k.CloseAd):
			return core.ActionCloseAd
		case key.Matches(msg, k.Menu):
			return core.ActionMenu
		case key.Matches(msg, k.History):
			return core.ActionHistory
		case key.Matches(msg, k.Help):
			return core.ActionHelp
		}
	}

	return core.ActionNone
}
