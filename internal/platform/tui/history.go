package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

// History layout constants
const (
	maxHistoryRows = 100
	historyChrome  = 9 // Title, tabs, stats, help and margins
)

// HistorySource is the part of the store the history view reads.
type HistorySource interface {
	RecentGames(player string, limit int) ([]storage.GameRecord, error)
	RecentAdEvents(player string, limit int) ([]storage.AdEvent, error)
	GetPlayerStats(player string) (*storage.PlayerStats, error)
}

type historyTab int

const (
	tabGames historyTab = iota
	tabAds
)

// HistoryKeyMap defines the key bindings for the history view.
type HistoryKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right"),
			key.WithHelp("tab", "games/ads"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "h"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for a player's game and ad history.
type HistoryModel struct {
	source    HistorySource
	player    string
	tab       historyTab
	games     []storage.GameRecord
	events    []storage.AdEvent
	stats     *storage.PlayerStats
	loadErr   error
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewHistoryModel creates a history view and loads the player's records.
// A nil source shows an empty history.
func NewHistoryModel(source HistorySource, player string, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		source: source,
		player: player,
		keys:   DefaultHistoryKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

func (m *HistoryModel) load() {
	m.games, m.events, m.stats, m.loadErr = nil, nil, nil, nil
	if m.source == nil {
		return
	}

	var err error
	if m.games, err = m.source.RecentGames(m.player, maxHistoryRows); err != nil {
		m.loadErr = err
		return
	}
	if m.events, err = m.source.RecentAdEvents(m.player, maxHistoryRows); err != nil {
		m.loadErr = err
		return
	}
	m.stats, m.loadErr = m.source.GetPlayerStats(m.player)
}

// createTable creates a table with the columns of the current tab.
func (m *HistoryModel) createTable() table.Model {
	var columns []table.Column
	switch m.tab {
	case tabAds:
		columns = []table.Column{
			{Title: "When", Width: 13},
			{Title: "Event", Width: 15},
			{Title: "Reward", Width: 10},
			{Title: "Detail", Width: 24},
		}
	default:
		columns = []table.Column{
			{Title: "When", Width: 13},
			{Title: "Outcome", Width: 10},
			{Title: "Cost", Width: 6},
			{Title: "Reward", Width: 7},
			{Title: "Played", Width: 8},
		}
	}

	height := m.height - historyChrome
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table from the loaded records.
func (m *HistoryModel) updateTableRows() {
	var rows []table.Row
	switch m.tab {
	case tabAds:
		rows = make([]table.Row, len(m.events))
		for i, e := range m.events {
			reward := ""
			if e.Amount > 0 {
				reward = fmt.Sprintf("+%d %s", e.Amount, e.RewardType)
			}
			rows[i] = table.Row{e.CreatedAt.Format("Jan 02 15:04"), e.Event, reward, e.Detail}
		}
	default:
		rows = make([]table.Row, len(m.games))
		for i, g := range m.games {
			rows[i] = table.Row{
				g.CreatedAt.Format("Jan 02 15:04"),
				g.Outcome,
				fmt.Sprintf("-%d", g.Cost),
				fmt.Sprintf("+%d", g.Reward),
				fmt.Sprintf("%.1fs", g.Duration.Seconds()),
			}
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history view.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextTab):
			m.tab = 1 - m.tab
			m.table = m.createTable()
			m.updateTableRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText("HISTORY - "+m.player, m.width)))
	b.WriteString("\n\n")

	tabs := []string{" Games ", " Ads "}
	for i := range tabs {
		if historyTab(i) == m.tab {
			tabs[i] = selectedStyle.Render(tabs[i])
		} else {
			tabs[i] = dimStyle.Render(tabs[i])
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	if m.stats != nil {
		b.WriteString(dimStyle.Render(StatsLine(m.stats)))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load history:\n" + m.loadErr.Error())
	case m.tab == tabGames && len(m.games) == 0:
		return emptyStyle.Render("No games recorded yet.\nSpend coins to play a round!")
	case m.tab == tabAds && len(m.events) == 0:
		return emptyStyle.Render("No ads watched yet.")
	}
	return m.table.View()
}

// IsGoingBack returns true if the user closed the history.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// StatsLine summarizes a player's statistics on one line.
func StatsLine(s *storage.PlayerStats) string {
	return fmt.Sprintf("%d games (%d completed, %d abandoned)  spent %d  earned %d  ads %d (+%d)",
		s.Games, s.Completed, s.Abandoned, s.CoinsSpent, s.CoinsEarned, s.AdsWatched, s.AdCoins)
}

// RunHistory runs the history screen on its own.
func RunHistory(source HistorySource, player string, width, height int) error {
	p := tea.NewProgram(
		historyProgram{NewHistoryModel(source, player, width, height)},
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// historyProgram quits when the standalone history view is closed.
type historyProgram struct {
	HistoryModel
}

func (p historyProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := p.HistoryModel.Update(msg)
	p.HistoryModel = next.(HistoryModel)
	if p.IsGoingBack() {
		return p, tea.Quit
	}
	return p, cmd
}
