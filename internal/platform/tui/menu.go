package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
)

// MenuItemID identifies an options menu entry.
type MenuItemID int

const (
	MenuPrivacy MenuItemID = iota
	MenuInspector
	MenuHistory
	MenuClose
)

// MenuItem represents a selectable entry in the options menu.
type MenuItem struct {
	ID    MenuItemID
	Title string
}

// MenuModel is the options menu shown over the game.
type MenuModel struct {
	items  []MenuItem
	cursor int
}

// NewMenuModel builds the menu. The privacy entry is only offered where
// privacy options are required.
func NewMenuModel(privacyVisible bool) MenuModel {
	items := make([]MenuItem, 0, 4)
	if privacyVisible {
		items = append(items, MenuItem{ID: MenuPrivacy, Title: "Privacy settings"})
	}
	items = append(items,
		MenuItem{ID: MenuInspector, Title: "Ad inspector"},
		MenuItem{ID: MenuHistory, Title: "History"},
		MenuItem{ID: MenuClose, Title: "Back to game"},
	)
	return MenuModel{items: items}
}

// Up moves the cursor up.
func (m *MenuModel) Up() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// Down moves the cursor down.
func (m *MenuModel) Down() {
	if m.cursor < len(m.items)-1 {
		m.cursor++
	}
}

// Selected returns the item under the cursor.
func (m MenuModel) Selected() MenuItem {
	return m.items[m.cursor]
}

// Items returns the menu entries.
func (m MenuModel) Items() []MenuItem {
	return m.items
}

// View renders the menu panel.
func (m MenuModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("OPTIONS"))
	b.WriteString("\n\n")

	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + item.Title))
		} else {
			b.WriteString("  " + item.Title)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Esc: Back"))
	return panelStyle.Render(b.String())
}

// inspectorView renders an ad inspector report.
func inspectorView(r ads.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AD INSPECTOR"))
	b.WriteString("\n\n")

	initialized := "no"
	if r.Initialized {
		initialized = "yes"
	}
	rows := [][2]string{
		{"Provider", r.Provider},
		{"Initialized", initialized},
		{"Requests", fmt.Sprint(r.Requests)},
		{"Fills", fmt.Sprintf("%d (%.0f%%)", r.Fills, r.FillRate()*100)},
		{"No fills", fmt.Sprint(r.NoFills)},
		{"Shows", fmt.Sprint(r.Shows)},
		{"Show failures", fmt.Sprint(r.ShowFailures)},
		{"Rewards", fmt.Sprint(r.Rewards)},
		{"Test devices", strings.Join(r.TestDevices, ", ")},
	}

	label := lipgloss.NewStyle().Width(15).Foreground(lipgloss.Color("245"))
	for _, row := range rows {
		b.WriteString(label.Render(row[0]))
		b.WriteString(row[1])
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Esc: Back"))
	return panelStyle.Render(b.String())
}

// consentView renders the consent prompt.
func consentView(privacyOptions bool) string {
	var b strings.Builder
	title := "YOUR PRIVACY"
	if privacyOptions {
		title = "PRIVACY SETTINGS"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString("This game shows rewarded video ads to earn coins.\n")
	b.WriteString("Ad partners may use your data to personalize ads.\n\n")
	b.WriteString("  [y] Consent to personalized ads\n")
	b.WriteString("  [l] Allow limited, non-personalized ads\n")
	b.WriteString("  [n] Do not consent\n")
	return panelStyle.Render(b.String())
}
