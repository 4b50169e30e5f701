package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/app"
	"github.com/vovakirdan/rewarded-arcade/internal/config"
	"github.com/vovakirdan/rewarded-arcade/internal/consent"
	"github.com/vovakirdan/rewarded-arcade/internal/core"
	"github.com/vovakirdan/rewarded-arcade/internal/loop"
	"github.com/vovakirdan/rewarded-arcade/internal/scene"
	"github.com/vovakirdan/rewarded-arcade/internal/screen"
	"github.com/vovakirdan/rewarded-arcade/internal/session"
	"github.com/vovakirdan/rewarded-arcade/internal/storage"
)

const (
	toastDuration = 3 * time.Second
	queueSize     = 256
)

type overlay int

const (
	overlayNone overlay = iota
	overlayMenu
	overlayInspector
	overlayHistory
)

// view receives controller updates. The controller calls it from Update,
// where loop callbacks run, so it needs no locking.
type view struct {
	display     session.Display
	toast       string
	toastFrames int
	frameRate   int
	report      *ads.Report
}

func (v *view) Refresh(d session.Display) { v.display = d }

func (v *view) Notify(msg string) {
	v.toast = msg
	v.toastFrames = int(toastDuration.Seconds() * float64(v.frameRate))
}

func (v *view) ShowInspector(r ads.Report) { v.report = &r }

var _ screen.Listener = (*view)(nil)

// Options configure a game model.
type Options struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Store   *storage.Store // Optional
	Clock   clockwork.Clock
	Logger  *log.Logger
}

// Model is the Bubble Tea model of one player's game screen.
type Model struct {
	sess     *app.Session
	ctrl     *screen.Controller
	form     *PromptForm
	view     *view
	history  HistoryModel
	source   HistorySource
	screen   *core.Screen
	config   core.RuntimeConfig
	keys     KeyMap
	help     help.Model
	overlay  overlay
	menu     MenuModel
	frame    int
	quitting bool
}

// NewModel wires a session for the configured player.
func NewModel(opts Options) (Model, error) {
	cfg := opts.Runtime
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = core.DefaultConfig().FrameRate
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	queue := loop.NewQueue(queueSize)
	form := NewPromptForm(queue.Post)
	v := &view{frameRate: cfg.FrameRate}

	// The prompt answers only in "ask" mode; other modes answer automatically.
	var f consent.Form
	if opts.Config.Consent.Mode == config.ConsentModeAsk {
		f = form
	}

	sess, err := app.NewSession(app.Deps{
		Config:   opts.Config,
		Player:   cfg.Player,
		Store:    opts.Store,
		Queue:    queue,
		Clock:    opts.Clock,
		Seed:     cfg.Seed,
		Form:     f,
		Listener: v,
		Logger:   opts.Logger,
	})
	if err != nil {
		queue.Close()
		return Model{}, err
	}

	var source HistorySource
	if opts.Store != nil {
		source = opts.Store
	}

	m := Model{
		sess:   sess,
		ctrl:   sess.Controller,
		form:   form,
		view:   v,
		source: source,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH-1),
		config: cfg,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	m.view.display = m.ctrl.Display()
	m.syncKeys()
	return m, nil
}

// Init starts the session and the frame loop.
func (m Model) Init() tea.Cmd {
	m.ctrl.Start()
	return tea.Batch(waitForLoop(m.sess.Queue), frameCmd(m.config.FrameRate))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loopMsg:
		msg.fn()
		m.afterLoop()
		return m, waitForLoop(m.sess.Queue)

	case loopClosedMsg:
		return m, nil

	case FrameMsg:
		m.frame++
		if m.view.toastFrames > 0 {
			m.view.toastFrames--
			if m.view.toastFrames == 0 {
				m.view.toast = ""
			}
		}
		return m, frameCmd(m.config.FrameRate)

	case tea.FocusMsg:
		// The privacy form resumes the run when it closes.
		if open, _ := m.form.Pending(); !open {
			m.ctrl.Resume()
		}
		m.afterLoop()
		return m, nil

	case tea.BlurMsg:
		m.ctrl.Pause()
		m.afterLoop()
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// afterLoop reacts to controller output produced since the last message.
func (m *Model) afterLoop() {
	if m.view.report != nil && m.overlay != overlayHistory {
		m.overlay = overlayInspector
	}
	m.syncKeys()
}

// syncKeys enables only the bindings of visible buttons.
func (m *Model) syncKeys() {
	d := m.view.display
	_, showing := m.ctrl.Playback()
	m.keys.Play.SetEnabled(d.PlayVisible)
	m.keys.ShowAd.SetEnabled(d.ShowAdVisible)
	m.keys.CloseAd.SetEnabled(showing)
	m.keys.History.SetEnabled(m.source != nil)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height-1)
	m.help.Width = msg.Width
	if m.overlay == overlayHistory {
		next, cmd := m.history.Update(msg)
		m.history = next.(HistoryModel)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input for the active context.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if open, _ := m.form.Pending(); open {
		return m.handleConsentKey(msg)
	}

	switch m.overlay {
	case overlayHistory:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		next, cmd := m.history.Update(msg)
		m.history = next.(HistoryModel)
		switch {
		case m.history.IsQuitting():
			return m.quit()
		case m.history.IsGoingBack():
			m.overlay = overlayNone
		}
		return m, cmd

	case overlayMenu:
		return m.handleMenuKey(msg)

	case overlayInspector:
		switch m.keys.Action(ContextOverlay, msg) {
		case core.ActionQuit:
			return m.quit()
		case core.ActionBack, core.ActionConfirm:
			m.view.report = nil
			m.overlay = overlayNone
		}
		return m, nil
	}

	switch m.keys.Action(ContextGame, msg) {
	case core.ActionQuit:
		return m.quit()
	case core.ActionPlay:
		m.ctrl.TapPlay()
	case core.ActionShowAd:
		m.ctrl.TapShowAd()
	case core.ActionCloseAd:
		m.ctrl.CloseAd()
	case core.ActionMenu:
		m.menu = NewMenuModel(m.view.display.PrivacyItemVisible)
		m.overlay = overlayMenu
	case core.ActionHistory:
		m.openHistory()
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}
	m.afterLoop()
	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Action(ContextOverlay, msg) {
	case core.ActionQuit:
		return m.quit()
	case core.ActionUp:
		m.menu.Up()
	case core.ActionDown:
		m.menu.Down()
	case core.ActionBack:
		m.overlay = overlayNone
	case core.ActionConfirm:
		m.overlay = overlayNone
		switch m.menu.Selected().ID {
		case MenuPrivacy:
			m.ctrl.OpenPrivacyOptions()
		case MenuInspector:
			m.ctrl.OpenAdInspector()
		case MenuHistory:
			m.openHistory()
		}
	}
	m.afterLoop()
	return m, nil
}

func (m Model) handleConsentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Action(ContextConsent, msg) {
	case core.ActionQuit:
		return m.quit()
	case core.ActionAccept:
		m.form.Answer(consent.DecisionPersonalized)
	case core.ActionLimit:
		m.form.Answer(consent.DecisionNonPersonalized)
	case core.ActionDecline:
		m.form.Answer(consent.DecisionDismissed)
	}
	return m, nil
}

func (m *Model) openHistory() {
	if m.source == nil {
		m.view.Notify("History needs a database")
		return
	}
	m.history = NewHistoryModel(m.source, m.sess.Player, m.config.ScreenW, m.config.ScreenH)
	m.overlay = overlayHistory
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.sess.Close()
	return m, tea.Quit
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.overlay == overlayHistory {
		return m.history.View()
	}

	w, h := m.config.ScreenW, m.config.ScreenH-1
	var body string
	open, privacyOptions := m.form.Pending()
	switch {
	case open:
		body = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, consentView(privacyOptions))
	case m.overlay == overlayMenu:
		body = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.menu.View())
	case m.overlay == overlayInspector && m.view.report != nil:
		body = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, inspectorView(*m.view.report))
	default:
		frame := scene.Frame{
			Display: m.view.display,
			Toast:   m.view.toast,
			Tick:    m.frame,
		}
		if p, ok := m.ctrl.Playback(); ok {
			frame.Playback = p
		}
		scene.Draw(m.screen, frame)
		body = RenderScreen(m.screen)
	}

	return body + "\n" + dimStyle.Render(m.help.View(m.keys))
}

// Display returns what the game screen currently shows.
func (m Model) Display() session.Display {
	return m.view.display
}

// Close ends the session. It is safe to call after the model quit.
func (m Model) Close() {
	if m.sess != nil {
		m.sess.Close()
	}
}

// Run starts the Bubble Tea program for a local player.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	_, err = p.Run()
	return err
}
