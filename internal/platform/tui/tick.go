// Package tui provides the Bubble Tea front end for the rewarded arcade.
// It drains the session loop inside Update, maps keys to controller calls and
// turns focus changes into pause and resume.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rewarded-arcade/internal/loop"
)

// FrameMsg is sent to advance animations and redraw ad progress.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends frame messages at the specified rate.
func frameCmd(frameRate int) tea.Cmd {
	if frameRate <= 0 {
		frameRate = 20
	}
	interval := time.Second / time.Duration(frameRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

// loopMsg carries one loop callback into Update, where it runs.
type loopMsg struct {
	fn func()
}

// loopClosedMsg reports that the session loop has stopped.
type loopClosedMsg struct{}

// waitForLoop blocks until the next loop callback is queued.
func waitForLoop(q *loop.Queue) tea.Cmd {
	return func() tea.Msg {
		fn, err := q.Next(context.Background())
		if err != nil {
			return loopClosedMsg{}
		}
		return loopMsg{fn: fn}
	}
}
