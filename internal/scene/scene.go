// Package scene draws the coin game into a core.Screen. It only reads the
// session display and the ad playback; it never changes state.
package scene

import (
	"fmt"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
	"github.com/vovakirdan/rewarded-arcade/internal/core"
	"github.com/vovakirdan/rewarded-arcade/internal/session"
)

// Frame is everything needed to draw one frame.
type Frame struct {
	Display  session.Display
	Playback ads.Playback // Non-nil while an ad with progress is showing
	Toast    string
	Tick     int // Animation counter, advanced by the UI
}

const (
	minWidth  = 30
	minHeight = 12
)

var runnerFrames = []string{"o/", "o|", "o\\", "o|"}

// Draw renders f onto s, replacing its content.
func Draw(s *core.Screen, f Frame) {
	s.Clear()
	w, h := s.Width(), s.Height()
	if w < minWidth || h < minHeight {
		s.DrawTextCentered(h/2, "Terminal too small", core.ColorAlert)
		return
	}

	s.DrawBox(core.NewRect(0, 0, w, h), core.ColorGray)
	drawHeader(s, f.Display)

	if f.Display.Title != "" {
		s.DrawTextCentered(2, f.Display.Title, core.ColorWhite)
	}

	if f.Playback != nil {
		drawAd(s, f.Playback)
	} else {
		drawTrack(s, f)
	}

	drawFooter(s, f)
}

func drawHeader(s *core.Screen, d session.Display) {
	s.DrawTextColored(2, 1, "$ "+d.CoinText, core.ColorCoin)

	status := d.AdStatus
	color := core.ColorGray
	switch status {
	case "Ad ready":
		color = core.ColorReward
	case "Ads unavailable":
		color = core.ColorAlert
	case "Ad showing":
		color = core.ColorAd
	}
	s.DrawTextColored(s.Width()-2-len([]rune(status)), 1, status, color)
}

// drawTrack draws the runner crossing the ground line, positioned by the
// run's progress so a paused run stands still.
func drawTrack(s *core.Screen, f Frame) {
	w, h := s.Width(), s.Height()
	ground := h - 5
	s.DrawHLine(1, ground, w-2, '▁', core.ColorGround)

	d := f.Display
	trackW := w - 8
	x := core.Clamp(3+int(d.Progress*float64(trackW)), 3, w-6)

	sprite := "o|"
	if d.Playing && !d.Paused {
		sprite = runnerFrames[f.Tick%len(runnerFrames)]
	}
	if d.Playing {
		s.DrawTextColored(x, ground-1, sprite, core.ColorRunner)
	}
	s.SetColored(w-4, ground-1, '◎', core.ColorCoin)

	if d.TimerText != "" {
		color := core.ColorWhite
		if d.Paused {
			color = core.ColorYellow
		}
		s.DrawTextCentered(ground-3, d.TimerText, color)
	}
	if d.Playing {
		s.DrawProgress(3, ground+1, trackW, d.Progress, core.ColorRunner, core.ColorGray)
	}
}

// drawAd draws the showing ad: headline, video progress and time left.
func drawAd(s *core.Screen, p ads.Playback) {
	w, h := s.Width(), s.Height()
	box := core.NewRect(4, 4, w-8, h-9)
	s.DrawBox(box, core.ColorAd)
	s.DrawTextCentered(box.Y+1, p.Headline(), core.ColorAd)

	elapsed, total := p.Progress()
	fraction := 0.0
	if total > 0 {
		fraction = core.ClampF(float64(elapsed)/float64(total), 0, 1)
	}
	barY := box.Y + box.H/2

	// Video area
	if video := core.NewRect(box.X+2, box.Y+3, box.W-4, barY-box.Y-4); video.H > 0 {
		s.DrawRect(video, '░', core.ColorGray)
	}
	s.DrawProgress(box.X+2, barY, box.W-4, fraction, core.ColorAd, core.ColorGray)

	left := session.Seconds(total - elapsed)
	s.DrawTextCentered(barY+1, fmt.Sprintf("reward in %ds", left), core.ColorReward)
}

func drawFooter(s *core.Screen, f Frame) {
	h := s.Height()
	if f.Toast != "" {
		s.DrawTextCentered(h-3, f.Toast, core.ColorAlert)
	}

	d := f.Display
	var hints []string
	if d.PlayVisible {
		hints = append(hints, "[space] play")
	}
	if d.ShowAdVisible {
		hints = append(hints, "[a] watch ad")
	}
	if f.Playback != nil {
		hints = append(hints, "[x] close ad")
	}
	line := ""
	for i, hint := range hints {
		if i > 0 {
			line += "   "
		}
		line += hint
	}
	s.DrawTextCentered(h-2, line, core.ColorGray)
}
