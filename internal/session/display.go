package session

import (
	"fmt"
	"time"
)

// Display is the UI derived from a State. Front ends render it verbatim.
type Display struct {
	CoinText           string
	Title              string
	TimerText          string
	AdStatus           string
	PlayVisible        bool
	ShowAdVisible      bool
	PrivacyItemVisible bool
	Playing            bool
	Paused             bool
	Progress           float64 // Fraction of the current run already elapsed
}

// Render derives the UI for s. It is a pure function of its inputs.
func Render(s State, r Rules) Display {
	d := Display{
		CoinText:           fmt.Sprintf("Coins: %d", s.Coins),
		PlayVisible:        s.CanPlay(r) && !s.AdShowing,
		ShowAdVisible:      !s.AdShowing,
		PrivacyItemVisible: s.PrivacyOptionsRequired,
		Playing:            s.Playing && !s.GameOver,
		Paused:             s.Paused,
		AdStatus:           adStatus(s),
	}

	switch {
	case d.Playing:
		d.Title = "Collect coins!"
	case s.CanPlay(r):
		d.Title = fmt.Sprintf("Spend %d coins to play", r.Cost)
	default:
		d.Title = "Watch an ad to earn coins"
	}

	switch {
	case d.Playing && s.Paused:
		d.TimerText = fmt.Sprintf("paused: %d seconds remaining", Seconds(s.Remaining))
	case d.Playing:
		d.TimerText = fmt.Sprintf("seconds remaining: %d", Seconds(s.Remaining))
	case s.Ended:
		d.TimerText = "The game has ended!"
	}

	if d.Playing && r.Duration > 0 {
		d.Progress = 1 - float64(s.Remaining)/float64(r.Duration)
		if d.Progress < 0 {
			d.Progress = 0
		}
		if d.Progress > 1 {
			d.Progress = 1
		}
	}
	return d
}

// Seconds rounds a remaining duration up to whole seconds, so the label shows
// 10 for the full countdown and 1 right before the end.
func Seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func adStatus(s State) string {
	switch {
	case s.AdShowing:
		return "Ad showing"
	case s.AdReady:
		return "Ad ready"
	case s.AdLoading:
		return "Loading ad..."
	case !s.CanRequestAds:
		return "Ads unavailable"
	default:
		return "No ad loaded"
	}
}
