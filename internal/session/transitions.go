package session

import "time"

// Play starts a run when the balance covers it: the cost is debited, a fresh
// countdown replaces any running one, and an ad load is kicked off when none
// is held or in flight and consent allows it.
func Play(s State, r Rules) (State, []Effect) {
	if s.AdShowing || !s.CanPlay(r) {
		return s, []Effect{refresh()}
	}

	var effects []Effect
	if s.inRun() {
		effects = append(effects, Effect{
			Kind:    EffectRecordGame,
			Outcome: OutcomeAbandoned,
			Played:  r.Duration - s.Remaining,
		})
	}

	next, debit, err := ConsumeCoins(s, r.Cost)
	if err != nil {
		return s, []Effect{refresh()}
	}
	s = next
	effects = append(effects, debit...)

	s.Playing = true
	s.Paused = false
	s.GameOver = false
	s.Ended = false
	s.resumeAfterAd = false
	s.Remaining = r.Duration
	effects = append(effects, Effect{Kind: EffectStartCountdown, Duration: r.Duration}, refresh())

	s, load := requestAd(s)
	return s, append(effects, load...)
}

// Tick records the remaining time reported by the live countdown.
func Tick(s State, remaining time.Duration) (State, []Effect) {
	if !s.Playing || s.Paused {
		return s, nil
	}
	if remaining < 0 {
		remaining = 0
	}
	s.Remaining = remaining
	return s, []Effect{refresh()}
}

// Finish ends a run whose countdown reached zero and credits the reward.
func Finish(s State, r Rules) (State, []Effect) {
	if !s.Playing || s.Paused {
		return s, nil
	}
	s.Playing = false
	s.GameOver = true
	s.Ended = true
	s.Remaining = 0

	s, credit := AddCoins(s, r.Reward)
	effects := []Effect{{
		Kind:    EffectRecordGame,
		Outcome: OutcomeCompleted,
		Coins:   r.Reward,
		Played:  r.Duration,
	}}
	return s, append(effects, credit...)
}

// Quit ends the session. A run still in progress, paused or not, is recorded
// as abandoned; its cost stays spent.
func Quit(s State, r Rules) (State, []Effect) {
	if !s.inRun() {
		return s, nil
	}
	effects := []Effect{
		{Kind: EffectCancelCountdown},
		{Kind: EffectRecordGame, Outcome: OutcomeAbandoned, Played: r.Duration - s.Remaining},
	}
	s.Playing = false
	s.Paused = false
	s.resumeAfterAd = false
	return s, effects
}

// Pause stops the countdown, keeping Remaining for Resume. Pausing a finished
// or already paused game does nothing.
func Pause(s State) (State, []Effect) {
	if s.GameOver || s.Paused || !s.Playing {
		return s, nil
	}
	s.Paused = true
	return s, []Effect{{Kind: EffectCancelCountdown}, refresh()}
}

// Resume restarts the countdown for exactly the remaining time. Resuming a
// game that is not paused, or while an ad covers the screen, does nothing.
func Resume(s State) (State, []Effect) {
	if s.GameOver || !s.Paused || s.AdShowing {
		return s, nil
	}
	s.Paused = false
	return s, []Effect{{Kind: EffectStartCountdown, Duration: s.Remaining}, refresh()}
}

// RequestAd asks for an ad load outside of play, e.g. once the SDK is ready.
func RequestAd(s State) (State, []Effect) {
	s, effects := requestAd(s)
	return s, append(effects, refresh())
}

// AdLoaded marks the pending request as filled.
func AdLoaded(s State) (State, []Effect) {
	s.AdLoading = false
	s.AdReady = true
	return s, []Effect{refresh()}
}

// AdFailedToLoad returns the ad slot to empty. No retry is scheduled; the
// next play or show request tries again.
func AdFailedToLoad(s State) (State, []Effect) {
	s.AdLoading = false
	s.AdReady = false
	return s, []Effect{refresh()}
}

// ShowAd presents the ready ad, pausing a run in progress while it covers the
// screen. Without a ready ad it triggers a load instead.
func ShowAd(s State) (State, []Effect) {
	if s.AdShowing {
		return s, nil
	}
	if !s.AdReady {
		s, effects := requestAd(s)
		return s, append(effects, refresh())
	}

	var effects []Effect
	if paused, pause := Pause(s); len(pause) > 0 {
		s = paused
		s.resumeAfterAd = true
		effects = append(effects, pause...)
	}
	s.AdShowing = true
	return s, append(effects, Effect{Kind: EffectShowAd}, refresh())
}

// AdDismissed discards the consumed ad, resumes a run the ad interrupted and
// requests the next ad.
func AdDismissed(s State) (State, []Effect) {
	s, effects := adClosed(s)
	s, load := requestAd(s)
	return s, append(effects, load...)
}

// AdFailedToShow discards the ad without reloading.
func AdFailedToShow(s State) (State, []Effect) {
	return adClosed(s)
}

func adClosed(s State) (State, []Effect) {
	s.AdShowing = false
	s.AdReady = false

	effects := []Effect{refresh()}
	if s.resumeAfterAd {
		s.resumeAfterAd = false
		var resume []Effect
		s, resume = Resume(s)
		effects = append(effects, resume...)
	}
	return s, effects
}

// Rewarded credits the amount reported by the ad network.
func Rewarded(s State, amount int) (State, []Effect) {
	return AddCoins(s, amount)
}

// ConsentChanged applies the consent gate's answer. When ads are allowed the
// SDK is initialized; the initializer itself guarantees this happens once.
func ConsentChanged(s State, canRequestAds, privacyOptionsRequired bool) (State, []Effect) {
	s.CanRequestAds = canRequestAds
	s.PrivacyOptionsRequired = privacyOptionsRequired

	var effects []Effect
	if canRequestAds {
		effects = append(effects, Effect{Kind: EffectInitializeAds})
	}
	return s, append(effects, refresh())
}

// OpenPrivacyOptions pauses the game while the privacy form is up.
func OpenPrivacyOptions(s State) (State, []Effect) {
	return Pause(s)
}

// PrivacyOptionsClosed surfaces a form error, applies the possibly changed
// consent and resumes the game.
func PrivacyOptionsClosed(s State, canRequestAds, privacyOptionsRequired bool, formErr error) (State, []Effect) {
	var effects []Effect
	if formErr != nil {
		effects = append(effects, Effect{Kind: EffectNotify, Message: formErr.Error()})
	}

	s, consent := ConsentChanged(s, canRequestAds, privacyOptionsRequired)
	effects = append(effects, consent...)

	s, resume := Resume(s)
	return s, append(effects, resume...)
}

// requestAd asks for a load unless an ad is held, in flight or on screen, or
// consent does not allow requests.
func requestAd(s State) (State, []Effect) {
	if s.AdReady || s.AdLoading || s.AdShowing || !s.CanRequestAds {
		return s, nil
	}
	s.AdLoading = true
	return s, []Effect{{Kind: EffectLoadAd}}
}

// inRun reports whether a run is in progress, paused or not.
func (s State) inRun() bool {
	return s.Playing && !s.GameOver
}
