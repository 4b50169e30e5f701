package tui

import (
	"context"

	"github.com/vovakirdan/rewarded-arcade/internal/consent"
	"github.com/vovakirdan/rewarded-arcade/internal/loop"
)

// PromptForm is a consent.Form answered from the terminal. Ask runs on the
// consent goroutine; it posts the prompt to the loop and waits for the
// player's answer, which the model delivers through Answer.
type PromptForm struct {
	post    loop.PostFunc
	pending *prompt // Loop thread only
}

type prompt struct {
	privacyOptions bool
	reply          chan consent.Decision
}

// NewPromptForm creates a form that opens its prompt through post.
func NewPromptForm(post loop.PostFunc) *PromptForm {
	return &PromptForm{post: post}
}

// Ask implements consent.Form.
func (f *PromptForm) Ask(ctx context.Context, privacyOptions bool) (consent.Decision, error) {
	p := &prompt{privacyOptions: privacyOptions, reply: make(chan consent.Decision, 1)}
	if !f.post(func() { f.pending = p }) {
		return consent.DecisionDismissed, loop.ErrClosed
	}

	select {
	case d := <-p.reply:
		return d, nil
	case <-ctx.Done():
		f.post(func() {
			if f.pending == p {
				f.pending = nil
			}
		})
		return consent.DecisionDismissed, ctx.Err()
	}
}

// Pending reports whether a prompt is open and whether it was opened from
// the privacy options menu.
func (f *PromptForm) Pending() (open, privacyOptions bool) {
	if f.pending == nil {
		return false, false
	}
	return true, f.pending.privacyOptions
}

// Answer closes the open prompt with d. It reports false when no prompt is open.
func (f *PromptForm) Answer(d consent.Decision) bool {
	if f.pending == nil {
		return false
	}
	f.pending.reply <- d
	f.pending = nil
	return true
}

var _ consent.Form = (*PromptForm)(nil)
