package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/rewarded-arcade/internal/consent"
	"github.com/vovakirdan/rewarded-arcade/internal/loop"
)

type askResult struct {
	decision consent.Decision
	err      error
}

func ask(ctx context.Context, f *PromptForm, privacyOptions bool) <-chan askResult {
	out := make(chan askResult, 1)
	go func() {
		d, err := f.Ask(ctx, privacyOptions)
		out <- askResult{d, err}
	}()
	return out
}

func runNext(t *testing.T, q *loop.Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.RunNext(ctx); err != nil {
		t.Fatalf("RunNext() failed: %v", err)
	}
}

func TestPromptFormAnswer(t *testing.T) {
	q := loop.NewQueue(4)
	defer q.Close()
	f := NewPromptForm(q.Post)

	if f.Answer(consent.DecisionPersonalized) {
		t.Fatal("Answer() without an open prompt should report false")
	}

	result := ask(context.Background(), f, true)
	runNext(t, q)

	open, privacyOptions := f.Pending()
	if !open || !privacyOptions {
		t.Fatalf("Pending() = %v, %v; expected an open privacy options prompt", open, privacyOptions)
	}
	if !f.Answer(consent.DecisionNonPersonalized) {
		t.Fatal("Answer() should close the open prompt")
	}

	select {
	case r := <-result:
		if r.err != nil || r.decision != consent.DecisionNonPersonalized {
			t.Errorf("Ask() = %v, %v", r.decision, r.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Ask() did not return")
	}

	if open, _ := f.Pending(); open {
		t.Error("prompt should be closed after an answer")
	}
}

func TestPromptFormCancelled(t *testing.T) {
	q := loop.NewQueue(4)
	defer q.Close()
	f := NewPromptForm(q.Post)

	ctx, cancel := context.WithCancel(context.Background())
	result := ask(ctx, f, false)
	runNext(t, q)
	cancel()

	r := <-result
	if !errors.Is(r.err, context.Canceled) || r.decision != consent.DecisionDismissed {
		t.Errorf("Ask() = %v, %v; expected dismissed with context.Canceled", r.decision, r.err)
	}

	runNext(t, q)
	if open, _ := f.Pending(); open {
		t.Error("cancelled prompt should be closed")
	}
}

func TestPromptFormClosedLoop(t *testing.T) {
	q := loop.NewQueue(4)
	q.Close()
	f := NewPromptForm(q.Post)

	d, err := f.Ask(context.Background(), false)
	if !errors.Is(err, loop.ErrClosed) || d != consent.DecisionDismissed {
		t.Errorf("Ask() = %v, %v; expected dismissed with loop.ErrClosed", d, err)
	}
}
