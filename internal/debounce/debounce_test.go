package debounce

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestFire_OnlyLatestTokenOnce(t *testing.T) {
	tier := New[string](100 * time.Millisecond)
	first := tier.Bump("a")
	second := tier.Bump("a")

	if tier.Fire("a", first) {
		t.Fatalf("superseded token fired")
	}
	if !tier.Fire("a", second) {
		t.Fatalf("latest token did not fire")
	}
	if tier.Fire("a", second) {
		t.Fatalf("token fired twice")
	}
	if tier.Pending("a") {
		t.Fatalf("key still pending after fire")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	tier := New[string](3 * time.Second)
	a := tier.Bump("schedule-a")
	b := tier.Bump("schedule-b")
	// Editing A again must not disturb B's timer.
	a2 := tier.Bump("schedule-a")

	if !tier.Fire("schedule-b", b) {
		t.Fatalf("B's timer was reset by edits to A")
	}
	if tier.Fire("schedule-a", a) {
		t.Fatalf("stale A token fired")
	}
	if !tier.Fire("schedule-a", a2) {
		t.Fatalf("A's latest token did not fire")
	}
}

func TestCancelAndStop(t *testing.T) {
	tier := New[int](time.Millisecond)
	x := tier.Bump(1)
	tier.Cancel(1)
	if tier.Fire(1, x) {
		t.Fatalf("cancelled token fired")
	}

	y := tier.Bump(1)
	z := tier.Bump(2)
	tier.Stop()
	if tier.Fire(1, y) || tier.Fire(2, z) {
		t.Fatalf("token fired after Stop")
	}

	// A bump after Stop gets a token no earlier timer can carry.
	w := tier.Bump(1)
	if w == y || !tier.Fire(1, w) {
		t.Fatalf("post-stop token reused or not accepted")
	}
}

func TestTick_CarriesToken(t *testing.T) {
	tier := New[string](time.Millisecond)
	type fired struct{ tok Token }
	cmd := tier.Tick("k", func(tok Token) tea.Msg { return fired{tok} })
	if cmd == nil {
		t.Fatalf("nil command")
	}
	msg, ok := cmd().(fired)
	if !ok {
		t.Fatalf("unexpected message type")
	}
	if !tier.Fire("k", msg.tok) {
		t.Fatalf("tick token not live")
	}
}
