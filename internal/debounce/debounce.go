// Package debounce implements keyed debounce timers as generation tokens.
//
// Each Bump issues a fresh token for a key and invalidates every earlier
// token for that key. A timer carries its token; when it fires, Fire accepts
// it only if it is still the latest, and only once. Timers themselves are
// never cancelled, they simply arrive stale.
package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Token identifies one timer generation. Tokens are unique per Tier.
type Token uint64

// Tier is one debounce tier keyed by K. The zero value is not usable; call
// New. A Tier is owned by a single event loop and is not safe for
// concurrent use.
type Tier[K comparable] struct {
	Delay time.Duration
	live  map[K]Token
	last  Token
}

// New returns a tier whose timers wait for delay.
func New[K comparable](delay time.Duration) *Tier[K] {
	return &Tier[K]{Delay: delay, live: make(map[K]Token)}
}

// Bump starts a new generation for key and returns its token.
func (t *Tier[K]) Bump(key K) Token {
	t.last++
	t.live[key] = t.last
	return t.last
}

// Fire reports whether token is the live generation for key, consuming it.
func (t *Tier[K]) Fire(key K, token Token) bool {
	if cur, ok := t.live[key]; ok && cur == token {
		delete(t.live, key)
		return true
	}
	return false
}

// Pending reports whether key has a live timer.
func (t *Tier[K]) Pending(key K) bool {
	_, ok := t.live[key]
	return ok
}

// Cancel invalidates the live timer for key, if any.
func (t *Tier[K]) Cancel(key K) {
	delete(t.live, key)
}

// Stop invalidates every live timer.
func (t *Tier[K]) Stop() {
	clear(t.live)
}

// Tick bumps key and returns a command that delivers msg(token) after the
// tier's delay.
func (t *Tier[K]) Tick(key K, msg func(Token) tea.Msg) tea.Cmd {
	token := t.Bump(key)
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return msg(token)
	})
}
