// Package syncengine commits debounced local state to a remote store.
//
// A Committer tracks, per key, the last value the remote confirmed. When a
// debounce window settles the caller hands it the current value; the
// committer decides whether to write, skip, suppress, or park behind a write
// already in flight. Writes for one key are serialized. Keys never block
// each other.
//
// The committer holds no timers and starts no goroutines. It is driven from
// a single event loop: Settle and Done are called from that loop, Write may
// be called from any goroutine.
package syncengine

import (
	"context"
	"log/slog"
)

// Status is the sync state of one key.
type Status int

const (
	Idle Status = iota
	PendingDebounce
	Syncing
	Suppressed
	Failed
)

func (s Status) String() string {
	switch s {
	case PendingDebounce:
		return "pending"
	case Syncing:
		return "syncing"
	case Suppressed:
		return "suppressed"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Action is what the caller must do after Settle.
type Action int

const (
	// Skip: the value matches the snapshot, nothing to write.
	Skip Action = iota
	// Write: call Write with Decision.Value, then Done with the result.
	Write
	// Suppress: the value has validation errors and was not written.
	Suppress
	// Park: a write is in flight; Done will ask for a resettle.
	Park
)

func (a Action) String() string {
	switch a {
	case Write:
		return "write"
	case Suppress:
		return "suppress"
	case Park:
		return "park"
	default:
		return "skip"
	}
}

// Decision is the outcome of Settle.
type Decision[T any] struct {
	Action Action
	Value  T
}

// Result is the outcome of Done.
type Result struct {
	// Confirmed is true when the write succeeded.
	Confirmed bool
	// Resettle is true when a settlement was parked during the write; the
	// caller should call Settle again with its current value.
	Resettle bool
	Err      error
}

// WriteFunc persists value under key.
type WriteFunc[K comparable, T any] func(ctx context.Context, key K, value T) error

type entry[T any] struct {
	status   Status
	snapshot T
	seeded   bool
	inFlight T
	parked   bool
	touched  bool // edited while Syncing
	err      error
}

// Committer is a commit-on-quiescence state machine keyed by K.
type Committer[K comparable, T any] struct {
	equal   func(a, b T) bool
	write   WriteFunc[K, T]
	entries map[K]*entry[T]
}

// NewCommitter returns a committer that compares values with equal and
// persists them with write.
func NewCommitter[K comparable, T any](equal func(a, b T) bool, write WriteFunc[K, T]) *Committer[K, T] {
	return &Committer[K, T]{
		equal:   equal,
		write:   write,
		entries: make(map[K]*entry[T]),
	}
}

func (c *Committer[K, T]) get(key K) *entry[T] {
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{}
		c.entries[key] = e
	}
	return e
}

// Seed records value as the last confirmed state for key and resets its
// status. Used after a fetch or a remote create.
func (c *Committer[K, T]) Seed(key K, value T) {
	e := c.get(key)
	e.snapshot = value
	e.seeded = true
	e.err = nil
	if e.status != Syncing {
		e.status = Idle
	}
}

// Forget drops all state for key.
func (c *Committer[K, T]) Forget(key K) {
	delete(c.entries, key)
}

// Snapshot returns the last confirmed value for key.
func (c *Committer[K, T]) Snapshot(key K) (T, bool) {
	e, ok := c.entries[key]
	if !ok || !e.seeded {
		var zero T
		return zero, false
	}
	return e.snapshot, true
}

// Status returns the current status for key.
func (c *Committer[K, T]) Status(key K) Status {
	if e, ok := c.entries[key]; ok {
		return e.status
	}
	return Idle
}

// Err returns the error from the last failed write for key, cleared by the
// next successful write.
func (c *Committer[K, T]) Err(key K) error {
	if e, ok := c.entries[key]; ok {
		return e.err
	}
	return nil
}

// Touch marks key as edited; its debounce window is open. An edit made
// during a write is remembered so Done leaves the key pending.
func (c *Committer[K, T]) Touch(key K) {
	e := c.get(key)
	if e.status == Syncing {
		e.touched = true
		return
	}
	e.status = PendingDebounce
}

// Settle is called when the debounce window for key elapses. valid reports
// whether the current value passed validation.
func (c *Committer[K, T]) Settle(key K, current T, valid bool) Decision[T] {
	e := c.get(key)
	if e.status == Syncing {
		e.parked = true
		return Decision[T]{Action: Park}
	}
	if e.seeded && c.equal(current, e.snapshot) {
		e.status = Idle
		e.err = nil
		return Decision[T]{Action: Skip}
	}
	if !valid {
		e.status = Suppressed
		return Decision[T]{Action: Suppress}
	}
	e.status = Syncing
	e.inFlight = current
	return Decision[T]{Action: Write, Value: current}
}

// Write persists value with the committer's WriteFunc. It touches no
// committer state.
func (c *Committer[K, T]) Write(ctx context.Context, key K, value T) error {
	return c.write(ctx, key, value)
}

// Done records the outcome of the write issued by the last Settle. On
// success the snapshot becomes the written value. On failure the snapshot is
// kept and the key moves to Failed; nothing is retried. Either way, a key
// edited during the write ends PendingDebounce since its debounce window is
// still open.
func (c *Committer[K, T]) Done(key K, err error) Result {
	e, ok := c.entries[key]
	if !ok || e.status != Syncing {
		return Result{Err: err}
	}
	res := Result{Err: err, Resettle: e.parked}
	e.parked = false
	if err != nil {
		slog.Warn("sync write failed", "key", key, "err", err)
		e.status = Failed
		e.err = err
	} else {
		e.snapshot = e.inFlight
		e.seeded = true
		e.status = Idle
		e.err = nil
		res.Confirmed = true
	}
	if e.touched {
		e.status = PendingDebounce
		e.touched = false
	}
	var zero T
	e.inFlight = zero
	return res
}
