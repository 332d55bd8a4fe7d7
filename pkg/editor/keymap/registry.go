package keymap

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const sequenceTimeout = 500 * time.Millisecond

// Context is the editor mode a key is interpreted in.
type Context string

const (
	ContextGlobal  Context = "global"
	ContextMain    Context = "main"    // Cursor on the schedule list
	ContextEditing Context = "editing" // A text field has focus
	ContextConfirm Context = "confirm" // Delete confirmation is open
	ContextHelp    Context = "help"    // Help overlay is open
)

var contexts = []Context{ContextGlobal, ContextMain, ContextEditing, ContextConfirm, ContextHelp}

// Command is an editor action a key can trigger.
type Command string

const (
	CmdQuit       Command = "quit"
	CmdToggleHelp Command = "toggle-help"
	CmdRefresh    Command = "refresh"

	// Movement
	CmdCursorDown   Command = "cursor-down"
	CmdCursorUp     Command = "cursor-up"
	CmdCursorTop    Command = "cursor-top"
	CmdCursorBottom Command = "cursor-bottom"
	CmdNextField    Command = "next-field"
	CmdPrevField    Command = "prev-field"
	CmdSelect       Command = "select"
	CmdClose        Command = "close"

	// Schedule edits
	CmdToggleDay      Command = "toggle-day"
	CmdAddFrame       Command = "add-frame"
	CmdRemoveFrame    Command = "remove-frame"
	CmdNewSchedule    Command = "new-schedule"
	CmdDeleteSchedule Command = "delete-schedule"
	CmdRetrySync      Command = "retry-sync"

	// Focused field
	CmdCommitField Command = "commit-field"
	CmdCancelEdit  Command = "cancel-edit"

	// Delete prompt
	CmdConfirm Command = "confirm"
	CmdCancel  Command = "cancel"
)

var knownCommands = map[Command]bool{
	CmdQuit: true, CmdToggleHelp: true, CmdRefresh: true,
	CmdCursorDown: true, CmdCursorUp: true, CmdCursorTop: true, CmdCursorBottom: true,
	CmdNextField: true, CmdPrevField: true, CmdSelect: true, CmdClose: true,
	CmdToggleDay: true, CmdAddFrame: true, CmdRemoveFrame: true,
	CmdNewSchedule: true, CmdDeleteSchedule: true, CmdRetrySync: true,
	CmdCommitField: true, CmdCancelEdit: true, CmdConfirm: true, CmdCancel: true,
}

// Known reports whether c names an editor command.
func Known(c Command) bool { return knownCommands[c] }

func validContext(c Context) bool {
	for _, k := range contexts {
		if k == c {
			return true
		}
	}
	return false
}

// Binding maps a key, or a space-separated key sequence like "g g", to a
// command within one context.
type Binding struct {
	Key         string
	Command     Command
	Context     Context
	Description string // shown in help
}

// keyTable is one context's bindings: ordered for help, indexed for lookup.
type keyTable struct {
	order []Binding
	byKey map[string]Command
}

func (t *keyTable) lookup(key string) (Command, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.byKey[key]
	return c, ok
}

// hasPrefix reports whether any key in the table is a sequence beginning
// with key.
func (t *keyTable) hasPrefix(key string) bool {
	if t == nil {
		return false
	}
	for k := range t.byKey {
		if strings.HasPrefix(k, key+" ") {
			return true
		}
	}
	return false
}

// Registry resolves keys to commands. User overrides win over defaults, and
// the active context wins over global.
type Registry struct {
	mu        sync.Mutex
	defaults  map[Context]*keyTable
	overrides map[Context]*keyTable

	pending   string
	pendingAt time.Time
	now       func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defaults:  make(map[Context]*keyTable),
		overrides: make(map[Context]*keyTable),
		now:       time.Now,
	}
}

func addTo(tables map[Context]*keyTable, b Binding) {
	t := tables[b.Context]
	if t == nil {
		t = &keyTable{byKey: make(map[string]Command)}
		tables[b.Context] = t
	}
	// First registration of a key wins.
	if _, dup := t.byKey[b.Key]; dup {
		return
	}
	t.byKey[b.Key] = b.Command
	t.order = append(t.order, b)
}

// RegisterBinding adds a default binding.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addTo(r.defaults, b)
}

// RegisterBindings adds default bindings in order.
func (r *Registry) RegisterBindings(bindings []Binding) {
	for _, b := range bindings {
		r.RegisterBinding(b)
	}
}

// SetUserOverride binds key to cmd in ctx ahead of any default.
func (r *Registry) SetUserOverride(ctx Context, key string, cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.overrides[ctx]
	if t == nil {
		t = &keyTable{byKey: make(map[string]Command)}
		r.overrides[ctx] = t
	}
	t.byKey[key] = cmd
}

// Lookup resolves a key press. A key that only starts a sequence returns
// ok=false and is held for sequenceTimeout; the next press completes the
// sequence or falls back to being looked up alone.
func (r *Registry) Lookup(msg tea.KeyMsg, ctx Context) (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := KeyToString(msg)
	now := r.now()

	if r.pending != "" {
		first := r.pending
		r.pending = ""
		if now.Sub(r.pendingAt) < sequenceTimeout {
			if cmd, ok := r.resolve(first+" "+key, ctx); ok {
				return cmd, true
			}
		}
	}

	// Typing into a field never starts a sequence.
	if ctx != ContextEditing && r.startsSequence(key, ctx) {
		r.pending = key
		r.pendingAt = now
		return "", false
	}
	return r.resolve(key, ctx)
}

// resolve checks overrides then defaults, active context before global.
func (r *Registry) resolve(key string, ctx Context) (Command, bool) {
	for _, tables := range []map[Context]*keyTable{r.overrides, r.defaults} {
		if ctx != ContextGlobal {
			if cmd, ok := tables[ctx].lookup(key); ok {
				return cmd, true
			}
		}
		if cmd, ok := tables[ContextGlobal].lookup(key); ok {
			return cmd, true
		}
	}
	return "", false
}

func (r *Registry) startsSequence(key string, ctx Context) bool {
	for _, tables := range []map[Context]*keyTable{r.overrides, r.defaults} {
		if tables[ctx].hasPrefix(key) || tables[ContextGlobal].hasPrefix(key) {
			return true
		}
	}
	return false
}

// PendingKey returns the first key of an unfinished sequence, or "".
func (r *Registry) PendingKey() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != "" && r.now().Sub(r.pendingAt) < sequenceTimeout {
		return r.pending
	}
	return ""
}

// ResetPending drops an unfinished sequence.
func (r *Registry) ResetPending() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = ""
}

// KeyToString names a key the way bindings are written: bubbletea's key
// names, except the space bar is "space".
func KeyToString(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace || (msg.Type == tea.KeyRunes && string(msg.Runes) == " ") {
		return "space"
	}
	return msg.String()
}
