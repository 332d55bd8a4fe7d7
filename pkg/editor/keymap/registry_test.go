package keymap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLookup_ContextThenGlobal(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	tests := []struct {
		name string
		key  tea.KeyMsg
		ctx  Context
		want Command
		ok   bool
	}{
		{"main quit", runeKey("q"), ContextMain, CmdQuit, true},
		{"editing types q", runeKey("q"), ContextEditing, "", false},
		{"global ctrl+c in editing", tea.KeyMsg{Type: tea.KeyCtrlC}, ContextEditing, CmdQuit, true},
		{"enter in main", tea.KeyMsg{Type: tea.KeyEnter}, ContextMain, CmdSelect, true},
		{"enter in editing", tea.KeyMsg{Type: tea.KeyEnter}, ContextEditing, CmdCommitField, true},
		{"enter in confirm", tea.KeyMsg{Type: tea.KeyEnter}, ContextConfirm, CmdConfirm, true},
		{"space toggles day", tea.KeyMsg{Type: tea.KeySpace}, ContextMain, CmdToggleDay, true},
		{"unbound", runeKey("z"), ContextMain, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Lookup(tt.key, tt.ctx)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("Lookup = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLookup_Sequence(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	if _, ok := r.Lookup(runeKey("g"), ContextMain); ok {
		t.Fatal("first g should be pending")
	}
	if r.PendingKey() != "g" {
		t.Fatalf("pending = %q", r.PendingKey())
	}
	cmd, ok := r.Lookup(runeKey("g"), ContextMain)
	if !ok || cmd != CmdCursorTop {
		t.Fatalf("g g = (%q, %v)", cmd, ok)
	}
}

func TestLookup_NoSequenceWhileEditing(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	r.Lookup(runeKey("g"), ContextEditing)
	if r.PendingKey() != "" {
		t.Fatal("editing must not start a key sequence")
	}
}

func TestUserOverride(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	path := filepath.Join(t.TempDir(), ".hours", "keymap.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(`{"bindings":{"main:w":"cursor-up","z":"quit"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ApplyConfig(r, cfg)

	if cmd, ok := r.Lookup(runeKey("w"), ContextMain); !ok || cmd != CmdCursorUp {
		t.Fatalf("w = (%q, %v)", cmd, ok)
	}
	// bare keys land in the global context
	if cmd, ok := r.Lookup(runeKey("z"), ContextConfirm); !ok || cmd != CmdQuit {
		t.Fatalf("z = (%q, %v)", cmd, ok)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(ConfigPath(t.TempDir()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bindings == nil || len(cfg.Bindings) != 0 {
		t.Fatalf("bindings = %v", cfg.Bindings)
	}
}

func TestGenerateHelp(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	help := r.GenerateHelp()
	for _, want := range []string{"SCHEDULES:", "j / down", "Add time frame after", "DELETE CONFIRMATION:"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestApplyConfig_RejectsUnknown(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	errs := ApplyConfig(r, &Config{Bindings: map[string]string{
		"main:w":    "cursor-up",
		"main:v":    "make-coffee",
		"sidebar:s": "quit",
		"confirm:":  "confirm",
	}})
	if len(errs) != 3 {
		t.Fatalf("errors = %v, want 3", errs)
	}
	if cmd, ok := r.Lookup(runeKey("w"), ContextMain); !ok || cmd != CmdCursorUp {
		t.Fatalf("valid override not applied: (%q, %v)", cmd, ok)
	}
	if _, ok := r.Lookup(runeKey("v"), ContextMain); ok {
		t.Fatal("unknown command should not be bound")
	}
}

func TestLookup_SequenceTimeout(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	now := time.Unix(0, 0)
	r.now = func() time.Time { return now }

	r.Lookup(runeKey("g"), ContextMain)
	now = now.Add(sequenceTimeout + time.Millisecond)
	if r.PendingKey() != "" {
		t.Fatal("pending key should expire")
	}
	// The stale g is dropped; this g starts a new sequence.
	if _, ok := r.Lookup(runeKey("g"), ContextMain); ok {
		t.Fatal("g after timeout should start a new sequence")
	}
	if cmd, ok := r.Lookup(runeKey("G"), ContextMain); !ok || cmd != CmdCursorBottom {
		t.Fatalf("g G = (%q, %v), want G to resolve alone", cmd, ok)
	}
}

func TestKeyToString(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "space"},
		{tea.KeyMsg{Type: tea.KeyCtrlR}, "ctrl+r"},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, "shift+tab"},
		{runeKey("+"), "+"},
	}
	for _, tt := range tests {
		if got := KeyToString(tt.key); got != tt.want {
			t.Errorf("KeyToString(%v) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
