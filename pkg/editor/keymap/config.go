// Package keymap resolves key presses to schedule editor commands. Users may
// rebind keys in .hours/keymap.json.
package keymap

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Config is the on-disk override file. Bindings maps "context:key" (or a
// bare key, meaning global) to a command name, e.g.
//
//	{"bindings": {"main:w": "cursor-up", "ctrl+q": "quit"}}
type Config struct {
	Bindings map[string]string `json:"bindings"`
}

// ConfigPath returns the keymap file under baseDir.
func ConfigPath(baseDir string) string {
	return filepath.Join(baseDir, ".hours", "keymap.json")
}

// LoadConfig reads path. A missing file is an empty config.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Bindings: map[string]string{}}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Bindings == nil {
		cfg.Bindings = map[string]string{}
	}
	return cfg, nil
}

// ApplyConfig installs cfg's overrides on r. Entries naming an unknown
// context or command are skipped and reported.
func ApplyConfig(r *Registry, cfg *Config) []error {
	specs := make([]string, 0, len(cfg.Bindings))
	for spec := range cfg.Bindings {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	var errs []error
	for _, spec := range specs {
		cmd := Command(cfg.Bindings[spec])
		ctx, key := ContextGlobal, spec
		if c, k, ok := strings.Cut(spec, ":"); ok && c != "" {
			ctx, key = Context(c), k
		}
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("keymap %q: empty key", spec))
		case !validContext(ctx):
			errs = append(errs, fmt.Errorf("keymap %q: unknown context %q", spec, ctx))
		case !Known(cmd):
			errs = append(errs, fmt.Errorf("keymap %q: unknown command %q", spec, cmd))
		default:
			r.SetUserOverride(ctx, key, cmd)
		}
	}
	return errs
}
