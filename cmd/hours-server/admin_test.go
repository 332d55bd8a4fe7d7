package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcus/hours/internal/serverdb"
)

func TestAdmin(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "hours.db")
	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		if err := admin(append(args, "--db", dbPath), &out); err != nil {
			t.Fatalf("admin %v: %v", args, err)
		}
		return out.String()
	}

	if out := run("list"); !strings.Contains(out, "no schedules") {
		t.Fatalf("list on empty db = %q", out)
	}
	if out := run("seed"); !strings.Contains(out, "seeded 2") {
		t.Fatalf("seed = %q", out)
	}
	if out := run("seed"); !strings.Contains(out, "nothing seeded") {
		t.Fatalf("second seed = %q", out)
	}
	out := run("list")
	if !strings.Contains(out, "Study") || !strings.Contains(out, "Work") {
		t.Fatalf("list = %q", out)
	}

	store, err := serverdb.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	store.InsertRateLimitEvent("10.1.1.1", "write")
	store.Close()

	if out := run("rate-limits", "--by-ip"); !strings.Contains(out, "10.1.1.1") {
		t.Fatalf("rate-limits --by-ip = %q", out)
	}
	if out := run("cleanup", "--days", "7"); !strings.Contains(out, "deleted 0") {
		t.Fatalf("cleanup = %q", out)
	}
}

func TestAdminUsage(t *testing.T) {
	var out bytes.Buffer
	for _, args := range [][]string{nil, {"nope"}} {
		if err := admin(args, &out); !errors.Is(err, errUsage) {
			t.Errorf("admin(%v) = %v, want usage error", args, err)
		}
	}
}
