package serverdb

import "testing"

func TestRateLimitEvents(t *testing.T) {
	db := newTestDB(t)
	for _, e := range []struct{ ip, class string }{
		{"10.0.0.1", "write"},
		{"10.0.0.2", "read"},
		{"10.0.0.1", "read"},
	} {
		if err := db.InsertRateLimitEvent(e.ip, e.class); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	events, err := db.RecentRateLimitEvents(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 || events[0].IP != "10.0.0.1" || events[1].IP != "10.0.0.2" {
		t.Fatalf("events = %+v", events)
	}
	if events[0].CreatedAt.IsZero() {
		t.Fatal("created_at not scanned")
	}

	offenders, err := db.RateLimitOffenders()
	if err != nil {
		t.Fatalf("offenders: %v", err)
	}
	want := []RateLimitOffender{{"10.0.0.1", 1, 1}, {"10.0.0.2", 1, 0}}
	if len(offenders) != len(want) {
		t.Fatalf("offenders = %+v", offenders)
	}
	for i := range want {
		if offenders[i] != want[i] {
			t.Errorf("offender %d = %+v, want %+v", i, offenders[i], want[i])
		}
	}

	n, err := db.CleanupRateLimitEvents(30)
	if err != nil || n != 0 {
		t.Fatalf("cleanup removed fresh events: %d, %v", n, err)
	}
}
