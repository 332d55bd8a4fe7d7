package serverdb

import (
	"fmt"
	"time"
)

// RateLimitEvent records one request refused by the rate limiter.
type RateLimitEvent struct {
	ID            int64
	IP            string
	EndpointClass string // "read" or "write"
	CreatedAt     time.Time
}

// RateLimitOffender is the per-IP rollup shown by the admin tooling.
type RateLimitOffender struct {
	IP     string
	Reads  int
	Writes int
}

func (db *ServerDB) InsertRateLimitEvent(ip, endpointClass string) error {
	if _, err := db.conn.Exec(
		`INSERT INTO rate_limit_events (ip, endpoint_class) VALUES (?, ?)`, ip, endpointClass,
	); err != nil {
		return fmt.Errorf("record rate limit event for %s: %w", ip, err)
	}
	return nil
}

// RecentRateLimitEvents returns up to limit events, newest first. A
// non-positive limit means 50.
func (db *ServerDB) RecentRateLimitEvents(limit int) ([]RateLimitEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`SELECT id, ip, endpoint_class, created_at
		FROM rate_limit_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list rate limit events: %w", err)
	}
	defer rows.Close()

	var events []RateLimitEvent
	for rows.Next() {
		var e RateLimitEvent
		if err := rows.Scan(&e.ID, &e.IP, &e.EndpointClass, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("read rate limit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// RateLimitOffenders groups all stored events by IP, busiest first.
func (db *ServerDB) RateLimitOffenders() ([]RateLimitOffender, error) {
	rows, err := db.conn.Query(`SELECT ip,
			SUM(CASE WHEN endpoint_class = 'read' THEN 1 ELSE 0 END),
			SUM(CASE WHEN endpoint_class = 'write' THEN 1 ELSE 0 END)
		FROM rate_limit_events GROUP BY ip ORDER BY COUNT(*) DESC, ip`)
	if err != nil {
		return nil, fmt.Errorf("group rate limit events: %w", err)
	}
	defer rows.Close()

	var out []RateLimitOffender
	for rows.Next() {
		var o RateLimitOffender
		if err := rows.Scan(&o.IP, &o.Reads, &o.Writes); err != nil {
			return nil, fmt.Errorf("read rate limit rollup: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CleanupRateLimitEvents deletes events older than retentionDays and
// returns how many were removed.
func (db *ServerDB) CleanupRateLimitEvents(retentionDays int) (int64, error) {
	res, err := db.conn.Exec(`DELETE FROM rate_limit_events WHERE created_at < datetime('now', ?)`,
		fmt.Sprintf("-%d days", retentionDays))
	if err != nil {
		return 0, fmt.Errorf("prune rate limit events: %w", err)
	}
	return res.RowsAffected()
}
