package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/scheduleclient"
	"github.com/marcus/hours/internal/syncconfig"
)

// newClient builds a schedule client from the resolved config.
func newClient() *scheduleclient.Client {
	return scheduleclient.New(
		syncconfig.GetServerURL(),
		syncconfig.GetAPIKey(),
		syncconfig.GetLocation(),
		syncconfig.GetHTTPTimeout(),
	)
}

// commandContext bounds a single CLI command's requests.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), syncconfig.GetHTTPTimeout()+5*time.Second)
}

// resolveSchedule finds a schedule by exact ID, then by case-insensitive
// name. An ambiguous name is an error.
func resolveSchedule(schedules []*models.WeeklySchedule, ref string) (*models.WeeklySchedule, error) {
	ref = strings.TrimSpace(ref)
	for _, s := range schedules {
		if s.ID == ref {
			return s, nil
		}
	}
	var matches []*models.WeeklySchedule
	for _, s := range schedules {
		if strings.EqualFold(s.Name, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("schedule %q: %w", ref, errScheduleNotFound)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, s := range matches {
			ids[i] = s.ID
		}
		return nil, fmt.Errorf("%q matches %d schedules (%s); use the ID", ref, len(matches), strings.Join(ids, ", "))
	}
}

// fetchSchedule loads every schedule and resolves ref among them.
func fetchSchedule(ctx context.Context, c *scheduleclient.Client, ref string) (*models.WeeklySchedule, error) {
	schedules, err := c.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return resolveSchedule(schedules, ref)
}
