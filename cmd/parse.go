package cmd

import (
	"fmt"
	"strings"

	"github.com/marcus/hours/internal/models"
	"github.com/marcus/hours/internal/timeofday"
	"github.com/marcus/hours/internal/validate"
)

// parseDay accepts a full weekday name, a prefix of at least two letters
// ("mo", "tue"), or a 0-6 index with 0 = Monday.
func parseDay(s string) (models.DayIndex, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return models.DayIndex(s[0] - '0'), nil
	}
	if len(s) >= 2 {
		for d := models.Monday; d <= models.Sunday; d++ {
			if strings.HasPrefix(strings.ToLower(d.String()), s) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// parseDays parses a comma-separated day list. "weekdays", "weekend" and
// "all" are accepted as shorthands; ranges such as "mon-fri" too.
func parseDays(s string) ([]models.DayIndex, error) {
	var days []models.DayIndex
	seen := make(map[models.DayIndex]bool)
	add := func(d models.DayIndex) {
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "":
			continue
		case "weekdays":
			for d := models.Monday; d <= models.Friday; d++ {
				add(d)
			}
			continue
		case "weekend":
			add(models.Saturday)
			add(models.Sunday)
			continue
		case "all":
			for d := models.Monday; d <= models.Sunday; d++ {
				add(d)
			}
			continue
		}
		if from, to, ok := strings.Cut(part, "-"); ok {
			a, err := parseDay(from)
			if err != nil {
				return nil, err
			}
			b, err := parseDay(to)
			if err != nil {
				return nil, err
			}
			if b < a {
				return nil, fmt.Errorf("day range %q runs backwards", part)
			}
			for d := a; d <= b; d++ {
				add(d)
			}
			continue
		}
		d, err := parseDay(part)
		if err != nil {
			return nil, err
		}
		add(d)
	}
	return days, nil
}

// parseFrame reads "9:00am-5:00pm" (spaces allowed around the dash).
func parseFrame(s string) (models.TimeFrame, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return models.TimeFrame{}, fmt.Errorf("time frame %q: want START-END, e.g. 9:00am-5:00pm", s)
	}
	start, err := timeofday.Parse(from)
	if err != nil {
		return models.TimeFrame{}, err
	}
	end, err := timeofday.Parse(to)
	if err != nil {
		return models.TimeFrame{}, err
	}
	f := models.NewFrame(start, end)
	if err := validate.ValidateFrame(f); err != nil {
		return models.TimeFrame{}, fmt.Errorf("time frame %q: %w", s, err)
	}
	return f, nil
}

// parseFrames parses each frame and checks they do not overlap. No specs
// yields the default 9:00 am - 5:00 pm frame.
func parseFrames(d models.DayIndex, specs []string) (*models.Day, error) {
	if len(specs) == 0 {
		return models.NewDefaultDay(d), nil
	}
	day := &models.Day{Index: d}
	for _, spec := range specs {
		f, err := parseFrame(spec)
		if err != nil {
			return nil, err
		}
		day.Frames = append(day.Frames, f)
	}
	for i := range day.Frames {
		if err := validate.ValidateAdjacency(day, i); err != nil {
			return nil, fmt.Errorf("%s: %w", d, err)
		}
	}
	return day, nil
}

// firstError returns the first field error of s in day order, or nil.
func firstError(s *models.WeeklySchedule) error {
	errs := validate.ScheduleErrors(s)
	keys := errs.Keys()
	if len(keys) == 0 {
		return nil
	}
	k := keys[0]
	return fmt.Errorf("%s %s time: %w", k.Day, k.Side, errs[k])
}
