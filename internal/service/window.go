package service

import (
	"fmt"
	"time"

	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

// ParseWindow builds an inclusive window from two bounds, each either RFC 3339
// or a bare YYYY-MM-DD date. A bare end date covers the whole UTC day.
func ParseWindow(startRaw, endRaw string, maxRange time.Duration) (domain.TimeWindow, error) {
	start, err := parseBound(startRaw, false)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("%w: startDate: %w", ErrInvalidTimeRange, err)
	}

	end, err := parseBound(endRaw, true)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("%w: endDate: %w", ErrInvalidTimeRange, err)
	}

	if start.After(end) {
		return domain.TimeWindow{}, fmt.Errorf("%w: startDate %s is after endDate %s",
			ErrInvalidTimeRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	if maxRange > 0 && end.Sub(start) > maxRange {
		return domain.TimeWindow{}, fmt.Errorf("%w: window spans %d days, max is %d",
			ErrTimeRangeTooLarge, int(end.Sub(start).Hours()/24), int(maxRange.Hours()/24))
	}

	return domain.TimeWindow{Start: start, End: end}, nil
}

func parseBound(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}

	day, err := time.Parse(domain.DayLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC 3339 nor YYYY-MM-DD", raw)
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return day, nil
}
