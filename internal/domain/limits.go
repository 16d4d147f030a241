package domain

import (
	"fmt"
	"time"
)

// Window names a usage-event lookback range.
type Window string

const (
	WindowDay   Window = "today"
	WindowWeek  Window = "7d"
	WindowMonth Window = "30d"
)

func ParseWindow(raw string) (Window, error) {
	switch Window(raw) {
	case WindowDay, WindowWeek, WindowMonth:
		return Window(raw), nil
	case "":
		return WindowDay, nil
	default:
		return "", fmt.Errorf("unsupported range %q", raw)
	}
}

func (w Window) Label() string {
	switch w {
	case WindowDay:
		return "today"
	case WindowWeek:
		return "last 7 days"
	case WindowMonth:
		return "last 30 days"
	default:
		return string(w)
	}
}

// Span returns the [start, end] interval the window covers, ending at now.
func (w Window) Span(now time.Time) (time.Time, time.Time) {
	switch w {
	case WindowWeek:
		return now.AddDate(0, 0, -7), now
	case WindowMonth:
		return now.AddDate(0, 0, -30), now
	default:
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), now
	}
}

type LimitSnapshot struct {
	AsOf time.Time
}

func (s LimitSnapshot) IsStale(now time.Time, maxAge time.Duration) bool {
	if s.AsOf.IsZero() {
		return true
	}

	if maxAge <= 0 {
		return false
	}

	return now.Sub(s.AsOf) > maxAge
}

// IsStale reports whether the summary was fetched more than maxAge ago.
func (u UsageSummary) IsStale(now time.Time, maxAge time.Duration) bool {
	return LimitSnapshot{AsOf: u.FetchedAt}.IsStale(now, maxAge)
}
