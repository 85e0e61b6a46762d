package search

import (
	"fmt"
	"strings"
	"time"

	derr "github.com/gurgen2727/travel-api/internal/domain/errors"
)

const clockLayout = "15:04"

// ClockWindow is an inclusive time-of-day window in minutes since
// midnight. Start > End means the window wraps past midnight.
type ClockWindow struct {
	Start int
	End   int
}

func (w ClockWindow) contains(minute int) bool {
	if w.Start <= w.End {
		return w.Start <= minute && minute <= w.End
	}
	return minute >= w.Start || minute <= w.End
}

// DayTimeFilter maps a lowercase 3-letter weekday key to an optional
// clock window. A key with a nil window allows the whole day; a
// missing key rejects the day; an empty filter allows everything.
type DayTimeFilter map[string]*ClockWindow

// ParseDayTimeFilter builds a filter from tokens like
// "Thu(00:00-12:00)" or bare "Sat".
func ParseDayTimeFilter(tokens []string) (DayTimeFilter, error) {
	filter := DayTimeFilter{}
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		day, rng, windowed := strings.Cut(tok, "(")
		if !windowed {
			filter[dayKey(day)] = nil
			continue
		}
		rng = strings.TrimSuffix(rng, ")")
		startS, endS, ok := strings.Cut(rng, "-")
		if !ok {
			return nil, fmt.Errorf("%w: %q, expected HH:MM-HH:MM", derr.ErrBadTimeWindow, tok)
		}
		start, err := parseClock(startS)
		if err != nil {
			return nil, fmt.Errorf("%w: %q, expected HH:MM-HH:MM", derr.ErrBadTimeWindow, tok)
		}
		end, err := parseClock(endS)
		if err != nil {
			return nil, fmt.Errorf("%w: %q, expected HH:MM-HH:MM", derr.ErrBadTimeWindow, tok)
		}
		filter[dayKey(day)] = &ClockWindow{Start: start, End: end}
	}
	return filter, nil
}

func (f DayTimeFilter) Empty() bool {
	return len(f) == 0
}

// Allows reports whether the timestamp's weekday and time of day fall
// inside the filter. An empty filter allows everything.
func (f DayTimeFilter) Allows(t time.Time) bool {
	if len(f) == 0 {
		return true
	}
	window, ok := f[weekdayKey(t)]
	if !ok {
		return false
	}
	if window == nil {
		return true
	}
	return window.contains(t.Hour()*60 + t.Minute())
}

func dayKey(day string) string {
	key := strings.ToLower(strings.TrimSpace(day))
	if len(key) > 3 {
		key = key[:3]
	}
	return key
}

func weekdayKey(t time.Time) string {
	return strings.ToLower(t.Format("Mon"))
}

func parseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
