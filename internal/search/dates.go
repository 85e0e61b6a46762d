package search

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	derr "github.com/gurgen2727/travel-api/internal/domain/errors"
)

const dateLayout = "2006-01-02"

// DatePair is one concrete (departure, return) date combination.
// Return is the zero time in one-way mode.
type DatePair struct {
	Depart time.Time
	Return time.Time
}

// DateSpec holds the flexible travel-date inputs. Exactly one of the
// three modes must be satisfied:
//
//  1. Rolling window: RangeLength (+ optional RangeStart anchor) with Stays.
//  2. Departure range: DepartStart..DepartEnd with Stays, optionally
//     clamped by ReturnStart/ReturnEnd.
//  3. Fixed: Depart and Return (Return optional when OneWay).
type DateSpec struct {
	Depart      time.Time
	Return      time.Time
	DepartStart time.Time
	DepartEnd   time.Time
	ReturnStart time.Time
	ReturnEnd   time.Time
	RangeStart  time.Time
	RangeLength string
	Stays       []int
	OneWay      bool

	// Now anchors the rolling window when RangeStart is absent.
	// Defaults to time.Now.
	Now func() time.Time
}

// Pairs expands the spec into the ordered query grid: calendar day
// ascending outer, stay length ascending inner.
func (s DateSpec) Pairs() ([]DatePair, error) {
	switch {
	case s.RangeLength != "" && len(s.Stays) > 0:
		return s.rollingPairs()
	case !s.DepartStart.IsZero() && !s.DepartEnd.IsZero() && len(s.Stays) > 0:
		return s.rangePairs()
	case !s.Depart.IsZero() && (!s.Return.IsZero() || s.OneWay):
		return []DatePair{{Depart: s.Depart, Return: s.Return}}, nil
	}
	return nil, derr.ErrNoDateMode
}

func (s DateSpec) rollingPairs() ([]DatePair, error) {
	total, err := ParseRangeLength(s.RangeLength)
	if err != nil {
		return nil, err
	}
	base := s.RangeStart
	if base.IsZero() {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		base = truncateToDay(now())
	}
	pairs := make([]DatePair, 0, total*len(s.Stays))
	for offset := 0; offset < total; offset++ {
		day := base.AddDate(0, 0, offset)
		for _, stay := range s.Stays {
			pairs = append(pairs, DatePair{Depart: day, Return: day.AddDate(0, 0, stay)})
		}
	}
	return pairs, nil
}

func (s DateSpec) rangePairs() ([]DatePair, error) {
	var pairs []DatePair
	for day := s.DepartStart; !day.After(s.DepartEnd); day = day.AddDate(0, 0, 1) {
		for _, stay := range s.Stays {
			ret := day.AddDate(0, 0, stay)
			if !s.ReturnStart.IsZero() && ret.Before(s.ReturnStart) {
				continue
			}
			if !s.ReturnEnd.IsZero() && ret.After(s.ReturnEnd) {
				continue
			}
			pairs = append(pairs, DatePair{Depart: day, Return: ret})
		}
	}
	return pairs, nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", derr.ErrBadDate, s)
	}
	return t, nil
}

// ExpandStays unions stay-length tokens ("7", "3-5") into a sorted set
// of distinct night counts. Descending ranges are rejected.
func ExpandStays(tokens []string) ([]int, error) {
	nights := map[int]struct{}{}
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if from, to, ok := strings.Cut(tok, "-"); ok {
			a, errA := strconv.Atoi(from)
			b, errB := strconv.Atoi(to)
			if errA != nil || errB != nil {
				return nil, fmt.Errorf("%w: %q", derr.ErrBadStayRange, tok)
			}
			if a > b {
				return nil, fmt.Errorf("%w: %q is descending", derr.ErrBadStayRange, tok)
			}
			for n := a; n <= b; n++ {
				nights[n] = struct{}{}
			}
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", derr.ErrBadStayRange, tok)
		}
		nights[n] = struct{}{}
	}
	out := make([]int, 0, len(nights))
	for n := range nights {
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// ParseRangeLength turns tokens like "2 weeks", "10 days" or
// "1 week 3 days" into a day count. A bare number counts as days.
func ParseRangeLength(s string) (int, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty", derr.ErrBadRangeLength)
	}
	total := 0
	for i := 0; i < len(fields); i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return 0, fmt.Errorf("%w: %q", derr.ErrBadRangeLength, fields[i])
		}
		unit := "days"
		if i+1 < len(fields) {
			i++
			unit = fields[i]
		}
		switch strings.TrimSuffix(unit, "s") {
		case "week":
			total += n * 7
		case "day":
			total += n
		default:
			return 0, fmt.Errorf("%w: unknown unit %q", derr.ErrBadRangeLength, unit)
		}
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: %q spans no days", derr.ErrBadRangeLength, s)
	}
	return total, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
