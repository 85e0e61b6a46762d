package search

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	derr "github.com/gurgen2727/travel-api/internal/domain/errors"
	"github.com/gurgen2727/travel-api/internal/domain/models"
)

type SortKey string

const (
	SortPrice     SortKey = "price"
	SortDeparture SortKey = "departure_date"
	SortDuration  SortKey = "duration"
	SortReturn    SortKey = "return_date"
)

// DefaultSortKeys mirrors the CLI default ordering.
var DefaultSortKeys = []SortKey{SortPrice, SortDeparture, SortDuration, SortReturn}

// ParseSortKeys validates the requested keys, falling back to the
// default list when none are given. In one-way mode return_date is
// meaningless and is stripped.
func ParseSortKeys(tokens []string, oneWay bool) ([]SortKey, error) {
	keys := make([]SortKey, 0, len(tokens))
	if len(tokens) == 0 {
		keys = append(keys, DefaultSortKeys...)
	}
	for _, tok := range tokens {
		switch k := SortKey(tok); k {
		case SortPrice, SortDeparture, SortDuration, SortReturn:
			keys = append(keys, k)
		default:
			return nil, fmt.Errorf("%w: %q", derr.ErrBadSortKey, tok)
		}
	}
	if oneWay {
		kept := keys[:0]
		for _, k := range keys {
			if k != SortReturn {
				kept = append(kept, k)
			}
		}
		keys = kept
	}
	return keys, nil
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?`)

// DurationHours converts an ISO-8601 "PT#H#M" token (either component
// optional) into fractional hours.
func DurationHours(iso string) float64 {
	m := isoDurationRe.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	min, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	return float64(h) + float64(min)/60
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// Rank returns the offers stably sorted ascending by the composite
// key list. The input slice is left untouched.
func Rank(offers []models.Offer, keys []SortKey) []models.Offer {
	out := make([]models.Offer, len(offers))
	copy(out, offers)
	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			switch cmpByKey(out[i], out[j], k) {
			case -1:
				return true
			case 1:
				return false
			}
		}
		return false
	})
	return out
}

func cmpByKey(a, b models.Offer, key SortKey) int {
	switch key {
	case SortPrice:
		return cmpFloat(a.PriceTotal, b.PriceTotal)
	case SortDuration:
		return cmpFloat(DurationHours(a.Outbound().Duration), DurationHours(b.Outbound().Duration))
	case SortDeparture:
		return cmpTime(a.Outbound().FirstSegment().DepartureAt, b.Outbound().FirstSegment().DepartureAt)
	case SortReturn:
		return cmpTime(a.Last().LastSegment().ArrivalAt, b.Last().LastSegment().ArrivalAt)
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
