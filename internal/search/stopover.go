package search

import (
	"math"

	"github.com/gurgen2727/travel-api/internal/domain/models"
)

// StopoverSpec holds the configured layover limits for one leg, in
// hours. Empty means unbounded, one value applies around the clock,
// two values split into [day, night] with day = local hour in [6, 22).
type StopoverSpec []float64

// LimitAt returns the maximum allowed connection wait for a layover
// that starts at the given local hour.
func (s StopoverSpec) LimitAt(hour int) float64 {
	switch len(s) {
	case 0:
		return math.Inf(1)
	case 1:
		return s[0]
	}
	if hour >= 6 && hour < 22 {
		return s[0]
	}
	return s[1]
}

// CheckItinerary reports whether every connection wait stays within
// the spec and the stop count within maxStops. A wait exactly equal to
// the limit passes; only strictly longer waits reject.
func CheckItinerary(it models.Itinerary, spec StopoverSpec, maxStops int) bool {
	if it.Stops() > maxStops {
		return false
	}
	segs := it.Segments
	for i := 1; i < len(segs); i++ {
		wait := segs[i].DepartureAt.Sub(segs[i-1].ArrivalAt).Hours()
		if wait < 0 {
			wait = -wait
		}
		if wait > spec.LimitAt(segs[i-1].ArrivalAt.Hour()) {
			return false
		}
	}
	return true
}
