package search

import (
	"math"
	"testing"
	"time"

	"github.com/gurgen2727/travel-api/internal/domain/models"
)

func seg(depCode string, dep time.Time, arrCode string, arr time.Time) models.Segment {
	return models.Segment{
		DepartureCode: depCode,
		DepartureAt:   dep,
		ArrivalCode:   arrCode,
		ArrivalAt:     arr,
	}
}

func TestLimitAt_DayNightSplit(t *testing.T) {
	spec := StopoverSpec{10, 6}

	if got := spec.LimitAt(8); got != 10 {
		t.Fatalf("hour 8 should use day limit, got %v", got)
	}
	if got := spec.LimitAt(23); got != 6 {
		t.Fatalf("hour 23 should use night limit, got %v", got)
	}
	if got := spec.LimitAt(6); got != 10 {
		t.Fatalf("hour 6 is the first day hour, got %v", got)
	}
	if got := spec.LimitAt(22); got != 6 {
		t.Fatalf("hour 22 is the first night hour, got %v", got)
	}
}

func TestLimitAt_SingleValueAppliesAlways(t *testing.T) {
	spec := StopoverSpec{4}
	if spec.LimitAt(12) != 4 || spec.LimitAt(3) != 4 {
		t.Fatalf("single value must apply around the clock")
	}
}

func TestLimitAt_UnboundedWhenEmpty(t *testing.T) {
	if !math.IsInf(StopoverSpec{}.LimitAt(12), 1) {
		t.Fatalf("empty spec must be unbounded")
	}
}

func TestCheckItinerary_EqualWaitAccepted(t *testing.T) {
	base := time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC)
	it := models.Itinerary{Segments: []models.Segment{
		seg("LHR", base, "FRA", base.Add(2*time.Hour)),
		// wait is exactly 10h, connection starts at hour 10 (day)
		seg("FRA", base.Add(12*time.Hour), "EVN", base.Add(16*time.Hour)),
	}}

	if !CheckItinerary(it, StopoverSpec{10, 6}, 1) {
		t.Fatalf("wait equal to the limit must be accepted")
	}
}

func TestCheckItinerary_SlightlyOverRejected(t *testing.T) {
	base := time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC)
	overLimit := 10*time.Hour + 36*time.Second // 10.01h
	it := models.Itinerary{Segments: []models.Segment{
		seg("LHR", base, "FRA", base.Add(2*time.Hour)),
		seg("FRA", base.Add(2*time.Hour).Add(overLimit), "EVN", base.Add(18*time.Hour)),
	}}

	if CheckItinerary(it, StopoverSpec{10, 6}, 1) {
		t.Fatalf("wait over the limit must be rejected")
	}
}

func TestCheckItinerary_NightLimitPicked(t *testing.T) {
	// arrival at 23:00 starts a night connection: limit 6h
	arr := time.Date(2025, time.June, 5, 23, 0, 0, 0, time.UTC)
	it := models.Itinerary{Segments: []models.Segment{
		seg("LHR", arr.Add(-2*time.Hour), "FRA", arr),
		seg("FRA", arr.Add(7*time.Hour), "EVN", arr.Add(11*time.Hour)),
	}}

	if CheckItinerary(it, StopoverSpec{10, 6}, 1) {
		t.Fatalf("7h night wait must exceed the 6h night limit")
	}
	if !CheckItinerary(it, StopoverSpec{10}, 1) {
		t.Fatalf("single 10h limit must accept a 7h wait at any hour")
	}
}

func TestCheckItinerary_MaxStopsBound(t *testing.T) {
	base := time.Date(2025, time.June, 5, 8, 0, 0, 0, time.UTC)
	it := models.Itinerary{Segments: []models.Segment{
		seg("LHR", base, "FRA", base.Add(1*time.Hour)),
		seg("FRA", base.Add(2*time.Hour), "IST", base.Add(4*time.Hour)),
		seg("IST", base.Add(5*time.Hour), "EVN", base.Add(7*time.Hour)),
	}}

	if CheckItinerary(it, nil, 1) {
		t.Fatalf("two connections must exceed max-stops 1")
	}
	if !CheckItinerary(it, nil, 2) {
		t.Fatalf("two connections must pass max-stops 2")
	}
}
