package models

import "time"

// Segment is one flight between two airports. Timestamps are the
// provider's airport-local wall-clock times.
type Segment struct {
	DepartureCode string    `json:"departure_code"`
	DepartureAt   time.Time `json:"departure_at"`
	ArrivalCode   string    `json:"arrival_code"`
	ArrivalAt     time.Time `json:"arrival_at"`
	CarrierCode   string    `json:"carrier_code,omitempty"`
	Number        string    `json:"number,omitempty"`
}

// Itinerary is the ordered segment chain of one travel leg.
type Itinerary struct {
	Duration string    `json:"duration"` // ISO-8601, e.g. "PT2H30M"
	Segments []Segment `json:"segments"`
}

// Offer is a priced search result. Offers are read-only once mapped:
// the tool only re-orders and filters them.
type Offer struct {
	PriceTotal  float64     `json:"price_total"`
	PriceRaw    string      `json:"price_raw"`
	Currency    string      `json:"currency"`
	Itineraries []Itinerary `json:"itineraries"`
}

func (o Offer) Outbound() Itinerary {
	if len(o.Itineraries) == 0 {
		return Itinerary{}
	}
	return o.Itineraries[0]
}

// Inbound returns the return leg. Offers from a one-way query carry a
// single itinerary and report ok=false.
func (o Offer) Inbound() (Itinerary, bool) {
	if len(o.Itineraries) < 2 {
		return Itinerary{}, false
	}
	return o.Itineraries[len(o.Itineraries)-1], true
}

// Last is the itinerary that closes the trip: the inbound leg for a
// round trip, the outbound itself for a one-way offer.
func (o Offer) Last() Itinerary {
	if len(o.Itineraries) == 0 {
		return Itinerary{}
	}
	return o.Itineraries[len(o.Itineraries)-1]
}

func (it Itinerary) FirstSegment() Segment {
	if len(it.Segments) == 0 {
		return Segment{}
	}
	return it.Segments[0]
}

func (it Itinerary) LastSegment() Segment {
	if len(it.Segments) == 0 {
		return Segment{}
	}
	return it.Segments[len(it.Segments)-1]
}

func (it Itinerary) Stops() int {
	if len(it.Segments) == 0 {
		return 0
	}
	return len(it.Segments) - 1
}
