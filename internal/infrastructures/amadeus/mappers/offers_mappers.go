package mappers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gurgen2727/travel-api/internal/domain/models"
	"github.com/gurgen2727/travel-api/internal/infrastructures/amadeus/dto"
)

// ToOffers maps the provider payload into the domain model. Offers
// without a parsable price or without itineraries are dropped.
func ToOffers(data []dto.FlightOffer) []models.Offer {
	offers := make([]models.Offer, 0, len(data))
	for _, item := range data {
		total, err := strconv.ParseFloat(strings.TrimSpace(item.Price.Total), 64)
		if err != nil || total <= 0 {
			continue
		}
		if len(item.Itineraries) == 0 {
			continue
		}
		offer := models.Offer{
			PriceTotal:  total,
			PriceRaw:    strings.TrimSpace(item.Price.Total),
			Currency:    item.Price.Currency,
			Itineraries: make([]models.Itinerary, 0, len(item.Itineraries)),
		}
		for _, itin := range item.Itineraries {
			offer.Itineraries = append(offer.Itineraries, toItinerary(itin))
		}
		offers = append(offers, offer)
	}
	return offers
}

func toItinerary(itin dto.Itinerary) models.Itinerary {
	out := models.Itinerary{
		Duration: itin.Duration,
		Segments: make([]models.Segment, 0, len(itin.Segments)),
	}
	for _, seg := range itin.Segments {
		out.Segments = append(out.Segments, models.Segment{
			DepartureCode: seg.Departure.IATACode,
			DepartureAt:   parseLocalTime(seg.Departure.At),
			ArrivalCode:   seg.Arrival.IATACode,
			ArrivalAt:     parseLocalTime(seg.Arrival.At),
			CarrierCode:   seg.CarrierCode,
			Number:        seg.Number,
		})
	}
	return out
}

// Amadeus reports airport-local timestamps without a zone designator.
func parseLocalTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	layouts := []string{
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
