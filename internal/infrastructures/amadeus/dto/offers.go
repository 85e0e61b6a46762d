package dto

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type FlightOffersResponse struct {
	Data []FlightOffer `json:"data"`
}

type FlightOffer struct {
	ID          string      `json:"id"`
	Price       Price       `json:"price"`
	Itineraries []Itinerary `json:"itineraries"`
}

type Price struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Departure   Endpoint `json:"departure"`
	Arrival     Endpoint `json:"arrival"`
	CarrierCode string   `json:"carrierCode"`
	Number      string   `json:"number"`
}

type Endpoint struct {
	IATACode string `json:"iataCode"`
	Terminal string `json:"terminal"`
	At       string `json:"at"`
}
