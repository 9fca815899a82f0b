package ns

// Wire types for the NS reisinformatie-style JSON API.

type stationsResponse struct {
	Payload []stationPayload `json:"payload"`
}

type stationPayload struct {
	Code    string  `json:"code"`
	UICCode string  `json:"uic_code"`
	Country string  `json:"land"`
	Names   names   `json:"namen"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type names struct {
	Long string `json:"lang"`
}

type tripsResponse struct {
	Trips []tripPayload `json:"trips"`
}

type tripPayload struct {
	Legs []legPayload `json:"legs"`
}

type legPayload struct {
	JourneyDetailRef         string    `json:"journeyDetailRef"`
	Product                  product   `json:"product"`
	Stops                    []legStop `json:"stops"`
	PlannedDurationInMinutes int       `json:"plannedDurationInMinutes"`
	Cancelled                bool      `json:"cancelled"`
}

type product struct {
	Number       string `json:"number"`
	CategoryCode string `json:"categoryCode"`
	OperatorName string `json:"operatorName"`
}

type legStop struct {
	Name             string `json:"name"`
	UICCode          string `json:"uicCode"`
	CountryCode      string `json:"countryCode"`
	PlannedArrival   string `json:"plannedArrivalDateTime"`
	ActualArrival    string `json:"actualArrivalDateTime"`
	PlannedDeparture string `json:"plannedDepartureDateTime"`
	ActualDeparture  string `json:"actualDepartureDateTime"`
	PlannedTrack     string `json:"plannedTrack"`
	ActualTrack      string `json:"actualTrack"`
	Cancelled        bool   `json:"cancelled"`
}

type journeyResponse struct {
	Payload tripPayload `json:"payload"`
}
