package sbb

// Wire types for the Swiss open transport JSON API.

type locationsResponse struct {
	Stations []locationPayload `json:"stations"`
}

type locationPayload struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Coordinate *coordinate `json:"coordinate"`
}

type coordinate struct {
	X float64 `json:"x"` // latitude
	Y float64 `json:"y"` // longitude
}

type connectionsResponse struct {
	Connections []connectionPayload `json:"connections"`
}

type connectionPayload struct {
	Duration string           `json:"duration"` // "00d04:03:00"
	Sections []sectionPayload `json:"sections"`
}

type sectionPayload struct {
	Journey *journeyPayload `json:"journey"`
}

type journeyPayload struct {
	ID       string              `json:"id"`
	Category string              `json:"category"`
	Number   string              `json:"number"`
	Operator string              `json:"operator"`
	PassList []checkpointPayload `json:"passList"`
}

type checkpointPayload struct {
	Station            locationPayload `json:"station"`
	Arrival            string          `json:"arrival"`
	ArrivalTimestamp   int64           `json:"arrivalTimestamp"`
	Departure          string          `json:"departure"`
	DepartureTimestamp int64           `json:"departureTimestamp"`
	Delay              int             `json:"delay"`
	Platform           string          `json:"platform"`
	Prognosis          *prognosis      `json:"prognosis"`
}

type prognosis struct {
	Platform  string `json:"platform"`
	Arrival   string `json:"arrival"`
	Departure string `json:"departure"`
}

type journeyResponse struct {
	Journey *journeyPayload `json:"journey"`
}
