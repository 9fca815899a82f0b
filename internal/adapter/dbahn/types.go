package dbahn

import "encoding/xml"

// Wire types for the XML timetables API: station search plus per-hour
// departure/arrival boards.

type stationsXML struct {
	XMLName xml.Name     `xml:"stations"`
	Station []stationXML `xml:"station"`
}

type stationXML struct {
	Name string `xml:"name,attr"`
	EVA  int    `xml:"eva,attr"`
}

type timetableXML struct {
	XMLName xml.Name  `xml:"timetable"`
	Station string    `xml:"station,attr"`
	Trips   []tripXML `xml:"s"`
}

type tripXML struct {
	ID        string      `xml:"id,attr"`
	Label     labelXML    `xml:"tl"`
	Arrival   halfTripXML `xml:"ar"`
	Departure halfTripXML `xml:"dp"`
}

// labelXML carries the train identity: category (c), number (n), owner (o).
type labelXML struct {
	Category string `xml:"c,attr"`
	Number   string `xml:"n,attr"`
	Owner    string `xml:"o,attr"`
}

// halfTripXML is one event at the board's station. pt/pp are planned time
// and platform, ct/cp the changed ones, ppth the path of stations before
// (ar) or after (dp) this station, cs the cancellation marker.
type halfTripXML struct {
	PlannedTime     string `xml:"pt,attr"`
	ChangedTime     string `xml:"ct,attr"`
	PlannedPlatform string `xml:"pp,attr"`
	ChangedPlatform string `xml:"cp,attr"`
	Path            string `xml:"ppth,attr"`
	Status          string `xml:"cs,attr"`
}
