package weather

import (
	"strconv"
)

// Location is a point the forecast is fetched for. Latitude and Longitude
// are required by the yr.no source; City/Country are kept for display and
// geocoding.
type Location struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
	Altitude  *int    `json:"msl,omitempty"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
}

// Key returns a canonical string key for logging and result indexing.
func (l Location) Key() string {
	if l.City != "" {
		return l.City + ":" + l.Country
	}
	return strconv.FormatFloat(l.Latitude, 'f', 4, 64) + "," + strconv.FormatFloat(l.Longitude, 'f', 4, 64)
}

// HasCoordinates reports whether the location has been resolved to a point.
// The zero point in the Gulf of Guinea is treated as unresolved.
func (l Location) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}
