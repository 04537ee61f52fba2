package providers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/yrno-forecast/internal/weather"
)

var errNoAPIKey = errors.New("geocoder api key is not configured")

// geocodeMu serialises access to the geocoder package key.
var geocodeMu sync.Mutex

// Geocoder resolves City/Country locations to coordinates with the Google
// geocoding API.
type Geocoder struct {
	apiKey string
	lookup func(geocoder.Address) (geocoder.Location, error)
}

// NewGeocoder creates a Geocoder using apiKey.
func NewGeocoder(apiKey string) *Geocoder {
	return &Geocoder{apiKey: apiKey, lookup: geocoder.Geocoding}
}

// Resolve fills Latitude/Longitude of loc. Locations that already have
// coordinates are returned unchanged.
func (g *Geocoder) Resolve(ctx context.Context, loc weather.Location) (weather.Location, error) {
	if loc.HasCoordinates() {
		return loc, nil
	}
	if loc.City == "" {
		return loc, fmt.Errorf("geocode: city is required")
	}
	if g.apiKey == "" {
		return loc, errNoAPIKey
	}
	if err := ctx.Err(); err != nil {
		return loc, err
	}

	geocodeMu.Lock()
	geocoder.ApiKey = g.apiKey
	res, err := g.lookup(geocoder.Address{City: loc.City, Country: loc.Country})
	geocodeMu.Unlock()
	if err != nil {
		return loc, fmt.Errorf("geocode %s: %w", loc.Key(), err)
	}

	loc.Latitude = res.Latitude
	loc.Longitude = res.Longitude
	return loc, nil
}
