package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/yrno-forecast/internal/weather"
)

func TestGeocoder_Resolve(t *testing.T) {
	var got geocoder.Address
	g := NewGeocoder("key")
	g.lookup = func(a geocoder.Address) (geocoder.Location, error) {
		got = a
		return geocoder.Location{Latitude: 53.3498, Longitude: -6.2603}, nil
	}

	loc, err := g.Resolve(context.Background(), weather.Location{City: "Dublin", Country: "Ireland"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.City != "Dublin" || got.Country != "Ireland" {
		t.Errorf("lookup address = %+v", got)
	}
	if loc.Latitude != 53.3498 || loc.Longitude != -6.2603 || loc.City != "Dublin" {
		t.Errorf("Resolve() = %+v", loc)
	}
}

func TestGeocoder_Errors(t *testing.T) {
	failing := func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("ZERO_RESULTS")
	}

	tests := []struct {
		name   string
		apiKey string
		loc    weather.Location
	}{
		{name: "no api key", loc: weather.Location{City: "Dublin"}},
		{name: "no city", apiKey: "key", loc: weather.Location{Country: "Ireland"}},
		{name: "lookup fails", apiKey: "key", loc: weather.Location{City: "Nowhere"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeocoder(tt.apiKey)
			g.lookup = failing
			if _, err := g.Resolve(context.Background(), tt.loc); err == nil {
				t.Errorf("Resolve() error = nil, want non-nil")
			}
		})
	}
}

func TestGeocoder_KeepsCoordinates(t *testing.T) {
	g := NewGeocoder("")
	g.lookup = func(geocoder.Address) (geocoder.Location, error) {
		t.Fatalf("lookup called for a resolved location")
		return geocoder.Location{}, nil
	}

	in := weather.Location{Latitude: 59.91, Longitude: 10.75}
	out, err := g.Resolve(context.Background(), in)
	if err != nil || out != in {
		t.Errorf("Resolve() = %+v, %v; want %+v, nil", out, err, in)
	}
}
