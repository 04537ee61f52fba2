package weather

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/i474232898/yrno-forecast/internal/forecast"
)

func TestBuildDigest_Fixture(t *testing.T) {
	f, err := forecast.New(loadFixture(t))
	if err != nil {
		t.Fatalf("forecast.New() error = %v", err)
	}
	summary, err := f.FiveDaySummary(context.Background())
	if err != nil {
		t.Fatalf("FiveDaySummary() error = %v", err)
	}

	dg := BuildDigest(dublin, summary)
	if len(dg.Days) != forecast.SummaryDays {
		t.Fatalf("len(Days) = %d, want %d", len(dg.Days), forecast.SummaryDays)
	}
	for i, d := range dg.Days {
		if d.Icon == "" || d.Rain == "" {
			t.Errorf("Days[%d] missing icon or rain: %+v", i, d)
		}
		if d.HumidityPct <= 0 || d.PressureHpa <= 0 {
			t.Errorf("Days[%d] missing numeric readings: %+v", i, d)
		}
	}
	if dg.Icon == "" {
		t.Errorf("Icon is empty")
	}
}

func TestBuildDigest(t *testing.T) {
	day := func(icon, rain, temp string) *forecast.Forecast {
		b := &forecast.BasicInterval{
			Symbol:        forecast.Symbol{ID: icon},
			Precipitation: forecast.Attribute{Name: "precipitation", Shape: forecast.ShapeMeasure, Value: rain, Unit: "mm"},
		}
		d := &forecast.DetailedInterval{Attributes: []forecast.Attribute{
			{Name: "temperature", Shape: forecast.ShapeMeasure, Value: temp, Unit: "celsius"},
			{Name: "windSpeed", Shape: forecast.ShapeComposite, Fields: map[string]string{"mps": "4.5"}},
		}}
		return forecast.Merge(b, d)
	}

	summary := []*forecast.Forecast{
		day("Sun", "0.0", "10.0"),
		day("Rain", "2.0", "6.0"),
		nil,
		day("Rain", "1.0", "5.0"),
		day("Sun", "0.0", "n/a"),
	}

	dg := BuildDigest(dublin, summary)
	if len(dg.Days) != 4 {
		t.Fatalf("len(Days) = %d, want 4", len(dg.Days))
	}
	if dg.Icon != "Sun" {
		t.Errorf("Icon = %q, want Sun (earliest of the tied majority)", dg.Icon)
	}
	if math.Abs(dg.TemperatureC-5.25) > 1e-9 {
		t.Errorf("TemperatureC = %v, want 5.25", dg.TemperatureC)
	}
	if math.Abs(dg.PrecipMm-0.75) > 1e-9 {
		t.Errorf("PrecipMm = %v, want 0.75", dg.PrecipMm)
	}
	if dg.Days[0].WindSpeedMS != 4.5 {
		t.Errorf("WindSpeedMS = %v, want 4.5", dg.Days[0].WindSpeedMS)
	}
}

func TestBuildDigest_Empty(t *testing.T) {
	dg := BuildDigest(dublin, []*forecast.Forecast{nil, nil})
	if len(dg.Days) != 0 || dg.Icon != "" || dg.TemperatureC != 0 {
		t.Errorf("BuildDigest(all nil) = %+v, want empty digest", dg)
	}
}

func TestSummarize_DetailedOnly(t *testing.T) {
	at := time.Date(2017, 4, 22, 12, 0, 0, 0, time.UTC)
	fc := forecast.Merge(nil, &forecast.DetailedInterval{
		Window: forecast.Window{From: at, To: at},
		Attributes: []forecast.Attribute{
			{Name: "temperature", Shape: forecast.ShapeMeasure, Value: "3.5", Unit: "celsius"},
		},
	})
	fc.At = at

	d := Summarize(fc)
	if !d.Date.Equal(at) {
		t.Errorf("Date = %v, want %v", d.Date, at)
	}
	if d.Icon != "" || d.Rain != "" || d.TemperatureC != 3.5 {
		t.Errorf("Summarize() = %+v", d)
	}
}

func TestSummarize_UsesBasicWindowEnd(t *testing.T) {
	f, err := forecast.New(loadFixture(t))
	if err != nil {
		t.Fatalf("forecast.New() error = %v", err)
	}
	fc, err := f.ForecastForTime(time.Date(2017, 4, 25, 13, 0, 0, 0, time.UTC))
	if err != nil || fc == nil {
		t.Fatalf("ForecastForTime() = %v, %v", fc, err)
	}
	if want := time.Date(2017, 4, 25, 18, 0, 0, 0, time.UTC); !Summarize(fc).Date.Equal(want) {
		t.Errorf("Date = %v, want %v", Summarize(fc).Date, want)
	}
}
