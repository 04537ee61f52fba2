package weather

import (
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/yrno-forecast/internal/forecast"
)

// DaySummary is the numeric view of one summary entry.
type DaySummary struct {
	Date         time.Time `json:"date"` // always UTC
	Icon         string    `json:"icon,omitempty"`
	Rain         string    `json:"rain,omitempty"`
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPercent"`
	WindSpeedMS  float64   `json:"windSpeed"`
	PressureHpa  float64   `json:"pressureHpa"`
	PrecipMm     float64   `json:"precipMm"`
}

// Digest condenses a five-day summary.
type Digest struct {
	Location Location     `json:"location"`
	Days     []DaySummary `json:"days"`

	// Averages over the days that had data.
	TemperatureC float64 `json:"temperatureC"`
	HumidityPct  float64 `json:"humidityPercent"`
	PrecipMm     float64 `json:"precipMm"`
	Icon         string  `json:"icon"`
}

// Summarize turns a merged forecast into a DaySummary. Values that are
// missing or not numeric are left at zero. Without a basic interval the
// day is dated by the resolved instant.
func Summarize(fc *forecast.Forecast) DaySummary {
	d := DaySummary{
		Date: fc.At,
		Icon: fc.Icon,
		Rain: fc.Rain,
	}
	if fc.HasBase() {
		d.Date = fc.To
	}
	if fc.Rain != "" {
		d.PrecipMm = leadingFloat(fc.Rain)
	}
	if a, ok := fc.Attribute("temperature"); ok {
		d.TemperatureC = number(a)
	}
	if a, ok := fc.Attribute("humidity"); ok {
		d.HumidityPct = number(a)
	}
	if a, ok := fc.Attribute("windSpeed"); ok {
		d.WindSpeedMS = parseFloat(a.Fields["mps"])
	}
	if a, ok := fc.Attribute("pressure"); ok {
		d.PressureHpa = number(a)
	}
	return d
}

// BuildDigest combines summary entries into a Digest. Nil entries are
// skipped. The icon is selected by majority, earliest day on ties.
func BuildDigest(loc Location, summary []*forecast.Forecast) Digest {
	dg := Digest{Location: loc}

	var (
		sumTemp     float64
		sumHumidity float64
		sumPrecip   float64
	)
	iconCounts := make(map[string]int)
	var iconOrder []string

	for _, fc := range summary {
		if fc == nil {
			continue
		}
		d := Summarize(fc)
		dg.Days = append(dg.Days, d)

		sumTemp += d.TemperatureC
		sumHumidity += d.HumidityPct
		sumPrecip += d.PrecipMm

		if d.Icon != "" {
			if iconCounts[d.Icon] == 0 {
				iconOrder = append(iconOrder, d.Icon)
			}
			iconCounts[d.Icon]++
		}
	}

	if len(dg.Days) == 0 {
		return dg
	}

	n := float64(len(dg.Days))
	dg.TemperatureC = sumTemp / n
	dg.HumidityPct = sumHumidity / n
	dg.PrecipMm = sumPrecip / n

	bestCount := 0
	for _, icon := range iconOrder {
		if iconCounts[icon] > bestCount {
			bestCount = iconCounts[icon]
			dg.Icon = icon
		}
	}
	return dg
}

// number returns the numeric reading of a measure or percent attribute.
func number(a forecast.Attribute) float64 {
	switch a.Shape {
	case forecast.ShapeMeasure:
		return parseFloat(a.Value)
	case forecast.ShapePercent:
		return parseFloat(a.Percent)
	}
	return 0
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// leadingFloat reads the number in a "<value> <unit>" display string.
func leadingFloat(s string) float64 {
	v, _, _ := strings.Cut(strings.TrimSpace(s), " ")
	return parseFloat(v)
}
