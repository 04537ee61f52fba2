package forecast

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// TimestampLayout is the instant format used by the locationforecast API.
const TimestampLayout = "2006-01-02T15:04:05Z"

// kind tells basic intervals (symbol + precipitation) from detailed ones
// (full attribute set). It is decided once per time node by Classify.
type kind int

const (
	kindBasic kind = iota + 1
	kindDetailed
)

func (k kind) String() string {
	switch k {
	case kindBasic:
		return "basic"
	case kindDetailed:
		return "detailed"
	default:
		return "unknown"
	}
}

// Window is the closed [From, To] span of one time node. Index is the
// node's position in the source document and breaks ties between windows.
type Window struct {
	From  time.Time
	To    time.Time
	Index int
}

// Span returns To - From.
func (w Window) Span() time.Duration {
	return w.To.Sub(w.From)
}

// Contains reports whether t lies inside the window, both ends included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

func (w Window) window() Window {
	return w
}

// Shape describes which fields an Attribute carries.
type Shape int

const (
	// ShapeMeasure is a value with a unit, e.g. temperature.
	ShapeMeasure Shape = iota + 1
	// ShapePercent is a percentage, e.g. cloudiness.
	ShapePercent
	// ShapeComposite is any other attribute set, e.g. wind speed with
	// m/s, beaufort and name.
	ShapeComposite
)

// Attribute is one provider-defined measurement of a location, such as
// <temperature id="TTT" unit="celsius" value="7.4"/>.
type Attribute struct {
	Name    string
	ID      string
	Shape   Shape
	Value   string
	Unit    string
	Percent string
	// Fields holds every XML attribute except id.
	Fields map[string]string
}

// Display renders the attribute as a single human readable string:
// "<value> <unit>", "<percent>%" or the composite fields as key=value pairs.
func (a Attribute) Display() string {
	switch a.Shape {
	case ShapeMeasure:
		return a.Value + " " + a.Unit
	case ShapePercent:
		return a.Percent + "%"
	}

	keys := make([]string, 0, len(a.Fields))
	for k := range a.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+a.Fields[k])
	}
	return strings.Join(parts, " ")
}

// MarshalJSON emits the structured fields without the provider id.
func (a Attribute) MarshalJSON() ([]byte, error) {
	if a.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a.Fields)
}

func (a Attribute) clone() Attribute {
	out := a
	if a.Fields != nil {
		out.Fields = make(map[string]string, len(a.Fields))
		for k, v := range a.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

// Symbol is the weather icon of a basic interval.
type Symbol struct {
	ID     string
	Number int
}

// BasicInterval carries only an icon and precipitation, plus the
// temperature range some providers attach to longer windows.
type BasicInterval struct {
	Window
	Symbol         Symbol
	Precipitation  Attribute
	MinTemperature *Attribute
	MaxTemperature *Attribute
}

// DetailedInterval carries the full attribute set of one instant.
type DetailedInterval struct {
	Window
	Attributes []Attribute
}

// Attribute looks up an attribute by its tag name.
func (d DetailedInterval) Attribute(name string) (Attribute, bool) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Document is a classified forecast payload. Both slices are ordered by
// To, keeping document order for equal ends. First and Last are the from
// instants of the first and last raw time node.
type Document struct {
	Basic    []BasicInterval
	Detailed []DetailedInterval
	First    time.Time
	Last     time.Time
}

// Forecast is the merged record answered for a single instant.
type Forecast struct {
	// At is the rounded instant the record was resolved for. It is zero
	// for records built directly by Merge.
	At             time.Time
	Icon           string
	From           time.Time
	To             time.Time
	Rain           string
	MinTemperature *Attribute
	MaxTemperature *Attribute
	Attributes     map[string]Attribute

	hasBase bool
}

// HasBase reports whether icon, rain and the window came from a basic
// interval. Without one those fields are not available.
func (f *Forecast) HasBase() bool {
	return f != nil && f.hasBase
}

// Attribute returns a merged detailed attribute by name.
func (f *Forecast) Attribute(name string) (Attribute, bool) {
	if f == nil {
		return Attribute{}, false
	}
	a, ok := f.Attributes[name]
	return a, ok
}

// MarshalJSON flattens the record: base fields next to every detailed
// attribute keyed by its source name.
func (f *Forecast) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}

	out := make(map[string]any, len(f.Attributes)+6)
	for name, a := range f.Attributes {
		out[name] = a
	}
	if f.hasBase {
		out["icon"] = f.Icon
		out["from"] = f.From.UTC().Format(TimestampLayout)
		out["to"] = f.To.UTC().Format(TimestampLayout)
		out["rain"] = f.Rain
	}
	if f.MinTemperature != nil {
		out["minTemperature"] = *f.MinTemperature
	}
	if f.MaxTemperature != nil {
		out["maxTemperature"] = *f.MaxTemperature
	}
	return json.Marshal(out)
}
