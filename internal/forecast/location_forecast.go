package forecast

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/yrno-forecast/internal/xmltree"
)

// SummaryDays is the number of entries returned by FiveDaySummary.
const SummaryDays = 5

// summaryHour is the hour of day every summary entry after the first is
// anchored on.
const summaryHour = 12

// timeLayouts are tried in order by ForecastForTimeString. Layouts without
// a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LocationForecast answers time based queries against one fetched
// forecast payload. It is read-only after New and safe for concurrent use.
type LocationForecast struct {
	id     uuid.UUID
	xml    string
	root   *xmltree.Node
	doc    *Document
	logger *slog.Logger
}

// Option configures a LocationForecast.
type Option func(*LocationForecast)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(f *LocationForecast) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithID tags the forecast with a fetch identifier.
func WithID(id uuid.UUID) Option {
	return func(f *LocationForecast) {
		f.id = id
	}
}

// New parses and classifies an XML payload.
func New(payload string, opts ...Option) (*LocationForecast, error) {
	f := &LocationForecast{
		id:     uuid.New(),
		xml:    payload,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("forecast_id", f.id.String())

	start := time.Now()

	root, err := xmltree.ParseString(payload)
	if err != nil {
		return nil, &ParseError{Msg: "failed to parse forecast xml", Err: err}
	}
	f.logger.Debug("parsed forecast xml", "took", time.Since(start))

	doc, err := Classify(root)
	if err != nil {
		return nil, err
	}

	f.root = root
	f.doc = doc

	f.logger.Debug("forecast ready",
		"basic", len(doc.Basic),
		"detailed", len(doc.Detailed),
		"first", doc.First.Format(TimestampLayout),
		"last", doc.Last.Format(TimestampLayout),
		"took", time.Since(start))

	return f, nil
}

// ID returns the fetch identifier of this forecast.
func (f *LocationForecast) ID() uuid.UUID {
	return f.id
}

// Document returns the classified intervals.
func (f *LocationForecast) Document() *Document {
	return f.doc
}

// XML returns the payload as received.
func (f *LocationForecast) XML() string {
	return f.xml
}

// JSON renders the parsed tree with the document node preserved.
func (f *LocationForecast) JSON() ([]byte, error) {
	return xmltree.MarshalDocument(f.root)
}

// FirstDateInPayload returns the from instant of the first time node.
func (f *LocationForecast) FirstDateInPayload() time.Time {
	return f.doc.First
}

// LastDateInPayload returns the from instant of the last time node.
func (f *LocationForecast) LastDateInPayload() time.Time {
	return f.doc.Last
}

// IsInRange reports whether t lies within [first, last] of the payload.
func (f *LocationForecast) IsInRange(t time.Time) bool {
	return !t.Before(f.doc.First) && !t.After(f.doc.Last)
}

// ValidTimestamps lists, in ascending order, every instant a time node
// ends on.
func (f *LocationForecast) ValidTimestamps() []string {
	seen := make(map[time.Time]struct{}, len(f.doc.Detailed)+len(f.doc.Basic))
	var instants []time.Time

	add := func(t time.Time) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		instants = append(instants, t)
	}

	// Both slices are sorted; merge them.
	i, j := 0, 0
	for i < len(f.doc.Detailed) || j < len(f.doc.Basic) {
		switch {
		case j >= len(f.doc.Basic):
			add(f.doc.Detailed[i].To)
			i++
		case i >= len(f.doc.Detailed):
			add(f.doc.Basic[j].To)
			j++
		case !f.doc.Basic[j].To.Before(f.doc.Detailed[i].To):
			add(f.doc.Detailed[i].To)
			i++
		default:
			add(f.doc.Basic[j].To)
			j++
		}
	}

	out := make([]string, len(instants))
	for k, t := range instants {
		out[k] = t.Format(TimestampLayout)
	}
	return out
}

// ForecastForTime returns the merged forecast for t, rounded to the
// nearest hour. It returns nil without error when the rounded instant is
// outside the payload range, and an *InvalidTimeError for a zero time.
func (f *LocationForecast) ForecastForTime(t time.Time) (*Forecast, error) {
	if t.IsZero() {
		return nil, &InvalidTimeError{}
	}

	at := RoundToHour(t)
	if !f.IsInRange(at) {
		f.logger.Debug("requested time outside forecast range", "time", at.Format(TimestampLayout))
		return nil, nil
	}

	basic, _ := ResolveBasic(f.doc.Basic, at)
	detailed, _ := ResolveDetailed(f.doc.Detailed, at)

	f.logger.Debug("resolved forecast",
		"time", at.Format(TimestampLayout),
		"basic", basic != nil,
		"detailed", detailed != nil)

	fc := Merge(basic, detailed)
	if fc != nil {
		fc.At = at
	}
	return fc, nil
}

// ForecastForTimeString parses s as an instant and calls ForecastForTime.
func (f *LocationForecast) ForecastForTimeString(s string) (*Forecast, error) {
	t, err := ParseTime(s)
	if err != nil {
		return nil, err
	}
	return f.ForecastForTime(t)
}

// ParseTime reads s using the accepted lookup layouts.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &InvalidTimeError{Input: s}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &InvalidTimeError{Input: s}
}

// FiveDaySummary returns one forecast per day for five days, anchored on
// midday of the first day in the payload. The first entry uses the payload
// start instead when midday is already past. Entries are nil where no
// forecast is available.
func (f *LocationForecast) FiveDaySummary(ctx context.Context) ([]*Forecast, error) {
	start := f.doc.First
	base := time.Date(start.Year(), start.Month(), start.Day(), summaryHour, 0, 0, 0, time.UTC)

	first := base
	if first.Before(start) {
		first = start
	}

	f.logger.Debug("building five day summary",
		"anchor", base.Format(TimestampLayout),
		"first", first.Format(TimestampLayout))

	out := make([]*Forecast, SummaryDays)
	g, ctx := errgroup.WithContext(ctx)
	for i := range SummaryDays {
		at := base.AddDate(0, 0, i)
		if i == 0 {
			at = first
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fc, err := f.ForecastForTime(at)
			if err != nil {
				return err
			}
			out[i] = fc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
